package internal

// In this file, we defined all ast of minijava according to the minijava grammar. A minijava file starts
// with the main class, followed by zero or more class declarations. There is no package or import
// declaration.

type GoalAst struct {
	Main    *MainClassAst
	Classes []*ClassAst
}

// MainClassAst is the entry point class: no fields and a single `public static void main(String[] args)`.
type MainClassAst struct {
	ClassName  string
	ArgsName   string
	Locals     []*VarDeclareAst
	Statements []StatementAst
	Line       int
}

type ClassAst struct {
	ClassName string
	// SuperName is empty when the class doesn't extend anything.
	SuperName string
	Fields    []*VarDeclareAst
	Methods   []*MethodAst
	Line      int
}

type VarDeclareAst struct {
	VarName string
	VarType VariableType
	Line    int
}

type FuncParamAst struct {
	ParamName string
	ParamTP   VariableType
	Line      int
}

type MethodAst struct {
	MethodName string
	ReturnTP   VariableType
	Params     []*FuncParamAst
	Locals     []*VarDeclareAst
	Statements []StatementAst
	Return     ExpressionAst
	Line       int
}

type VariableType struct {
	TP   VarType
	Name string // Only set for ClassVariableType.
}

type VarType int

const (
	VoidVariableType VarType = iota // This only be used for main.
	IntVariableType
	BooleanVariableType
	IntArrayVariableType
	BooleanArrayVariableType
	ClassVariableType
)

var (
	VoidType         = VariableType{TP: VoidVariableType}
	IntType          = VariableType{TP: IntVariableType}
	BooleanType      = VariableType{TP: BooleanVariableType}
	IntArrayType     = VariableType{TP: IntArrayVariableType}
	BooleanArrayType = VariableType{TP: BooleanArrayVariableType}
)

func ClassType(name string) VariableType {
	return VariableType{TP: ClassVariableType, Name: name}
}

func (t VariableType) String() string {
	switch t.TP {
	case VoidVariableType:
		return "void"
	case IntVariableType:
		return "int"
	case BooleanVariableType:
		return "boolean"
	case IntArrayVariableType:
		return "int[]"
	case BooleanArrayVariableType:
		return "boolean[]"
	case ClassVariableType:
		return t.Name
	}
	return ""
}

func (t VariableType) IsClass() bool {
	return t.TP == ClassVariableType
}

func (t VariableType) IsArray() bool {
	return t.TP == IntArrayVariableType || t.TP == BooleanArrayVariableType
}

// ElemType returns the element type of an array type.
func (t VariableType) ElemType() VariableType {
	if t.TP == BooleanArrayVariableType {
		return BooleanType
	}
	return IntType
}

// Size is the number of bytes a value of this type occupies inside an object.
// Arrays and objects are pointers.
func (t VariableType) Size() int {
	switch t.TP {
	case IntVariableType:
		return 4
	case BooleanVariableType:
		return 1
	}
	return 8
}

type StatementAst interface {
	statement()
}

type BlockStatementAst struct {
	Statements []StatementAst
}

// IfStatementAst always has both branches.
type IfStatementAst struct {
	Condition        ExpressionAst
	IfTrueStatement  StatementAst
	IfFalseStatement StatementAst
}

type WhileStatementAst struct {
	Condition ExpressionAst
	Statement StatementAst
}

type PrintStatementAst struct {
	Value ExpressionAst
}

type AssignStatementAst struct {
	VarName string
	Value   ExpressionAst
}

type ArrayAssignStatementAst struct {
	VarName string
	Index   ExpressionAst
	Value   ExpressionAst
}

func (*BlockStatementAst) statement()       {}
func (*IfStatementAst) statement()          {}
func (*WhileStatementAst) statement()       {}
func (*PrintStatementAst) statement()       {}
func (*AssignStatementAst) statement()      {}
func (*ArrayAssignStatementAst) statement() {}

type ExpressionAst interface {
	expression()
}

type OpCode int

const (
	AndOpTP OpCode = iota
	LessOpTP
	AddOpTP
	MinusOpTP
	MultipleOpTP
)

type OpAst struct {
	Op       OpCode
	priority int
	Name     string
}

var (
	AndOpAst      = OpAst{Op: AndOpTP, priority: 1, Name: "&&"}
	LessOpAst     = OpAst{Op: LessOpTP, priority: 2, Name: "<"}
	AddOpAst      = OpAst{Op: AddOpTP, priority: 3, Name: "+"}
	MinusOpAst    = OpAst{Op: MinusOpTP, priority: 3, Name: "-"}
	MultipleOpAst = OpAst{Op: MultipleOpTP, priority: 4, Name: "*"}
)

func (op OpAst) String() string {
	return op.Name
}

type BinaryExpressionAst struct {
	Op    *OpAst
	Left  ExpressionAst
	Right ExpressionAst
}

type ArrayLookupAst struct {
	Array ExpressionAst
	Index ExpressionAst
}

type ArrayLengthAst struct {
	Array ExpressionAst
}

// MethodCallAst is `receiver.method(params...)`.
type MethodCallAst struct {
	Receiver   ExpressionAst
	MethodName string
	Params     []ExpressionAst
}

type IntegerConstantAst struct {
	Value int
}

type BooleanConstantAst struct {
	Value bool
}

type IdentifierAst struct {
	Name string
}

type ThisAst struct{}

// ArrayAllocationAst is `new int[size]` or `new boolean[size]`.
type ArrayAllocationAst struct {
	ElemType VariableType
	Size     ExpressionAst
}

type ObjectAllocationAst struct {
	ClassName string
}

type NotExpressionAst struct {
	Operand ExpressionAst
}

type BracketExpressionAst struct {
	Inner ExpressionAst
}

func (*BinaryExpressionAst) expression()  {}
func (*ArrayLookupAst) expression()       {}
func (*ArrayLengthAst) expression()       {}
func (*MethodCallAst) expression()        {}
func (*IntegerConstantAst) expression()   {}
func (*BooleanConstantAst) expression()   {}
func (*IdentifierAst) expression()        {}
func (*ThisAst) expression()              {}
func (*ArrayAllocationAst) expression()   {}
func (*ObjectAllocationAst) expression()  {}
func (*NotExpressionAst) expression()     {}
func (*BracketExpressionAst) expression() {}
