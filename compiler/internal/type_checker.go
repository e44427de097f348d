package internal

import (
	"context"

	"tlog.app/go/tlog"
)

// Pass 2. Check walks the file again and gives every expression a type. It doesn't create entries, it
// only fills VarEntry.ClassType once the class a variable names is known to exist.

type typeChecker struct {
	st *SymbolTable
	tr tlog.Span
}

func Check(ctx context.Context, goal *GoalAst, st *SymbolTable) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "pass2: check")
	defer tr.Finish("err", &err)

	checker := &typeChecker{st: st, tr: tr}
	err = checker.checkMainClass(goal.Main)
	if err != nil {
		return err
	}
	for _, class := range goal.Classes {
		err = checker.checkClass(class)
		if err != nil {
			return err
		}
	}
	return nil
}

func (checker *typeChecker) checkMainClass(ast *MainClassAst) error {
	c, ok := checker.st.LookupClass(ast.ClassName)
	if !ok {
		return atLine(makeSemanticError(ast.ClassName, "class %s is not declared", ast.ClassName), ast.Line)
	}
	main, ok := checker.st.LookupMethod(c, "main")
	if !ok {
		return makeSemanticError("main", "method main is not declared in class %s", c.Name())
	}
	sc := scopeContext{class: c, method: main}
	err := checker.checkVars(sc, main.Locals, ast.Locals)
	if err != nil {
		return err
	}
	return checker.checkStatements(sc, ast.Statements)
}

func (checker *typeChecker) checkClass(ast *ClassAst) error {
	c, ok := checker.st.LookupClass(ast.ClassName)
	if !ok {
		return atLine(makeSemanticError(ast.ClassName, "class %s is not declared", ast.ClassName), ast.Line)
	}
	sc := scopeContext{class: c}
	err := checker.checkVars(sc, c.Fields, ast.Fields)
	if err != nil {
		return err
	}
	for _, method := range ast.Methods {
		err = checker.checkMethod(sc, method)
		if err != nil {
			return err
		}
	}
	checker.tr.Printw("class checked", "class", c.Name())
	return nil
}

func (checker *typeChecker) checkMethod(sc scopeContext, ast *MethodAst) error {
	id, ok := sc.class.Methods.Lookup(ast.MethodName)
	if !ok {
		return makeSemanticError(ast.MethodName, "method %s is not declared in class %s", ast.MethodName, sc.class.Name())
	}
	m := checker.st.Method(id)
	sc = sc.inMethod(m)
	err := resolveType(checker.st, sc, m.ReturnType)
	if err != nil {
		return atLine(err, ast.Line)
	}
	err = checker.checkParams(sc, m.Params, ast.Params)
	if err != nil {
		return err
	}
	err = checker.checkVars(sc, m.Locals, ast.Locals)
	if err != nil {
		return err
	}
	err = checker.checkStatements(sc, ast.Statements)
	if err != nil {
		return err
	}
	ret, err := checker.typeOf(sc, ast.Return)
	if err != nil {
		return err
	}
	if !checker.st.IsSubtype(ret, m.ReturnType) {
		return makeSemanticError(m.Name(), "method %s.%s returns %s, expect %s", sc.class.Name(), m.Name(), ret, m.ReturnType)
	}
	return nil
}

// checkVars makes sure class-typed variables name a declared class and records that class.
func (checker *typeChecker) checkVars(sc scopeContext, scope *Scope, decls []*VarDeclareAst) error {
	for _, decl := range decls {
		err := checker.checkVar(sc, scope, decl.VarName)
		if err != nil {
			return atLine(err, decl.Line)
		}
	}
	return nil
}

func (checker *typeChecker) checkParams(sc scopeContext, scope *Scope, params []*FuncParamAst) error {
	for _, param := range params {
		err := checker.checkVar(sc, scope, param.ParamName)
		if err != nil {
			return atLine(err, param.Line)
		}
	}
	return nil
}

func (checker *typeChecker) checkVar(sc scopeContext, scope *Scope, name string) error {
	id, ok := scope.Lookup(name)
	if !ok {
		return makeSemanticError(name, "variable %s is not declared", name)
	}
	v := checker.st.Var(id)
	if !v.Type.IsClass() {
		return nil
	}
	res, err := resolveIdentifier(checker.st, sc, v.Type.Name, ResolveTypeReference)
	if err != nil {
		return err
	}
	v.ClassType = res.Class.ID()
	return nil
}

func (checker *typeChecker) checkStatements(sc scopeContext, stms []StatementAst) error {
	for _, stm := range stms {
		err := checker.checkStatement(sc, stm)
		if err != nil {
			return err
		}
	}
	return nil
}

func (checker *typeChecker) checkStatement(sc scopeContext, stm StatementAst) error {
	switch stm := stm.(type) {
	case *BlockStatementAst:
		return checker.checkStatements(sc, stm.Statements)
	case *IfStatementAst:
		err := checker.expectType(sc, stm.Condition, BooleanType, "if condition")
		if err != nil {
			return err
		}
		err = checker.checkStatement(sc, stm.IfTrueStatement)
		if err != nil {
			return err
		}
		return checker.checkStatement(sc, stm.IfFalseStatement)
	case *WhileStatementAst:
		err := checker.expectType(sc, stm.Condition, BooleanType, "while condition")
		if err != nil {
			return err
		}
		return checker.checkStatement(sc, stm.Statement)
	case *PrintStatementAst:
		return checker.expectType(sc, stm.Value, IntType, "print argument")
	case *AssignStatementAst:
		return checker.checkAssignStatement(sc, stm)
	case *ArrayAssignStatementAst:
		return checker.checkArrayAssignStatement(sc, stm)
	}
	return makeSemanticError("", "unknown statement %T", stm)
}

func (checker *typeChecker) checkAssignStatement(sc scopeContext, stm *AssignStatementAst) error {
	lhs, err := resolveIdentifier(checker.st, sc, stm.VarName, ResolveUseSite)
	if err != nil {
		return err
	}
	rhs, err := checker.typeOf(sc, stm.Value)
	if err != nil {
		return err
	}
	if !checker.st.IsSubtype(rhs, lhs.Type) {
		return makeSemanticError(stm.VarName, "cannot assign %s to %s of type %s", rhs, stm.VarName, lhs.Type)
	}
	return nil
}

func (checker *typeChecker) checkArrayAssignStatement(sc scopeContext, stm *ArrayAssignStatementAst) error {
	lhs, err := resolveIdentifier(checker.st, sc, stm.VarName, ResolveUseSite)
	if err != nil {
		return err
	}
	if !lhs.Type.IsArray() {
		return makeSemanticError(stm.VarName, "%s of type %s is not an array", stm.VarName, lhs.Type)
	}
	err = checker.expectType(sc, stm.Index, IntType, "array index")
	if err != nil {
		return err
	}
	return checker.expectType(sc, stm.Value, lhs.Type.ElemType(), "array element of "+stm.VarName)
}

func (checker *typeChecker) expectType(sc scopeContext, expr ExpressionAst, expected VariableType, what string) error {
	tp, err := checker.typeOf(sc, expr)
	if err != nil {
		return err
	}
	if tp != expected {
		return makeSemanticError("", "%s must be %s, got %s", what, expected, tp)
	}
	return nil
}

func (checker *typeChecker) typeOf(sc scopeContext, expr ExpressionAst) (VariableType, error) {
	switch expr := expr.(type) {
	case *BinaryExpressionAst:
		return checker.typeOfBinaryExpression(sc, expr)
	case *ArrayLookupAst:
		array, err := checker.expectArray(sc, expr.Array)
		if err != nil {
			return VariableType{}, err
		}
		err = checker.expectType(sc, expr.Index, IntType, "array index")
		if err != nil {
			return VariableType{}, err
		}
		return array.ElemType(), nil
	case *ArrayLengthAst:
		_, err := checker.expectArray(sc, expr.Array)
		if err != nil {
			return VariableType{}, err
		}
		return IntType, nil
	case *MethodCallAst:
		return checker.typeOfMethodCall(sc, expr)
	case *IntegerConstantAst:
		return IntType, nil
	case *BooleanConstantAst:
		return BooleanType, nil
	case *IdentifierAst:
		res, err := resolveIdentifier(checker.st, sc, expr.Name, ResolveUseSite)
		return res.Type, err
	case *ThisAst:
		return ClassType(sc.class.Name()), nil
	case *ArrayAllocationAst:
		err := checker.expectType(sc, expr.Size, IntType, "array size")
		if err != nil {
			return VariableType{}, err
		}
		if expr.ElemType == BooleanType {
			return BooleanArrayType, nil
		}
		return IntArrayType, nil
	case *ObjectAllocationAst:
		res, err := resolveIdentifier(checker.st, sc, expr.ClassName, ResolveTypeReference)
		return res.Type, err
	case *NotExpressionAst:
		err := checker.expectType(sc, expr.Operand, BooleanType, "operand of !")
		if err != nil {
			return VariableType{}, err
		}
		return BooleanType, nil
	case *BracketExpressionAst:
		return checker.typeOf(sc, expr.Inner)
	}
	return VariableType{}, makeSemanticError("", "unknown expression %T", expr)
}

func (checker *typeChecker) typeOfBinaryExpression(sc scopeContext, expr *BinaryExpressionAst) (VariableType, error) {
	left, err := checker.typeOf(sc, expr.Left)
	if err != nil {
		return VariableType{}, err
	}
	right, err := checker.typeOf(sc, expr.Right)
	if err != nil {
		return VariableType{}, err
	}
	operand, result := IntType, IntType
	switch expr.Op.Op {
	case AndOpTP:
		operand, result = BooleanType, BooleanType
	case LessOpTP:
		result = BooleanType
	}
	if left != operand || right != operand {
		return VariableType{}, makeSemanticError(expr.Op.Name, "operator %s expects %s operands, got %s and %s",
			expr.Op.Name, operand, left, right)
	}
	return result, nil
}

func (checker *typeChecker) expectArray(sc scopeContext, expr ExpressionAst) (VariableType, error) {
	tp, err := checker.typeOf(sc, expr)
	if err != nil {
		return VariableType{}, err
	}
	if !tp.IsArray() {
		return VariableType{}, makeSemanticError("", "expect an array, got %s", tp)
	}
	return tp, nil
}

func (checker *typeChecker) typeOfMethodCall(sc scopeContext, expr *MethodCallAst) (VariableType, error) {
	receiver, err := checker.typeOf(sc, expr.Receiver)
	if err != nil {
		return VariableType{}, err
	}
	if !receiver.IsClass() {
		return VariableType{}, makeSemanticError(expr.MethodName, "cannot call method %s on %s", expr.MethodName, receiver)
	}
	class, err := resolveIdentifier(checker.st, sc, receiver.Name, ResolveTypeReference)
	if err != nil {
		return VariableType{}, err
	}
	method, err := resolveIdentifier(checker.st, scopeContext{class: class.Class}, expr.MethodName, ResolveMethodReference)
	if err != nil {
		return VariableType{}, err
	}
	args := make([]VariableType, 0, len(expr.Params))
	for _, param := range expr.Params {
		tp, err := checker.typeOf(sc, param)
		if err != nil {
			return VariableType{}, err
		}
		args = append(args, tp)
	}
	if method.Method.Params.Len() != len(args) {
		return VariableType{}, makeSemanticError(expr.MethodName, "method %s.%s expects %d arguments, got %d",
			receiver.Name, expr.MethodName, method.Method.Params.Len(), len(args))
	}
	if !checker.st.MatchArgs(method.Method, args) {
		return VariableType{}, makeSemanticError(expr.MethodName, "method %s.%s cannot be called with %v",
			receiver.Name, expr.MethodName, args)
	}
	return method.Type, nil
}
