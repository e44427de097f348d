package internal

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exprString prints an expression with every binary operation in parentheses.
func exprString(expr ExpressionAst) string {
	switch expr := expr.(type) {
	case *BinaryExpressionAst:
		return fmt.Sprintf("(%s %s %s)", exprString(expr.Left), expr.Op, exprString(expr.Right))
	case *ArrayLookupAst:
		return fmt.Sprintf("%s[%s]", exprString(expr.Array), exprString(expr.Index))
	case *ArrayLengthAst:
		return exprString(expr.Array) + ".length"
	case *MethodCallAst:
		params := make([]string, 0, len(expr.Params))
		for _, p := range expr.Params {
			params = append(params, exprString(p))
		}
		return fmt.Sprintf("%s.%s(%s)", exprString(expr.Receiver), expr.MethodName, strings.Join(params, ", "))
	case *IntegerConstantAst:
		return fmt.Sprint(expr.Value)
	case *BooleanConstantAst:
		return fmt.Sprint(expr.Value)
	case *IdentifierAst:
		return expr.Name
	case *ThisAst:
		return "this"
	case *ArrayAllocationAst:
		return fmt.Sprintf("new %s[%s]", expr.ElemType, exprString(expr.Size))
	case *ObjectAllocationAst:
		return fmt.Sprintf("new %s()", expr.ClassName)
	case *NotExpressionAst:
		return "!" + exprString(expr.Operand)
	case *BracketExpressionAst:
		return "(" + exprString(expr.Inner) + ")"
	}
	return fmt.Sprintf("%T", expr)
}

func parseTestExpression(t *testing.T, content string) (ExpressionAst, error) {
	tokenizer := &Tokenizer{}
	tokens, err := tokenizer.Tokenize(bytes.NewReader([]byte(content)))
	require.Nil(t, err, content)
	parser := &Parser{currentTokens: tokens}
	ast, err := parser.parseExpression()
	if err == nil && parser.hasRemainTokens() {
		err = parser.makeError(true)
	}
	return ast, err
}

func TestParser_ParseExpression(t *testing.T) {
	testData := []struct {
		content  string
		expected string
	}{
		{content: "1 + 2 * 3", expected: "(1 + (2 * 3))"},
		{content: "1 - 2 - 3", expected: "((1 - 2) - 3)"},
		{content: "a - b * c + d", expected: "((a - (b * c)) + d)"},
		{content: "a && b < c + d * e", expected: "(a && (b < (c + (d * e))))"},
		{content: "a * b + c < d && e", expected: "((((a * b) + c) < d) && e)"},
		{content: "a && b + c < d", expected: "(a && ((b + c) < d))"},
		{content: "(1 + 2) * 3", expected: "(((1 + 2)) * 3)"},
		{content: "!a.f(1, b)[2].length", expected: "!a.f(1, b)[2].length"},
		{content: "!a && b", expected: "(!a && b)"},
		{content: "new int[3 + 1]", expected: "new int[(3 + 1)]"},
		{content: "new boolean[n].length", expected: "new boolean[n].length"},
		{content: "new A().f()", expected: "new A().f()"},
		{content: "this.f(true, false)", expected: "this.f(true, false)"},
		{content: "a[i * 2] + a.length", expected: "(a[(i * 2)] + a.length)"},
	}
	for _, data := range testData {
		ast, err := parseTestExpression(t, data.content)
		require.Nil(t, err, data.content)
		assert.Equal(t, data.expected, exprString(ast), data.content)
	}
}

func TestParser_ParseExpressionErrors(t *testing.T) {
	testData := []string{
		"1 +",
		"a.",
		"a.f(1,",
		"new int[1",
		"new A",
		"(1 + 2",
		"2147483648",
		"a[]",
	}
	for _, data := range testData {
		_, err := parseTestExpression(t, data)
		var se *SyntaxError
		assert.ErrorAs(t, err, &se, data)
	}
}

func TestParser_ParseGoal(t *testing.T) {
	data := `
class Main {
	public static void main(String[] args) {
		int x;
		A a;
		x = 1;
		System.out.println(x);
	}
}

class A {
	int i;
	boolean[] flags;

	public int get(int d, B b) {
		int[] arr;
		boolean ok;
		arr = new int[d];
		arr[0] = i;
		if (ok) {
			i = 1;
		} else
			while (i < 10) i = i + 1;
		return arr[0];
	}
}

class B extends A {
	public int get(int d, B b) {
		return d;
	}
}
`
	parser := &Parser{}
	goal, err := parser.Parse(bytes.NewReader([]byte(data)))
	require.Nil(t, err)

	main := goal.Main
	assert.Equal(t, "Main", main.ClassName)
	assert.Equal(t, "args", main.ArgsName)
	require.Len(t, main.Locals, 2)
	assert.Equal(t, IntType, main.Locals[0].VarType)
	assert.Equal(t, ClassType("A"), main.Locals[1].VarType)
	require.Len(t, main.Statements, 2)
	assert.IsType(t, &AssignStatementAst{}, main.Statements[0])
	assert.IsType(t, &PrintStatementAst{}, main.Statements[1])

	require.Len(t, goal.Classes, 2)
	a := goal.Classes[0]
	assert.Equal(t, "A", a.ClassName)
	assert.Equal(t, "", a.SuperName)
	require.Len(t, a.Fields, 2)
	assert.Equal(t, BooleanArrayType, a.Fields[1].VarType)
	require.Len(t, a.Methods, 1)

	get := a.Methods[0]
	assert.Equal(t, "get", get.MethodName)
	assert.Equal(t, IntType, get.ReturnTP)
	require.Len(t, get.Params, 2)
	assert.Equal(t, "b", get.Params[1].ParamName)
	assert.Equal(t, ClassType("B"), get.Params[1].ParamTP)
	require.Len(t, get.Locals, 2)
	assert.Equal(t, IntArrayType, get.Locals[0].VarType)
	require.Len(t, get.Statements, 3)
	assert.IsType(t, &ArrayAssignStatementAst{}, get.Statements[1])
	ifStm, ok := get.Statements[2].(*IfStatementAst)
	require.True(t, ok)
	assert.IsType(t, &BlockStatementAst{}, ifStm.IfTrueStatement)
	assert.IsType(t, &WhileStatementAst{}, ifStm.IfFalseStatement)
	assert.Equal(t, "arr[0]", exprString(get.Return))

	assert.Equal(t, "B", goal.Classes[1].ClassName)
	assert.Equal(t, "A", goal.Classes[1].SuperName)
}

func TestParser_ParseErrors(t *testing.T) {
	testData := []struct {
		content      string
		expectedNear string
		expectedLine int
	}{
		{
			content: `class Main {
	public static void main(String[] a) {
		System.out.println(1)
	}
}`,
			expectedNear: "}",
			expectedLine: 4,
		},
		{
			content: `class Main {
	public static void main(String[] a) {
		if (true) System.out.println(1);
	}
}`,
			expectedNear: "}",
			expectedLine: 4,
		},
		{
			content: `class Main {
	public void main(String[] a) {
	}
}`,
			expectedNear: "void",
			expectedLine: 2,
		},
		{
			content: `class Main {
	public static void main(String[] a) {
	}
}
class A {
	public int f() {
		return;
	}
}`,
			expectedNear: ";",
			expectedLine: 7,
		},
		{
			content: `class Main {
	public static void main(String[] a) {
	}
}
class A {
	int x;
	public int f() { return 1; }
	int y;
}`,
			expectedNear: "int",
			expectedLine: 8,
		},
	}
	parser := &Parser{}
	for _, data := range testData {
		_, err := parser.Parse(bytes.NewReader([]byte(data.content)))
		var se *SyntaxError
		require.ErrorAs(t, err, &se, data.content)
		assert.Equal(t, data.expectedNear, se.Near, data.content)
		assert.Equal(t, data.expectedLine, se.Line, data.content)
	}
}

func TestParser_UnexpectedEnd(t *testing.T) {
	parser := &Parser{}
	_, err := parser.Parse(bytes.NewReader([]byte("class Main {")))
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "syntax error: unexpected end of input", se.Error())
}
