package internal

import (
	"io"
)

// A recursive descent parser for minijava:
//
//	Goal            ::= MainClass ClassDecl* EOF
//	MainClass       ::= class Id { public static void main ( String [ ] Id ) { VarDecl* Statement* } }
//	ClassDecl       ::= class Id [extends Id] { VarDecl* MethodDecl* }
//	MethodDecl      ::= public Type Id ( [Type Id (, Type Id)*] ) { VarDecl* Statement* return Expr ; }
//	Type            ::= int [ ] | boolean [ ] | int | boolean | Id

type Parser struct {
	currentTokenPos int
	currentTokens   []*Token
}

func (parser *Parser) Parse(rd io.Reader) (*GoalAst, error) {
	parser.reset()
	tokenizer := &Tokenizer{}
	tokens, err := tokenizer.Tokenize(rd)
	if err != nil {
		return nil, err
	}
	parser.currentTokens = tokens
	return parser.ParseGoal()
}

func (parser *Parser) reset() {
	parser.currentTokenPos, parser.currentTokens = 0, nil
}

func (parser *Parser) ParseGoal() (*GoalAst, error) {
	mainClass, err := parser.ParseMainClass()
	if err != nil {
		return nil, err
	}
	goal := &GoalAst{Main: mainClass}
	for parser.hasRemainTokens() {
		class, err := parser.ParseClassDeclaration()
		if err != nil {
			return nil, err
		}
		goal.Classes = append(goal.Classes, class)
	}
	return goal, nil
}

// class Main {
//    public static void main(String[] args) { ... }
// }
func (parser *Parser) ParseMainClass() (*MainClassAst, error) {
	classToken, match := parser.expectToken(ClassTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	classNameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	if !parser.expectTokens(LeftBraceTP, PublicTP, StaticTP, VoidTP, MainTP, LeftParentThesesTP, StringTP,
		LeftSquareBracketTP, RightSquareBracketTP) {
		return nil, parser.makeError(true)
	}
	argsToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	if !parser.expectTokens(RightParentThesesTP, LeftBraceTP) {
		return nil, parser.makeError(true)
	}
	locals, err := parser.parseVarDeclarations()
	if err != nil {
		return nil, err
	}
	stms, err := parser.parseStatements()
	if err != nil {
		return nil, err
	}
	if !parser.expectTokens(RightBraceTP, RightBraceTP) {
		return nil, parser.makeError(true)
	}
	return &MainClassAst{
		ClassName:  classNameToken.content,
		ArgsName:   argsToken.content,
		Locals:     locals,
		Statements: stms,
		Line:       classToken.line,
	}, nil
}

// class Identifier [extends Identifier] {
//    varDefs
//    methodDefs
// }
func (parser *Parser) ParseClassDeclaration() (*ClassAst, error) {
	classToken, match := parser.expectToken(ClassTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	classNameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	ast := &ClassAst{ClassName: classNameToken.content, Line: classToken.line}
	if _, match = parser.expectToken(ExtendsTP, true); match {
		superToken, match := parser.expectToken(IdentifierTP, true)
		if !match {
			return nil, parser.makeError(true)
		}
		ast.SuperName = superToken.content
	}
	_, match = parser.expectToken(LeftBraceTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	fields, err := parser.parseVarDeclarations()
	if err != nil {
		return nil, err
	}
	ast.Fields = fields
	for {
		_, match = parser.expectToken(RightBraceTP, true)
		if match {
			return ast, nil
		}
		method, err := parser.ParseMethodDeclaration()
		if err != nil {
			return nil, err
		}
		ast.Methods = append(ast.Methods, method)
	}
}

// public Type name(Type a, Type b) {
//    varDefs
//    statements
//    return expression;
// }
func (parser *Parser) ParseMethodDeclaration() (*MethodAst, error) {
	publicToken, match := parser.expectToken(PublicTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	returnTP, err := parser.ParseVariableType()
	if err != nil {
		return nil, err
	}
	methodNameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	params, err := parser.parseFuncParams()
	if err != nil {
		return nil, err
	}
	_, match = parser.expectToken(LeftBraceTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	locals, err := parser.parseVarDeclarations()
	if err != nil {
		return nil, err
	}
	stms, err := parser.parseStatements()
	if err != nil {
		return nil, err
	}
	_, match = parser.expectToken(ReturnTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	ret, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	if !parser.expectTokens(SemiColonTP, RightBraceTP) {
		return nil, parser.makeError(true)
	}
	return &MethodAst{
		MethodName: methodNameToken.content,
		ReturnTP:   returnTP,
		Params:     params,
		Locals:     locals,
		Statements: stms,
		Return:     ret,
		Line:       publicToken.line,
	}, nil
}

// (Type a, Type b)
func (parser *Parser) parseFuncParams() (params []*FuncParamAst, err error) {
	_, match := parser.expectToken(LeftParentThesesTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	_, match = parser.expectToken(RightParentThesesTP, true)
	if match {
		return nil, nil
	}
	for {
		paramTP, err := parser.ParseVariableType()
		if err != nil {
			return nil, err
		}
		paramNameToken, match := parser.expectToken(IdentifierTP, true)
		if !match {
			return nil, parser.makeError(true)
		}
		params = append(params, &FuncParamAst{
			ParamName: paramNameToken.content,
			ParamTP:   paramTP,
			Line:      paramNameToken.line,
		})
		_, match = parser.expectToken(CommaTP, true)
		if match {
			continue
		}
		_, match = parser.expectToken(RightParentThesesTP, true)
		if !match {
			return nil, parser.makeError(true)
		}
		return params, nil
	}
}

func (parser *Parser) ParseVariableType() (v VariableType, err error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return
	}
	switch token.tp {
	case IntTP:
		v = IntType
	case BooleanTP:
		v = BooleanType
	case IdentifierTP:
		v = ClassType(token.content)
	default:
		err = parser.makeError(true)
		return
	}
	parser.stepForward()
	if v.IsClass() {
		return
	}
	if _, match := parser.expectToken(LeftSquareBracketTP, false); !match {
		return
	}
	parser.stepForward()
	if _, match := parser.expectToken(RightSquareBracketTP, true); !match {
		err = parser.makeError(true)
		return
	}
	if v.TP == IntVariableType {
		v = IntArrayType
	} else {
		v = BooleanArrayType
	}
	return
}

// Var declarations come before statements. `int`, `boolean` or two identifiers in a row start one.
func (parser *Parser) parseVarDeclarations() (vars []*VarDeclareAst, err error) {
	for parser.matchVarDeclaration() {
		varType, err := parser.ParseVariableType()
		if err != nil {
			return nil, err
		}
		varNameToken, match := parser.expectToken(IdentifierTP, true)
		if !match {
			return nil, parser.makeError(true)
		}
		_, match = parser.expectToken(SemiColonTP, true)
		if !match {
			return nil, parser.makeError(true)
		}
		vars = append(vars, &VarDeclareAst{
			VarName: varNameToken.content,
			VarType: varType,
			Line:    varNameToken.line,
		})
	}
	return
}

func (parser *Parser) matchVarDeclaration() bool {
	token, err := parser.getCurrentToken()
	if err != nil {
		return false
	}
	switch token.tp {
	case IntTP, BooleanTP:
		return true
	case IdentifierTP:
		next := parser.currentTokenPos + 1
		return next < len(parser.currentTokens) && parser.currentTokens[next].tp == IdentifierTP
	}
	return false
}

func (parser *Parser) parseStatements() (stms []StatementAst, err error) {
	for parser.hasRemainTokens() {
		token, _ := parser.getCurrentToken()
		if token.tp == RightBraceTP || token.tp == ReturnTP {
			break
		}
		statement, err := parser.parseStatement()
		if err != nil {
			return nil, err
		}
		stms = append(stms, statement)
	}
	return
}

func (parser *Parser) parseStatement() (stm StatementAst, err error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, err
	}
	switch token.tp {
	case LeftBraceTP:
		stm, err = parser.parseBlockStatement()
	case IfTP:
		stm, err = parser.parseIfStatement()
	case WhileTP:
		stm, err = parser.parseWhileStatement()
	case PrintTP:
		stm, err = parser.parsePrintStatement()
	case IdentifierTP:
		stm, err = parser.parseAssignStatement()
	default:
		err = parser.makeError(true)
	}
	return
}

func (parser *Parser) parseBlockStatement() (StatementAst, error) {
	_, match := parser.expectToken(LeftBraceTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	stms, err := parser.parseStatements()
	if err != nil {
		return nil, err
	}
	_, match = parser.expectToken(RightBraceTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	return &BlockStatementAst{Statements: stms}, nil
}

// if (expression) statement else statement
func (parser *Parser) parseIfStatement() (StatementAst, error) {
	if !parser.expectTokens(IfTP, LeftParentThesesTP) {
		return nil, parser.makeError(true)
	}
	condition, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	_, match := parser.expectToken(RightParentThesesTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	ifTrue, err := parser.parseStatement()
	if err != nil {
		return nil, err
	}
	_, match = parser.expectToken(ElseTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	ifFalse, err := parser.parseStatement()
	if err != nil {
		return nil, err
	}
	return &IfStatementAst{Condition: condition, IfTrueStatement: ifTrue, IfFalseStatement: ifFalse}, nil
}

// while (expression) statement
func (parser *Parser) parseWhileStatement() (StatementAst, error) {
	if !parser.expectTokens(WhileTP, LeftParentThesesTP) {
		return nil, parser.makeError(true)
	}
	condition, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	_, match := parser.expectToken(RightParentThesesTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	body, err := parser.parseStatement()
	if err != nil {
		return nil, err
	}
	return &WhileStatementAst{Condition: condition, Statement: body}, nil
}

// System.out.println(expression);
func (parser *Parser) parsePrintStatement() (StatementAst, error) {
	if !parser.expectTokens(PrintTP, LeftParentThesesTP) {
		return nil, parser.makeError(true)
	}
	value, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	if !parser.expectTokens(RightParentThesesTP, SemiColonTP) {
		return nil, parser.makeError(true)
	}
	return &PrintStatementAst{Value: value}, nil
}

// a = expression; or a[expression] = expression;
func (parser *Parser) parseAssignStatement() (StatementAst, error) {
	varNameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	var index ExpressionAst
	if _, match = parser.expectToken(LeftSquareBracketTP, true); match {
		var err error
		index, err = parser.parseExpression()
		if err != nil {
			return nil, err
		}
		_, match = parser.expectToken(RightSquareBracketTP, true)
		if !match {
			return nil, parser.makeError(true)
		}
	}
	_, match = parser.expectToken(AssignTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	value, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	_, match = parser.expectToken(SemiColonTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	if index != nil {
		return &ArrayAssignStatementAst{VarName: varNameToken.content, Index: index, Value: value}, nil
	}
	return &AssignStatementAst{VarName: varNameToken.content, Value: value}, nil
}

func (parser *Parser) getCurrentToken() (*Token, error) {
	if !parser.hasRemainTokens() {
		return nil, parser.makeError(true)
	}
	return parser.currentTokens[parser.currentTokenPos], nil
}

func (parser *Parser) stepForward() {
	parser.currentTokenPos++
}

func (parser *Parser) hasRemainTokens() bool {
	return parser.currentTokenPos < len(parser.currentTokens)
}

func (parser *Parser) expectTokens(expectedTokenTPs ...TokenType) bool {
	for _, tokenType := range expectedTokenTPs {
		_, ok := parser.expectToken(tokenType, true)
		if !ok {
			return false
		}
	}
	return true
}

func (parser *Parser) expectToken(expectedTokenTp TokenType, walk bool) (*Token, bool) {
	if parser.currentTokenPos >= len(parser.currentTokens) || parser.currentTokens[parser.currentTokenPos].tp !=
		expectedTokenTp {
		return nil, false
	}
	token := parser.currentTokens[parser.currentTokenPos]
	if walk {
		parser.currentTokenPos++
	}
	return token, true
}

func (parser *Parser) makeError(useCurrentPos bool) error {
	currentPos := parser.currentTokenPos
	if !useCurrentPos {
		currentPos--
	}
	if currentPos < 0 || currentPos >= len(parser.currentTokens) {
		return &SyntaxError{}
	}
	currentToken := parser.currentTokens[currentPos]
	return &SyntaxError{Near: currentToken.content, Line: currentToken.line}
}
