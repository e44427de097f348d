package internal

import (
	"strconv"
)

// Binary expressions are parsed as a flat list of terms and operators first, then folded into a tree
// by priority. All operators are left associative.

func buildExpressionsTree(ops []*OpAst, exprTerms []ExpressionAst) ExpressionAst {
	if len(ops) == 0 {
		return exprTerms[0]
	}
	ret, _ := buildExpressionsTree0(ops, exprTerms, 0, 0)
	return ret
}

func buildExpressionsTree0(ops []*OpAst, exprTerms []ExpressionAst, loc int, minPriority int) (ExpressionAst, int) {
	lhs := exprTerms[loc]
	i := loc
	for i < len(ops) && ops[i].priority >= minPriority {
		op := ops[i]
		rhs := exprTerms[i+1]
		j := i + 1
		for j < len(ops) && ops[j].priority > op.priority {
			rhs, j = buildExpressionsTree0(ops, exprTerms, j, ops[j].priority)
		}
		lhs = &BinaryExpressionAst{Op: op, Left: lhs, Right: rhs}
		exprTerms[j] = lhs
		i = j
	}
	return lhs, i
}

func (parser *Parser) parseExpressions() (exprs []ExpressionAst, err error) {
	for parser.hasRemainTokens() {
		expression, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expression)
		_, match := parser.expectToken(CommaTP, false)
		if !match {
			break
		}
		parser.stepForward()
	}
	return
}

func (parser *Parser) parseExpression() (ExpressionAst, error) {
	leftExprTerm, err := parser.parseExpressionTerm()
	if err != nil {
		return nil, err
	}
	var ops []*OpAst
	exprTerms := []ExpressionAst{leftExprTerm}
	for parser.matchOp() {
		op, err := parser.parseOpAst()
		if err != nil {
			return nil, err
		}
		exprTerm, err := parser.parseExpressionTerm()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		exprTerms = append(exprTerms, exprTerm)
	}
	return buildExpressionsTree(ops, exprTerms), nil
}

// parseExpressionTerm parses a primary expression followed by any number of `[index]`, `.length` and
// `.method(args)` suffixes. `!` applies to the whole term after it.
func (parser *Parser) parseExpressionTerm() (ExpressionAst, error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, err
	}
	if token.tp == NotTP {
		parser.stepForward()
		operand, err := parser.parseExpressionTerm()
		if err != nil {
			return nil, err
		}
		return &NotExpressionAst{Operand: operand}, nil
	}
	expr, err := parser.parsePrimaryExpression()
	if err != nil {
		return nil, err
	}
	for {
		if _, match := parser.expectToken(LeftSquareBracketTP, true); match {
			index, err := parser.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, match = parser.expectToken(RightSquareBracketTP, true); !match {
				return nil, parser.makeError(true)
			}
			expr = &ArrayLookupAst{Array: expr, Index: index}
			continue
		}
		if _, match := parser.expectToken(DotTP, true); !match {
			return expr, nil
		}
		if _, match := parser.expectToken(LengthTP, true); match {
			expr = &ArrayLengthAst{Array: expr}
			continue
		}
		expr, err = parser.parseMethodCall(expr)
		if err != nil {
			return nil, err
		}
	}
}

// method(a, b), the receiver and the dot are already consumed.
func (parser *Parser) parseMethodCall(receiver ExpressionAst) (ExpressionAst, error) {
	methodNameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	_, match = parser.expectToken(LeftParentThesesTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	call := &MethodCallAst{Receiver: receiver, MethodName: methodNameToken.content}
	if _, match = parser.expectToken(RightParentThesesTP, true); match {
		return call, nil
	}
	params, err := parser.parseExpressions()
	if err != nil {
		return nil, err
	}
	_, match = parser.expectToken(RightParentThesesTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	call.Params = params
	return call, nil
}

func (parser *Parser) parsePrimaryExpression() (ExpressionAst, error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, err
	}
	switch token.tp {
	case IntegerTP:
		value, err := strconv.ParseInt(token.content, 10, 32)
		if err != nil {
			return nil, &SyntaxError{Near: token.content, Line: token.line, Msg: "integer out of range"}
		}
		parser.stepForward()
		return &IntegerConstantAst{Value: int(value)}, nil
	case TrueTP, FalseTP:
		parser.stepForward()
		return &BooleanConstantAst{Value: token.tp == TrueTP}, nil
	case IdentifierTP:
		parser.stepForward()
		return &IdentifierAst{Name: token.content}, nil
	case ThisTP:
		parser.stepForward()
		return &ThisAst{}, nil
	case NewTP:
		return parser.parseAllocationExpression()
	case LeftParentThesesTP:
		return parser.parseSubExpression()
	}
	return nil, parser.makeError(true)
}

// new int[size], new boolean[size] or new ClassName()
func (parser *Parser) parseAllocationExpression() (ExpressionAst, error) {
	_, match := parser.expectToken(NewTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, err
	}
	switch token.tp {
	case IntTP, BooleanTP:
		parser.stepForward()
		elemType := IntType
		if token.tp == BooleanTP {
			elemType = BooleanType
		}
		_, match = parser.expectToken(LeftSquareBracketTP, true)
		if !match {
			return nil, parser.makeError(true)
		}
		size, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		_, match = parser.expectToken(RightSquareBracketTP, true)
		if !match {
			return nil, parser.makeError(true)
		}
		return &ArrayAllocationAst{ElemType: elemType, Size: size}, nil
	case IdentifierTP:
		parser.stepForward()
		if !parser.expectTokens(LeftParentThesesTP, RightParentThesesTP) {
			return nil, parser.makeError(true)
		}
		return &ObjectAllocationAst{ClassName: token.content}, nil
	}
	return nil, parser.makeError(true)
}

func (parser *Parser) parseSubExpression() (ExpressionAst, error) {
	_, match := parser.expectToken(LeftParentThesesTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	expr, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	_, match = parser.expectToken(RightParentThesesTP, true)
	if !match {
		return nil, parser.makeError(true)
	}
	return &BracketExpressionAst{Inner: expr}, nil
}

func (parser *Parser) parseOpAst() (*OpAst, error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, err
	}
	var op *OpAst
	switch token.tp {
	case AndTP:
		op = &AndOpAst
	case LessTP:
		op = &LessOpAst
	case AddTP:
		op = &AddOpAst
	case MinusTP:
		op = &MinusOpAst
	case MultiplyTP:
		op = &MultipleOpAst
	default:
		return nil, parser.makeError(true)
	}
	parser.stepForward()
	return op, nil
}

func (parser *Parser) matchOp() bool {
	token, err := parser.getCurrentToken()
	if err != nil {
		return false
	}
	switch token.tp {
	case AndTP, LessTP, AddTP, MinusTP, MultiplyTP:
		return true
	default:
		return false
	}
}
