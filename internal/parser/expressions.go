package parser

import (
	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	start := p.curToken
	p.enter(start)
	defer p.leave()

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
	}
	leftExp := prefix()

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		// Grouping parentheses belong to the enclosing node's source text.
		setSpan(leftExp, p.spanFrom(start))
	}
	return leftExp
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	if tok.Type == token.EOF {
		p.fail(diagnostics.ErrP003, tok, "unexpected end of input, expected an expression")
	}
	p.fail(diagnostics.ErrP004, tok, "%s cannot start an expression", describe(tok))
}

func setSpan(expr ast.Expression, span token.Span) {
	switch e := expr.(type) {
	case *ast.BinaryExpression:
		e.Loc = span
	case *ast.AssignmentExpression:
		e.Loc = span
	case *ast.MemberExpression:
		e.Loc = span
	case *ast.IndexExpression:
		e.Loc = span
	case *ast.CallExpression:
		e.Loc = span
	}
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	v, _ := p.curToken.Literal.(int64)
	return &ast.NumberLiteral{Token: p.curToken, Value: float64(v)}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	v, _ := p.curToken.Literal.(string)
	return &ast.StringLiteral{Token: p.curToken, Value: v}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curToken.Lexeme == "true"}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

func (p *Parser) parseThisExpression() ast.Expression {
	return &ast.ThisExpression{Token: p.curToken}
}

func (p *Parser) parseSuperExpression() ast.Expression {
	if !p.peekTokenIs(token.LPAREN) && !p.peekTokenIs(token.DOT) {
		p.unexpected(p.peekToken, "( or . after super")
	}
	return &ast.SuperExpression{Token: p.curToken}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	start := p.curToken
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	return &ast.UnaryExpression{Token: start, Operator: start.Lexeme, Operand: operand, Loc: p.spanFrom(start)}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	expr := &ast.BinaryExpression{Token: p.curToken, Operator: p.curToken.Lexeme, Left: left}
	precedence := precedences[p.curToken.Type]
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	expr.Loc = left.Span().Cover(p.curToken.Span)
	return expr
}

// parseAssignmentExpression recurses one level below ASSIGN so that
// a = b = 1 nests to the right.
func (p *Parser) parseAssignmentExpression(left ast.Expression) ast.Expression {
	switch left.(type) {
	case *ast.Identifier, *ast.MemberExpression, *ast.IndexExpression:
	default:
		p.fail(diagnostics.ErrP002, p.curToken, "invalid assignment target %s", left.String())
	}
	expr := &ast.AssignmentExpression{Token: p.curToken, Target: left}
	p.nextToken()
	expr.Value = p.parseExpression(ASSIGN - 1)
	expr.Loc = left.Span().Cover(p.curToken.Span)
	return expr
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	expr := &ast.CallExpression{Token: p.curToken, Callee: callee}
	expr.Args = p.parseExpressionList(token.RPAREN)
	expr.Loc = callee.Span().Cover(p.curToken.Span)
	return expr
}

func (p *Parser) parseMemberExpression(object ast.Expression) ast.Expression {
	expr := &ast.MemberExpression{Token: p.curToken, Object: object}
	p.expectPeek(token.IDENT)
	expr.Property = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	expr.Loc = object.Span().Cover(p.curToken.Span)
	return expr
}

func (p *Parser) parseIndexExpression(object ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Object: object}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	p.expectPeek(token.RBRACKET)
	expr.Loc = object.Span().Cover(p.curToken.Span)
	return expr
}

func (p *Parser) parseNewExpression() ast.Expression {
	start := p.curToken
	p.nextToken()
	expr := &ast.NewExpression{Token: start, Type: p.parseType()}
	if _, ok := expr.Type.(*ast.LambdaTypeNode); ok {
		p.fail(diagnostics.ErrP001, p.curToken, "cannot instantiate a function type")
	}
	p.expectPeek(token.LPAREN)
	expr.Args = p.parseExpressionList(token.RPAREN)
	expr.Loc = p.spanFrom(start)
	return expr
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	start := p.curToken
	elements := p.parseExpressionList(token.RBRACKET)
	return &ast.ArrayLiteral{Token: start, Elements: elements, Loc: p.spanFrom(start)}
}

// parseExpressionList parses `a, b, c` up to end. The current token is the
// opening delimiter; on return it is end.
func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	p.expectPeek(end)
	return list
}

// parseParenOrLambda scans ahead to the matching ')' and decides by the
// following token: '->' or ':' starts a lambda, anything else a group.
func (p *Parser) parseParenOrLambda() ast.Expression {
	if p.isLambdaAhead() {
		return p.parseLambdaExpression()
	}
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	return expr
}

func (p *Parser) isLambdaAhead() bool {
	m := p.mark()
	defer p.reset(m)

	depth := 1
	for depth > 0 {
		p.nextToken()
		switch p.curToken.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		case token.EOF:
			return false
		}
	}
	return p.peekTokenIs(token.ARROW) || p.peekTokenIs(token.COLON)
}

func (p *Parser) parseLambdaExpression() ast.Expression {
	start := p.curToken
	lambda := &ast.LambdaExpression{Token: start}
	lambda.Params = p.parseParameters()
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		lambda.ReturnType = p.parseType()
	}
	p.expectPeek(token.ARROW)
	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		lambda.BodyBlock = p.parseBlockStatement()
	} else {
		p.nextToken()
		lambda.BodyExpr = p.parseExpression(LOWEST)
	}
	lambda.Loc = p.spanFrom(start)
	return lambda
}

// parseParameters parses `(name (: T)? (= default)?, ...)`. The current token
// is '('; on return it is ')'.
func (p *Parser) parseParameters() []*ast.Parameter {
	var params []*ast.Parameter
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	for {
		p.expectPeek(token.IDENT)
		params = append(params, p.parseParameter())
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.expectPeek(token.RPAREN)
	return params
}

func (p *Parser) parseParameter() *ast.Parameter {
	start := p.curToken
	param := &ast.Parameter{Token: start, Name: &ast.Identifier{Token: start, Value: start.Lexeme}}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		param.Type = p.parseType()
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		param.Default = p.parseExpression(LOWEST)
	}
	param.Loc = p.spanFrom(start)
	return param
}
