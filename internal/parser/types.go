package parser

import (
	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/token"
)

// parseType parses a type annotation starting at the current token and
// leaves the current token on its last token.
//
//	type := ( '(' types? ')' '->' type | Name ('<' types '>')? ) '?'?
func (p *Parser) parseType() ast.TypeNode {
	start := p.curToken
	p.enter(start)
	defer p.leave()

	var t ast.TypeNode
	switch p.curToken.Type {
	case token.LPAREN:
		lt := &ast.LambdaTypeNode{Token: start}
		if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
		} else {
			lt.Params = p.parseTypeList()
			p.expectPeek(token.RPAREN)
		}
		p.expectPeek(token.ARROW)
		p.nextToken()
		lt.Return = p.parseType()
		lt.Loc = p.spanFrom(start)
		t = lt
	case token.IDENT:
		if p.peekTokenIs(token.LT) {
			p.nextToken()
			gt := &ast.GenericType{Token: start, Name: start.Lexeme}
			gt.Args = p.parseTypeList()
			p.expectPeek(token.GT)
			gt.Loc = p.spanFrom(start)
			t = gt
		} else {
			t = &ast.SimpleType{Token: start, Name: start.Lexeme, Loc: start.Span}
		}
	default:
		p.unexpected(p.curToken, "type")
	}

	if p.peekTokenIs(token.QUESTION) {
		p.nextToken()
		markNullable(t, p.spanFrom(start))
	}
	return t
}

func markNullable(t ast.TypeNode, span token.Span) {
	switch t := t.(type) {
	case *ast.SimpleType:
		t.Nullable, t.Loc = true, span
	case *ast.GenericType:
		t.Nullable, t.Loc = true, span
	case *ast.LambdaTypeNode:
		t.Nullable, t.Loc = true, span
	}
}
