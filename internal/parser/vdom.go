package parser

import (
	"strings"

	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/token"
)

// parseVDomExpression parses `vdom <tag ...>...</tag>`.
func (p *Parser) parseVDomExpression() ast.Expression {
	start := p.curToken
	p.expectPeek(token.LT)
	el := p.parseVDomElement()
	el.Loc = p.spanFrom(start)
	return el
}

// parseVDomElement expects the current token to be '<' and stops on the
// closing '>' or '/>'.
func (p *Parser) parseVDomElement() *ast.VDomElement {
	start := p.curToken
	p.enter(start)
	defer p.leave()

	p.nextToken()
	if !isNameToken(p.curToken) {
		p.unexpected(p.curToken, "tag name")
	}
	el := &ast.VDomElement{Token: start, Tag: p.curToken.Lexeme}

	for isNameToken(p.peekToken) {
		p.nextToken()
		el.Attributes = append(el.Attributes, p.parseVDomAttribute())
	}

	if p.peekTokenIs(token.SLASH_GT) {
		p.nextToken()
		el.SelfClosing = true
		el.Loc = p.spanFrom(start)
		return el
	}
	p.expectPeek(token.GT)

	for {
		switch p.peekToken.Type {
		case token.EOF:
			p.unexpected(p.peekToken, "</"+el.Tag+">")
		case token.LT_SLASH:
			p.nextToken()
			p.nextToken()
			if p.curToken.Lexeme != el.Tag {
				p.fail(diagnostics.ErrP005, p.curToken, "closing tag </%s> does not match <%s>", p.curToken.Lexeme, el.Tag)
			}
			p.expectPeek(token.GT)
			el.Loc = p.spanFrom(start)
			return el
		case token.LT:
			p.nextToken()
			el.Children = append(el.Children, p.parseVDomElement())
		case token.LBRACE:
			p.nextToken()
			hole := &ast.VDomExpression{Token: p.curToken}
			p.nextToken()
			hole.Expr = p.parseExpression(LOWEST)
			p.expectPeek(token.RBRACE)
			hole.Loc = p.spanFrom(hole.Token)
			el.Children = append(el.Children, hole)
		default:
			el.Children = append(el.Children, p.parseVDomText())
		}
	}
}

func (p *Parser) parseVDomAttribute() *ast.VDomAttribute {
	attr := &ast.VDomAttribute{Token: p.curToken, Name: p.curToken.Lexeme}
	p.expectPeek(token.ASSIGN)
	switch p.peekToken.Type {
	case token.STRING:
		p.nextToken()
		attr.Value = p.parseStringLiteral()
	case token.LBRACE:
		p.nextToken()
		p.nextToken()
		attr.Value = p.parseExpression(LOWEST)
		p.expectPeek(token.RBRACE)
	default:
		p.unexpected(p.peekToken, "attribute value")
	}
	attr.Loc = p.spanFrom(attr.Token)
	return attr
}

// parseVDomText consumes raw tokens verbatim up to the next tag, hole or end
// of input. Tokens separated by whitespace in the source are joined with a
// single space.
func (p *Parser) parseVDomText() *ast.VDomText {
	p.nextToken()
	text := &ast.VDomText{Token: p.curToken}
	var b strings.Builder
	b.WriteString(p.curToken.Lexeme)
	for {
		switch p.peekToken.Type {
		case token.LT, token.LT_SLASH, token.LBRACE, token.EOF:
			text.Text = b.String()
			text.Loc = p.spanFrom(text.Token)
			return text
		}
		if p.peekToken.Start > p.curToken.End {
			b.WriteByte(' ')
		}
		p.nextToken()
		b.WriteString(p.curToken.Lexeme)
	}
}

// isNameToken accepts identifiers and keywords, so tags and attributes such
// as <input class="x"> parse.
func isNameToken(tok token.Token) bool {
	return tok.Type == token.IDENT || token.IsKeyword(tok.Type) || tok.Type == token.BOOLEAN
}
