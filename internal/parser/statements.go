package parser

import (
	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/token"
)

// parseStatement dispatches on the current token. Every statement parser
// leaves the current token on the statement's last token.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.IMPORT:
		return p.parseImportStatement()
	case token.ANNOTATION, token.OPEN, token.CLASS, token.INTERFACE:
		return p.parseTypeDeclaration()
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.MATCH:
		return p.parseMatchStatement()
	case token.FOREACH:
		return p.parseForeachStatement()
	case token.LBRACE:
		return p.parseBlockStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseImportStatement() *ast.ImportStatement {
	stmt := &ast.ImportStatement{Token: p.curToken}
	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		for {
			p.expectPeek(token.IDENT)
			stmt.Names = append(stmt.Names, &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme})
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		p.expectPeek(token.RBRACE)
		p.expectPeek(token.FROM)
	}
	p.expectPeek(token.STRING)
	stmt.Path = p.parseStringLiteral().(*ast.StringLiteral)
	p.expectPeek(token.SEMICOLON)
	stmt.Loc = p.spanFrom(stmt.Token)
	return stmt
}

func (p *Parser) parseLetStatement() *ast.LetStatement {
	stmt := &ast.LetStatement{Token: p.curToken}
	p.expectPeek(token.IDENT)
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		stmt.Type = p.parseType()
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
	}
	p.expectPeek(token.SEMICOLON)
	stmt.Loc = p.spanFrom(stmt.Token)
	return stmt
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
	}
	p.expectPeek(token.SEMICOLON)
	stmt.Loc = p.spanFrom(stmt.Token)
	return stmt
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken}
	p.expectPeek(token.LPAREN)
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	p.expectPeek(token.LBRACE)
	stmt.Then = p.parseBlockStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		switch {
		case p.peekTokenIs(token.IF):
			p.nextToken()
			stmt.Else = p.parseIfStatement()
		default:
			p.expectPeek(token.LBRACE)
			stmt.Else = p.parseBlockStatement()
		}
	}
	stmt.Loc = p.spanFrom(stmt.Token)
	return stmt
}

func (p *Parser) parseMatchStatement() *ast.MatchStatement {
	stmt := &ast.MatchStatement{Token: p.curToken}
	p.expectPeek(token.LPAREN)
	p.nextToken()
	stmt.Subject = p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	p.expectPeek(token.LBRACE)

	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		if p.curTokenIs(token.EOF) {
			p.unexpected(p.curToken, "}")
		}
		if p.curTokenIs(token.DEFAULT) {
			if stmt.Default != nil {
				p.fail(diagnostics.ErrP001, p.curToken, "duplicate default case")
			}
			p.expectPeek(token.FAT_ARROW)
			p.expectPeek(token.LBRACE)
			stmt.Default = p.parseBlockStatement()
			continue
		}
		c := &ast.MatchCase{Token: p.curToken}
		c.Value = p.parseExpression(LOWEST)
		p.expectPeek(token.FAT_ARROW)
		p.expectPeek(token.LBRACE)
		c.Body = p.parseBlockStatement()
		c.Loc = p.spanFrom(c.Token)
		stmt.Cases = append(stmt.Cases, c)
	}
	p.nextToken()
	stmt.Loc = p.spanFrom(stmt.Token)
	return stmt
}

func (p *Parser) parseForeachStatement() *ast.ForeachStatement {
	stmt := &ast.ForeachStatement{Token: p.curToken}
	p.expectPeek(token.LPAREN)
	p.expectPeek(token.IDENT)
	stmt.Variable = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	p.expectPeek(token.IN)
	p.nextToken()
	stmt.Iterable = p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	p.expectPeek(token.LBRACE)
	stmt.Body = p.parseBlockStatement()
	stmt.Loc = p.spanFrom(stmt.Token)
	return stmt
}

// parseBlockStatement expects the current token to be '{' and stops on '}'.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.unexpected(p.curToken, "}")
		}
		block.Statements = append(block.Statements, p.parseStatement())
		p.nextToken()
	}
	block.Loc = p.spanFrom(block.Token)
	return block
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	p.expectPeek(token.SEMICOLON)
	stmt.Loc = p.spanFrom(stmt.Token)
	return stmt
}
