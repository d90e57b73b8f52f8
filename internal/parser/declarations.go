package parser

import (
	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/token"
)

func (p *Parser) parseAnnotations() []*ast.Annotation {
	var annotations []*ast.Annotation
	for p.curTokenIs(token.ANNOTATION) {
		name, _ := p.curToken.Literal.(string)
		annotations = append(annotations, &ast.Annotation{Token: p.curToken, Name: name})
		p.nextToken()
	}
	return annotations
}

// parseTypeDeclaration handles annotated/open classes and interfaces.
func (p *Parser) parseTypeDeclaration() ast.Statement {
	start := p.curToken
	annotations := p.parseAnnotations()
	switch p.curToken.Type {
	case token.OPEN:
		p.expectPeek(token.CLASS)
		cd := p.parseClassDeclaration(start, annotations)
		cd.Open = true
		return cd
	case token.CLASS:
		return p.parseClassDeclaration(start, annotations)
	case token.INTERFACE:
		return p.parseInterfaceDeclaration(start, annotations)
	}
	p.unexpected(p.curToken, "class or interface after annotation")
	return nil
}

func (p *Parser) parseClassDeclaration(start token.Token, annotations []*ast.Annotation) *ast.ClassDeclaration {
	cd := &ast.ClassDeclaration{Token: p.curToken, Annotations: annotations}
	p.expectPeek(token.IDENT)
	cd.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	cd.TypeParams = p.parseTypeParams()

	if p.peekTokenIs(token.EXTENDS) {
		p.nextToken()
		p.nextToken()
		cd.Extends = p.parseType()
	}
	if p.peekTokenIs(token.IMPLEMENTS) {
		p.nextToken()
		cd.Implements = p.parseTypeList()
	}

	p.expectPeek(token.LBRACE)
	cd.Fields, cd.Methods = p.parseMembers(cd.Name.Value)
	cd.Loc = p.spanFrom(start)
	return cd
}

func (p *Parser) parseInterfaceDeclaration(start token.Token, annotations []*ast.Annotation) *ast.InterfaceDeclaration {
	id := &ast.InterfaceDeclaration{Token: p.curToken, Annotations: annotations}
	p.expectPeek(token.IDENT)
	id.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	id.TypeParams = p.parseTypeParams()

	if p.peekTokenIs(token.EXTENDS) {
		p.nextToken()
		id.Extends = p.parseTypeList()
	}

	p.expectPeek(token.LBRACE)
	id.Fields, id.Methods = p.parseMembers(id.Name.Value)
	for _, m := range id.Methods {
		if m.IsConstructor {
			p.fail(diagnostics.ErrP001, m.Token, "interface %s cannot declare a constructor", id.Name.Value)
		}
	}
	id.Loc = p.spanFrom(start)
	return id
}

// parseTypeParams parses an optional `<T, U>` after a declaration name.
func (p *Parser) parseTypeParams() []*ast.Identifier {
	if !p.peekTokenIs(token.LT) {
		return nil
	}
	p.nextToken()
	var params []*ast.Identifier
	for {
		p.expectPeek(token.IDENT)
		params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme})
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.expectPeek(token.GT)
	return params
}

// parseTypeList parses `T, U, ...`; the current token precedes the first type.
func (p *Parser) parseTypeList() []ast.TypeNode {
	var types []ast.TypeNode
	for {
		p.nextToken()
		types = append(types, p.parseType())
		if !p.peekTokenIs(token.COMMA) {
			return types
		}
		p.nextToken()
	}
}

// parseMembers parses a class or interface body. The current token is '{';
// on return it is '}'.
func (p *Parser) parseMembers(owner string) ([]*ast.FieldDeclaration, []*ast.MethodDeclaration) {
	var fields []*ast.FieldDeclaration
	var methods []*ast.MethodDeclaration
	seen := make(map[string]bool)

	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		if p.curTokenIs(token.EOF) {
			p.unexpected(p.curToken, "}")
		}
		field, method := p.parseMember()
		var name token.Token
		if field != nil {
			name = field.Token
			fields = append(fields, field)
		} else {
			name = method.Token
			methods = append(methods, method)
		}
		if seen[name.Lexeme] {
			p.fail(diagnostics.ErrP001, name, "duplicate member %s in %s", name.Lexeme, owner)
		}
		seen[name.Lexeme] = true
	}
	p.nextToken()
	return fields, methods
}

func (p *Parser) parseMember() (*ast.FieldDeclaration, *ast.MethodDeclaration) {
	start := p.curToken
	annotations := p.parseAnnotations()
	mods := p.parseModifiers()

	if !p.curTokenIs(token.IDENT) && !p.curTokenIs(token.CONSTRUCTOR) {
		p.unexpected(p.curToken, "member name")
	}
	nameTok := p.curToken
	name := &ast.Identifier{Token: nameTok, Value: nameTok.Lexeme}

	if p.peekTokenIs(token.LPAREN) || p.peekTokenIs(token.LT) {
		if !mods.Has(ast.ModPublic) && !mods.Has(ast.ModPrivate) {
			mods |= ast.ModPublic
		}
		md := &ast.MethodDeclaration{
			Token:         nameTok,
			Annotations:   annotations,
			Modifiers:     mods,
			Name:          name,
			IsConstructor: nameTok.Type == token.CONSTRUCTOR,
		}
		md.TypeParams = p.parseTypeParams()
		p.expectPeek(token.LPAREN)
		md.Params = p.parseParameters()
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			md.ReturnType = p.parseType()
		}
		if p.peekTokenIs(token.LBRACE) {
			p.nextToken()
			md.Body = p.parseBlockStatement()
		} else {
			p.expectPeek(token.SEMICOLON)
		}
		md.Loc = p.spanFrom(start)
		return nil, md
	}

	if nameTok.Type == token.CONSTRUCTOR {
		p.unexpected(p.peekToken, "( after constructor")
	}
	if !mods.Has(ast.ModPublic) && !mods.Has(ast.ModPrivate) {
		mods |= ast.ModPrivate
	}
	fd := &ast.FieldDeclaration{Token: nameTok, Annotations: annotations, Modifiers: mods, Name: name}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		fd.Type = p.parseType()
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		fd.Init = p.parseExpression(LOWEST)
	}
	p.expectPeek(token.SEMICOLON)
	fd.Loc = p.spanFrom(start)
	return fd, nil
}

func (p *Parser) parseModifiers() ast.Modifiers {
	var mods ast.Modifiers
	for {
		var flag ast.Modifiers
		switch p.curToken.Type {
		case token.PUBLIC:
			flag = ast.ModPublic
		case token.PRIVATE:
			flag = ast.ModPrivate
		case token.STATIC:
			flag = ast.ModStatic
		case token.READONLY:
			flag = ast.ModReadonly
		case token.OPEN:
			flag = ast.ModOpen
		default:
			if mods.Has(ast.ModPublic) && mods.Has(ast.ModPrivate) {
				p.fail(diagnostics.ErrP001, p.curToken, "member cannot be both public and private")
			}
			return mods
		}
		if mods.Has(flag) {
			p.fail(diagnostics.ErrP001, p.curToken, "duplicate modifier %s", p.curToken.Lexeme)
		}
		mods |= flag
		p.nextToken()
	}
}
