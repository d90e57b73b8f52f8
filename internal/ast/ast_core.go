package ast

import (
	"strings"

	"github.com/funvibe/clasp/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes. The hierarchy is closed:
// only types in this package implement it.
type Node interface {
	TokenLiteral() string
	Span() token.Span
	node()
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	String() string
}

// Modifiers is the set of member/class modifiers.
type Modifiers uint8

const (
	ModPublic Modifiers = 1 << iota
	ModPrivate
	ModStatic
	ModReadonly
	ModOpen
)

func (m Modifiers) Has(flag Modifiers) bool { return m&flag != 0 }

func (m Modifiers) String() string {
	var parts []string
	for _, mod := range []struct {
		flag Modifiers
		name string
	}{{ModPublic, "public"}, {ModPrivate, "private"}, {ModStatic, "static"}, {ModReadonly, "readonly"}, {ModOpen, "open"}} {
		if m.Has(mod.flag) {
			parts = append(parts, mod.name)
		}
	}
	return strings.Join(parts, " ")
}

// Program is the root node of every AST our parser produces.
type Program struct {
	File       string // Source file path
	Statements []Statement
	Loc        token.Span

	// Origins maps top-level statements of a linked program to the file
	// they were parsed from.
	Origins map[Statement]string
}

// FileOf returns the source file of a top-level statement.
func (p *Program) FileOf(stmt Statement) string {
	if file, ok := p.Origins[stmt]; ok {
		return file
	}
	return p.File
}

func (p *Program) node()            {}
func (p *Program) Span() token.Span { return p.Loc }
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// Imports returns the import statements of the program in source order.
func (p *Program) Imports() []*ImportStatement {
	var out []*ImportStatement
	for _, stmt := range p.Statements {
		if is, ok := stmt.(*ImportStatement); ok {
			out = append(out, is)
		}
	}
	return out
}

// Annotation is an `@name` marker on a declaration.
type Annotation struct {
	Token token.Token
	Name  string
}

func (a *Annotation) node()                 {}
func (a *Annotation) Span() token.Span      { return a.Token.Span }
func (a *Annotation) TokenLiteral() string  { return a.Token.Lexeme }
func (a *Annotation) GetToken() token.Token { return a.Token }

// HasAnnotation reports whether name is among annotations.
func HasAnnotation(annotations []*Annotation, name string) bool {
	for _, a := range annotations {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Identifier represents an identifier, e.g., a variable name.
type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) node()                 {}
func (i *Identifier) expressionNode()       {}
func (i *Identifier) Span() token.Span      { return i.Token.Span }
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }
func (i *Identifier) String() string        { return i.Value }
