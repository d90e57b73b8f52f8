package ast

import (
	"github.com/funvibe/clasp/internal/token"
)

// ClassDeclaration is a top-level class.
type ClassDeclaration struct {
	Token       token.Token // the 'class' token
	Annotations []*Annotation
	Open        bool
	Name        *Identifier
	TypeParams  []*Identifier
	Extends     TypeNode // optional
	Implements  []TypeNode
	Fields      []*FieldDeclaration
	Methods     []*MethodDeclaration
	Loc         token.Span
}

func (cd *ClassDeclaration) node()                 {}
func (cd *ClassDeclaration) statementNode()        {}
func (cd *ClassDeclaration) Span() token.Span      { return cd.Loc }
func (cd *ClassDeclaration) TokenLiteral() string  { return cd.Token.Lexeme }
func (cd *ClassDeclaration) GetToken() token.Token { return cd.Token }

// IsNative reports whether the class is backed by a host object.
func (cd *ClassDeclaration) IsNative() bool { return HasAnnotation(cd.Annotations, "native") }

// Constructor returns the class's own constructor, if declared.
func (cd *ClassDeclaration) Constructor() *MethodDeclaration {
	for _, m := range cd.Methods {
		if m.IsConstructor {
			return m
		}
	}
	return nil
}

// InterfaceDeclaration is a top-level interface. Interface methods may carry
// bodies; those are type-checked but never dispatched to.
type InterfaceDeclaration struct {
	Token       token.Token // the 'interface' token
	Annotations []*Annotation
	Name        *Identifier
	TypeParams  []*Identifier
	Extends     []TypeNode
	Fields      []*FieldDeclaration
	Methods     []*MethodDeclaration
	Loc         token.Span
}

func (id *InterfaceDeclaration) node()                 {}
func (id *InterfaceDeclaration) statementNode()        {}
func (id *InterfaceDeclaration) Span() token.Span      { return id.Loc }
func (id *InterfaceDeclaration) TokenLiteral() string  { return id.Token.Lexeme }
func (id *InterfaceDeclaration) GetToken() token.Token { return id.Token }

type FieldDeclaration struct {
	Token       token.Token // the name token
	Annotations []*Annotation
	Modifiers   Modifiers
	Name        *Identifier
	Type        TypeNode   // optional
	Init        Expression // optional
	Loc         token.Span
}

func (fd *FieldDeclaration) node()                 {}
func (fd *FieldDeclaration) Span() token.Span      { return fd.Loc }
func (fd *FieldDeclaration) TokenLiteral() string  { return fd.Token.Lexeme }
func (fd *FieldDeclaration) GetToken() token.Token { return fd.Token }

// MethodDeclaration is a method or, when IsConstructor, the class constructor.
// Body is nil for declarations ending in ';'.
type MethodDeclaration struct {
	Token         token.Token // the name token
	Annotations   []*Annotation
	Modifiers     Modifiers
	Name          *Identifier
	IsConstructor bool
	TypeParams    []*Identifier
	Params        []*Parameter
	ReturnType    TypeNode // optional
	Body          *BlockStatement
	Loc           token.Span
}

func (md *MethodDeclaration) node()                 {}
func (md *MethodDeclaration) Span() token.Span      { return md.Loc }
func (md *MethodDeclaration) TokenLiteral() string  { return md.Token.Lexeme }
func (md *MethodDeclaration) GetToken() token.Token { return md.Token }

// RequiredParams counts leading parameters without defaults.
func (md *MethodDeclaration) RequiredParams() int { return requiredParams(md.Params) }

type Parameter struct {
	Token   token.Token // the name token
	Name    *Identifier
	Type    TypeNode   // optional
	Default Expression // optional
	Loc     token.Span
}

func (p *Parameter) node()                 {}
func (p *Parameter) Span() token.Span      { return p.Loc }
func (p *Parameter) TokenLiteral() string  { return p.Token.Lexeme }
func (p *Parameter) GetToken() token.Token { return p.Token }

func requiredParams(params []*Parameter) int {
	n := 0
	for _, p := range params {
		if p.Default != nil {
			break
		}
		n++
	}
	return n
}

// RequiredParams counts leading lambda parameters without defaults.
func (le *LambdaExpression) RequiredParams() int { return requiredParams(le.Params) }
