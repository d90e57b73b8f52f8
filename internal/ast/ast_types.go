package ast

import (
	"strings"

	"github.com/funvibe/clasp/internal/token"
)

// --- Type annotation nodes ---

// TypeNode is a type annotation as written in source.
type TypeNode interface {
	Node
	typeNode()
	IsNullable() bool
	String() string
}

// SimpleType is a bare name: number, Foo, T.
type SimpleType struct {
	Token    token.Token // the name token
	Name     string
	Nullable bool
	Loc      token.Span
}

func (st *SimpleType) node()                 {}
func (st *SimpleType) typeNode()             {}
func (st *SimpleType) Span() token.Span      { return st.Loc }
func (st *SimpleType) TokenLiteral() string  { return st.Token.Lexeme }
func (st *SimpleType) GetToken() token.Token { return st.Token }
func (st *SimpleType) IsNullable() bool      { return st.Nullable }
func (st *SimpleType) String() string        { return st.Name + nullableSuffix(st.Nullable) }

// GenericType is a name applied to type arguments: Array<number>.
type GenericType struct {
	Token    token.Token // the name token
	Name     string
	Args     []TypeNode
	Nullable bool
	Loc      token.Span
}

func (gt *GenericType) node()                 {}
func (gt *GenericType) typeNode()             {}
func (gt *GenericType) Span() token.Span      { return gt.Loc }
func (gt *GenericType) TokenLiteral() string  { return gt.Token.Lexeme }
func (gt *GenericType) GetToken() token.Token { return gt.Token }
func (gt *GenericType) IsNullable() bool      { return gt.Nullable }
func (gt *GenericType) String() string {
	return gt.Name + "<" + joinTypes(gt.Args) + ">" + nullableSuffix(gt.Nullable)
}

// LambdaTypeNode is a function type: (number, string) -> boolean.
type LambdaTypeNode struct {
	Token    token.Token // the '(' token
	Params   []TypeNode
	Return   TypeNode
	Nullable bool
	Loc      token.Span
}

func (lt *LambdaTypeNode) node()                 {}
func (lt *LambdaTypeNode) typeNode()             {}
func (lt *LambdaTypeNode) Span() token.Span      { return lt.Loc }
func (lt *LambdaTypeNode) TokenLiteral() string  { return lt.Token.Lexeme }
func (lt *LambdaTypeNode) GetToken() token.Token { return lt.Token }
func (lt *LambdaTypeNode) IsNullable() bool      { return lt.Nullable }
func (lt *LambdaTypeNode) String() string {
	s := "(" + joinTypes(lt.Params) + ") -> " + lt.Return.String()
	if lt.Nullable {
		return "(" + s + ")?"
	}
	return s
}

// TypeName returns the head name of a simple or generic annotation.
func TypeName(t TypeNode) (string, bool) {
	switch t := t.(type) {
	case *SimpleType:
		return t.Name, true
	case *GenericType:
		return t.Name, true
	}
	return "", false
}

func nullableSuffix(nullable bool) string {
	if nullable {
		return "?"
	}
	return ""
}

func joinTypes(types []TypeNode) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
