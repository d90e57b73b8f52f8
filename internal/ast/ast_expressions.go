package ast

import (
	"strconv"
	"strings"

	"github.com/funvibe/clasp/internal/token"
)

// NumberLiteral represents an integer literal. Values are carried as float64,
// the interpreter's only number representation.
type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) node()                 {}
func (nl *NumberLiteral) expressionNode()       {}
func (nl *NumberLiteral) Span() token.Span      { return nl.Token.Span }
func (nl *NumberLiteral) TokenLiteral() string  { return nl.Token.Lexeme }
func (nl *NumberLiteral) GetToken() token.Token { return nl.Token }
func (nl *NumberLiteral) String() string        { return nl.Token.Lexeme }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) node()                 {}
func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) Span() token.Span      { return sl.Token.Span }
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }
func (sl *StringLiteral) String() string        { return strconv.Quote(sl.Value) }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) node()                 {}
func (b *BooleanLiteral) expressionNode()       {}
func (b *BooleanLiteral) Span() token.Span      { return b.Token.Span }
func (b *BooleanLiteral) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BooleanLiteral) GetToken() token.Token { return b.Token }
func (b *BooleanLiteral) String() string        { return b.Token.Lexeme }

type NullLiteral struct {
	Token token.Token
}

func (n *NullLiteral) node()                 {}
func (n *NullLiteral) expressionNode()       {}
func (n *NullLiteral) Span() token.Span      { return n.Token.Span }
func (n *NullLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *NullLiteral) GetToken() token.Token { return n.Token }
func (n *NullLiteral) String() string        { return "null" }

type ThisExpression struct {
	Token token.Token
}

func (te *ThisExpression) node()                 {}
func (te *ThisExpression) expressionNode()       {}
func (te *ThisExpression) Span() token.Span      { return te.Token.Span }
func (te *ThisExpression) TokenLiteral() string  { return te.Token.Lexeme }
func (te *ThisExpression) GetToken() token.Token { return te.Token }
func (te *ThisExpression) String() string        { return "this" }

// SuperExpression is `super`, valid as a callee (`super(...)`) or a member
// receiver (`super.m()`).
type SuperExpression struct {
	Token token.Token
}

func (se *SuperExpression) node()                 {}
func (se *SuperExpression) expressionNode()       {}
func (se *SuperExpression) Span() token.Span      { return se.Token.Span }
func (se *SuperExpression) TokenLiteral() string  { return se.Token.Lexeme }
func (se *SuperExpression) GetToken() token.Token { return se.Token }
func (se *SuperExpression) String() string        { return "super" }

type BinaryExpression struct {
	Token    token.Token // the operator token
	Operator string
	Left     Expression
	Right    Expression
	Loc      token.Span
}

func (be *BinaryExpression) node()                 {}
func (be *BinaryExpression) expressionNode()       {}
func (be *BinaryExpression) Span() token.Span      { return be.Loc }
func (be *BinaryExpression) TokenLiteral() string  { return be.Token.Lexeme }
func (be *BinaryExpression) GetToken() token.Token { return be.Token }
func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + be.Operator + " " + be.Right.String() + ")"
}

type UnaryExpression struct {
	Token    token.Token // the operator token
	Operator string
	Operand  Expression
	Loc      token.Span
}

func (ue *UnaryExpression) node()                 {}
func (ue *UnaryExpression) expressionNode()       {}
func (ue *UnaryExpression) Span() token.Span      { return ue.Loc }
func (ue *UnaryExpression) TokenLiteral() string  { return ue.Token.Lexeme }
func (ue *UnaryExpression) GetToken() token.Token { return ue.Token }
func (ue *UnaryExpression) String() string        { return "(" + ue.Operator + ue.Operand.String() + ")" }

// AssignmentExpression is `target = value`. Target is an Identifier,
// MemberExpression or IndexExpression.
type AssignmentExpression struct {
	Token  token.Token // the '=' token
	Target Expression
	Value  Expression
	Loc    token.Span
}

func (ae *AssignmentExpression) node()                 {}
func (ae *AssignmentExpression) expressionNode()       {}
func (ae *AssignmentExpression) Span() token.Span      { return ae.Loc }
func (ae *AssignmentExpression) TokenLiteral() string  { return ae.Token.Lexeme }
func (ae *AssignmentExpression) GetToken() token.Token { return ae.Token }
func (ae *AssignmentExpression) String() string {
	return "(" + ae.Target.String() + " = " + ae.Value.String() + ")"
}

type MemberExpression struct {
	Token    token.Token // the '.' token
	Object   Expression
	Property *Identifier
	Loc      token.Span
}

func (me *MemberExpression) node()                 {}
func (me *MemberExpression) expressionNode()       {}
func (me *MemberExpression) Span() token.Span      { return me.Loc }
func (me *MemberExpression) TokenLiteral() string  { return me.Token.Lexeme }
func (me *MemberExpression) GetToken() token.Token { return me.Token }
func (me *MemberExpression) String() string        { return me.Object.String() + "." + me.Property.Value }

type IndexExpression struct {
	Token  token.Token // the '[' token
	Object Expression
	Index  Expression
	Loc    token.Span
}

func (ie *IndexExpression) node()                 {}
func (ie *IndexExpression) expressionNode()       {}
func (ie *IndexExpression) Span() token.Span      { return ie.Loc }
func (ie *IndexExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token { return ie.Token }
func (ie *IndexExpression) String() string {
	return ie.Object.String() + "[" + ie.Index.String() + "]"
}

type CallExpression struct {
	Token    token.Token // the '(' token
	Callee   Expression
	Args     []Expression
	Loc      token.Span
}

func (ce *CallExpression) node()                 {}
func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) Span() token.Span      { return ce.Loc }
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }
func (ce *CallExpression) String() string {
	return ce.Callee.String() + "(" + joinExpressions(ce.Args) + ")"
}

// NewExpression is `new Type(args)`; Type carries any explicit type arguments.
type NewExpression struct {
	Token token.Token // the 'new' token
	Type  TypeNode
	Args  []Expression
	Loc   token.Span
}

func (ne *NewExpression) node()                 {}
func (ne *NewExpression) expressionNode()       {}
func (ne *NewExpression) Span() token.Span      { return ne.Loc }
func (ne *NewExpression) TokenLiteral() string  { return ne.Token.Lexeme }
func (ne *NewExpression) GetToken() token.Token { return ne.Token }
func (ne *NewExpression) String() string {
	return "new " + ne.Type.String() + "(" + joinExpressions(ne.Args) + ")"
}

type ArrayLiteral struct {
	Token    token.Token // the '[' token
	Elements []Expression
	Loc      token.Span
}

func (al *ArrayLiteral) node()                 {}
func (al *ArrayLiteral) expressionNode()       {}
func (al *ArrayLiteral) Span() token.Span      { return al.Loc }
func (al *ArrayLiteral) TokenLiteral() string  { return al.Token.Lexeme }
func (al *ArrayLiteral) GetToken() token.Token { return al.Token }
func (al *ArrayLiteral) String() string        { return "[" + joinExpressions(al.Elements) + "]" }

// LambdaExpression is `(params) (: T)? -> body`. Exactly one of BodyBlock and
// BodyExpr is set.
type LambdaExpression struct {
	Token      token.Token // the '(' token
	Params     []*Parameter
	ReturnType TypeNode
	BodyBlock  *BlockStatement
	BodyExpr   Expression
	Loc        token.Span
}

func (le *LambdaExpression) node()                 {}
func (le *LambdaExpression) expressionNode()       {}
func (le *LambdaExpression) Span() token.Span      { return le.Loc }
func (le *LambdaExpression) TokenLiteral() string  { return le.Token.Lexeme }
func (le *LambdaExpression) GetToken() token.Token { return le.Token }
func (le *LambdaExpression) String() string {
	names := make([]string, len(le.Params))
	for i, p := range le.Params {
		names[i] = p.Name.Value
	}
	body := "{...}"
	if le.BodyExpr != nil {
		body = le.BodyExpr.String()
	}
	return "(" + strings.Join(names, ", ") + ") -> " + body
}

// --- VDOM ---

// VDomNode is a child of a VDomElement.
type VDomNode interface {
	Node
	vdomNode()
}

// VDomElement is `<tag attrs>children</tag>` or `<tag attrs/>`. Only the
// outermost element is introduced by the `vdom` keyword.
type VDomElement struct {
	Token       token.Token // the '<' token (or 'vdom' for the root)
	Tag         string
	Attributes  []*VDomAttribute
	Children    []VDomNode
	SelfClosing bool
	Loc         token.Span
}

func (ve *VDomElement) node()                 {}
func (ve *VDomElement) expressionNode()       {}
func (ve *VDomElement) vdomNode()             {}
func (ve *VDomElement) Span() token.Span      { return ve.Loc }
func (ve *VDomElement) TokenLiteral() string  { return ve.Token.Lexeme }
func (ve *VDomElement) GetToken() token.Token { return ve.Token }
func (ve *VDomElement) String() string {
	var b strings.Builder
	b.WriteString("<" + ve.Tag)
	for _, a := range ve.Attributes {
		b.WriteString(" " + a.Name + "=" + a.Value.String())
	}
	if ve.SelfClosing {
		b.WriteString("/>")
		return b.String()
	}
	b.WriteString(">")
	for _, c := range ve.Children {
		switch c := c.(type) {
		case *VDomElement:
			b.WriteString(c.String())
		case *VDomText:
			b.WriteString(c.Text)
		case *VDomExpression:
			b.WriteString("{" + c.Expr.String() + "}")
		}
	}
	b.WriteString("</" + ve.Tag + ">")
	return b.String()
}

// VDomAttribute is `name="text"` or `name={expr}`.
type VDomAttribute struct {
	Token token.Token // the name token
	Name  string
	Value Expression
	Loc   token.Span
}

func (va *VDomAttribute) node()                 {}
func (va *VDomAttribute) Span() token.Span      { return va.Loc }
func (va *VDomAttribute) TokenLiteral() string  { return va.Token.Lexeme }
func (va *VDomAttribute) GetToken() token.Token { return va.Token }

// VDomText is a run of raw tokens inside an element, joined as text.
type VDomText struct {
	Token token.Token // first token of the run
	Text  string
	Loc   token.Span
}

func (vt *VDomText) node()                 {}
func (vt *VDomText) vdomNode()             {}
func (vt *VDomText) Span() token.Span      { return vt.Loc }
func (vt *VDomText) TokenLiteral() string  { return vt.Token.Lexeme }
func (vt *VDomText) GetToken() token.Token { return vt.Token }

// VDomExpression is an `{expr}` hole among element children.
type VDomExpression struct {
	Token token.Token // the '{' token
	Expr  Expression
	Loc   token.Span
}

func (vx *VDomExpression) node()                 {}
func (vx *VDomExpression) vdomNode()             {}
func (vx *VDomExpression) Span() token.Span      { return vx.Loc }
func (vx *VDomExpression) TokenLiteral() string  { return vx.Token.Lexeme }
func (vx *VDomExpression) GetToken() token.Token { return vx.Token }

func joinExpressions(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
