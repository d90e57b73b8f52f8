package ast

import (
	"github.com/funvibe/clasp/internal/token"
)

// ImportStatement is `import { A, B } from "path";` or `import "path";`.
type ImportStatement struct {
	Token token.Token // the 'import' token
	Names []*Identifier
	Path  *StringLiteral
	Loc   token.Span
}

func (is *ImportStatement) node()                 {}
func (is *ImportStatement) statementNode()        {}
func (is *ImportStatement) Span() token.Span      { return is.Loc }
func (is *ImportStatement) TokenLiteral() string  { return is.Token.Lexeme }
func (is *ImportStatement) GetToken() token.Token { return is.Token }

type LetStatement struct {
	Token token.Token // the 'let' token
	Name  *Identifier
	Type  TypeNode   // optional
	Value Expression // optional
	Loc   token.Span
}

func (ls *LetStatement) node()                 {}
func (ls *LetStatement) statementNode()        {}
func (ls *LetStatement) Span() token.Span      { return ls.Loc }
func (ls *LetStatement) TokenLiteral() string  { return ls.Token.Lexeme }
func (ls *LetStatement) GetToken() token.Token { return ls.Token }

type BlockStatement struct {
	Token      token.Token // the '{' token
	Statements []Statement
	Loc        token.Span
}

func (bs *BlockStatement) node()                 {}
func (bs *BlockStatement) statementNode()        {}
func (bs *BlockStatement) Span() token.Span      { return bs.Loc }
func (bs *BlockStatement) TokenLiteral() string  { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token { return bs.Token }

// IfStatement: Else is nil, a *BlockStatement or a nested *IfStatement.
type IfStatement struct {
	Token     token.Token // the 'if' token
	Condition Expression
	Then      *BlockStatement
	Else      Statement
	Loc       token.Span
}

func (is *IfStatement) node()                 {}
func (is *IfStatement) statementNode()        {}
func (is *IfStatement) Span() token.Span      { return is.Loc }
func (is *IfStatement) TokenLiteral() string  { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token { return is.Token }

type MatchStatement struct {
	Token   token.Token // the 'match' token
	Subject Expression
	Cases   []*MatchCase
	Default *BlockStatement // optional
	Loc     token.Span
}

func (ms *MatchStatement) node()                 {}
func (ms *MatchStatement) statementNode()        {}
func (ms *MatchStatement) Span() token.Span      { return ms.Loc }
func (ms *MatchStatement) TokenLiteral() string  { return ms.Token.Lexeme }
func (ms *MatchStatement) GetToken() token.Token { return ms.Token }

type MatchCase struct {
	Token token.Token // first token of the case value
	Value Expression
	Body  *BlockStatement
	Loc   token.Span
}

func (mc *MatchCase) node()                 {}
func (mc *MatchCase) Span() token.Span      { return mc.Loc }
func (mc *MatchCase) TokenLiteral() string  { return mc.Token.Lexeme }
func (mc *MatchCase) GetToken() token.Token { return mc.Token }

type ForeachStatement struct {
	Token    token.Token // the 'foreach' token
	Variable *Identifier
	Iterable Expression
	Body     *BlockStatement
	Loc      token.Span
}

func (fs *ForeachStatement) node()                 {}
func (fs *ForeachStatement) statementNode()        {}
func (fs *ForeachStatement) Span() token.Span      { return fs.Loc }
func (fs *ForeachStatement) TokenLiteral() string  { return fs.Token.Lexeme }
func (fs *ForeachStatement) GetToken() token.Token { return fs.Token }

type ReturnStatement struct {
	Token token.Token // the 'return' token
	Value Expression  // optional
	Loc   token.Span
}

func (rs *ReturnStatement) node()                 {}
func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) Span() token.Span      { return rs.Loc }
func (rs *ReturnStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token { return rs.Token }

type ExpressionStatement struct {
	Token      token.Token // first token of the expression
	Expression Expression
	Loc        token.Span
}

func (es *ExpressionStatement) node()                 {}
func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) Span() token.Span      { return es.Loc }
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }
