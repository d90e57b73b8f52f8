package token

import "fmt"

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"
	COMMENT TokenType = "COMMENT"

	// Identifiers + literals
	IDENT      TokenType = "IDENT"
	NUMBER     TokenType = "NUMBER"
	STRING     TokenType = "STRING"
	BOOLEAN    TokenType = "BOOLEAN"
	ANNOTATION TokenType = "ANNOTATION" // @name

	// Operators
	ASSIGN    TokenType = "="
	PLUS      TokenType = "+"
	MINUS     TokenType = "-"
	ASTERISK  TokenType = "*"
	SLASH     TokenType = "/"
	PERCENT   TokenType = "%"
	BANG      TokenType = "!"
	LT        TokenType = "<"
	GT        TokenType = ">"
	LTE       TokenType = "<="
	GTE       TokenType = ">="
	EQ        TokenType = "=="
	NOT_EQ    TokenType = "!="
	AND       TokenType = "&&"
	OR        TokenType = "||"
	ARROW     TokenType = "->"
	FAT_ARROW TokenType = "=>"
	QUESTION  TokenType = "?"

	// VDOM tag delimiters
	LT_SLASH TokenType = "</"
	SLASH_GT TokenType = "/>"

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	DOT       TokenType = "."
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"

	// Keywords
	IMPORT      TokenType = "IMPORT"
	FROM        TokenType = "FROM"
	LET         TokenType = "LET"
	OPEN        TokenType = "OPEN"
	CLASS       TokenType = "CLASS"
	INTERFACE   TokenType = "INTERFACE"
	EXTENDS     TokenType = "EXTENDS"
	IMPLEMENTS  TokenType = "IMPLEMENTS"
	CONSTRUCTOR TokenType = "CONSTRUCTOR"
	NEW         TokenType = "NEW"
	THIS        TokenType = "THIS"
	PUBLIC      TokenType = "PUBLIC"
	PRIVATE     TokenType = "PRIVATE"
	STATIC      TokenType = "STATIC"
	READONLY    TokenType = "READONLY"
	RETURN      TokenType = "RETURN"
	SUPER       TokenType = "SUPER"
	IF          TokenType = "IF"
	ELSE        TokenType = "ELSE"
	MATCH       TokenType = "MATCH"
	DEFAULT     TokenType = "DEFAULT"
	FOREACH     TokenType = "FOREACH"
	IN          TokenType = "IN"
	NULL        TokenType = "NULL"
	VDOM        TokenType = "VDOM"
)

var keywords = map[string]TokenType{
	"import":      IMPORT,
	"from":        FROM,
	"let":         LET,
	"open":        OPEN,
	"class":       CLASS,
	"interface":   INTERFACE,
	"extends":     EXTENDS,
	"implements":  IMPLEMENTS,
	"constructor": CONSTRUCTOR,
	"new":         NEW,
	"this":        THIS,
	"public":      PUBLIC,
	"private":     PRIVATE,
	"static":      STATIC,
	"readonly":    READONLY,
	"return":      RETURN,
	"super":       SUPER,
	"true":        BOOLEAN,
	"false":       BOOLEAN,
	"if":          IF,
	"else":        ELSE,
	"match":       MATCH,
	"default":     DEFAULT,
	"foreach":     FOREACH,
	"in":          IN,
	"null":        NULL,
	"vdom":        VDOM,
}

// LookupIdent reclassifies an identifier against the keyword table.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether the token type is one of the reserved words.
func IsKeyword(t TokenType) bool {
	for _, kw := range keywords {
		if kw == t && t != BOOLEAN {
			return true
		}
	}
	return false
}

// Span is a byte range [Start, End) of the source plus the 1-based
// line/column of Start.
type Span struct {
	Start  int
	End    int
	Line   int
	Column int
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero reports whether the span was never set.
func (s Span) IsZero() bool {
	return s.Line == 0 && s.Start == 0 && s.End == 0
}

// Cover returns the smallest span containing both s and other.
// Line/column are taken from whichever span starts first.
func (s Span) Cover(other Span) Span {
	if s.IsZero() {
		return other
	}
	if other.IsZero() {
		return s
	}
	out := s
	if other.Start < s.Start {
		out.Start, out.Line, out.Column = other.Start, other.Line, other.Column
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

type Token struct {
	Type    TokenType
	Lexeme  string // exact source text of the token
	Literal any    // string for identifiers/strings/annotations, int64 for numbers
	Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %s", t.Type, t.Lexeme, t.Span)
}
