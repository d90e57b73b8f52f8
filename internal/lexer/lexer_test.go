package lexer

import (
	"testing"

	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `class Box<T> extends Base {
	private value: T? = null;
	public get(): T { return this.value; } // trailing comment
}
let x = 10 <= 20 && a != b || !c;
let f = (n: number) -> n * 2 % 3 / 4 - 5 + 6;
@native
vdom <div></div><br/>
match (x) { 1 => { } default => { } }
`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.CLASS, "class"},
		{token.IDENT, "Box"},
		{token.LT, "<"},
		{token.IDENT, "T"},
		{token.GT, ">"},
		{token.EXTENDS, "extends"},
		{token.IDENT, "Base"},
		{token.LBRACE, "{"},
		{token.PRIVATE, "private"},
		{token.IDENT, "value"},
		{token.COLON, ":"},
		{token.IDENT, "T"},
		{token.QUESTION, "?"},
		{token.ASSIGN, "="},
		{token.NULL, "null"},
		{token.SEMICOLON, ";"},
		{token.PUBLIC, "public"},
		{token.IDENT, "get"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.COLON, ":"},
		{token.IDENT, "T"},
		{token.LBRACE, "{"},
		{token.RETURN, "return"},
		{token.THIS, "this"},
		{token.DOT, "."},
		{token.IDENT, "value"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.COMMENT, "// trailing comment"},
		{token.RBRACE, "}"},
		{token.LET, "let"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.NUMBER, "10"},
		{token.LTE, "<="},
		{token.NUMBER, "20"},
		{token.AND, "&&"},
		{token.IDENT, "a"},
		{token.NOT_EQ, "!="},
		{token.IDENT, "b"},
		{token.OR, "||"},
		{token.BANG, "!"},
		{token.IDENT, "c"},
		{token.SEMICOLON, ";"},
		{token.LET, "let"},
		{token.IDENT, "f"},
		{token.ASSIGN, "="},
		{token.LPAREN, "("},
		{token.IDENT, "n"},
		{token.COLON, ":"},
		{token.IDENT, "number"},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.IDENT, "n"},
		{token.ASTERISK, "*"},
		{token.NUMBER, "2"},
		{token.PERCENT, "%"},
		{token.NUMBER, "3"},
		{token.SLASH, "/"},
		{token.NUMBER, "4"},
		{token.MINUS, "-"},
		{token.NUMBER, "5"},
		{token.PLUS, "+"},
		{token.NUMBER, "6"},
		{token.SEMICOLON, ";"},
		{token.ANNOTATION, "@native"},
		{token.VDOM, "vdom"},
		{token.LT, "<"},
		{token.IDENT, "div"},
		{token.GT, ">"},
		{token.LT_SLASH, "</"},
		{token.IDENT, "div"},
		{token.GT, ">"},
		{token.LT, "<"},
		{token.IDENT, "br"},
		{token.SLASH_GT, "/>"},
		{token.MATCH, "match"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.NUMBER, "1"},
		{token.FAT_ARROW, "=>"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.DEFAULT, "default"},
		{token.FAT_ARROW, "=>"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != len(tests) {
		t.Fatalf("expected %d tokens, got %d", len(tests), len(tokens))
	}
	for i, tt := range tests {
		tok := tokens[i]
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestSpansAreByteAccurate(t *testing.T) {
	input := "let s = \"héllo\";\n  x = 42;"
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tok := range tokens {
		if got := input[tok.Start:tok.End]; got != tok.Lexeme {
			t.Errorf("span [%d,%d) = %q, lexeme %q", tok.Start, tok.End, got, tok.Lexeme)
		}
	}
	x := tokens[5]
	if x.Lexeme != "x" || x.Line != 2 || x.Column != 3 {
		t.Errorf("expected x at 2:3, got %q at %d:%d", x.Lexeme, x.Line, x.Column)
	}
	if tokens[3].Literal != "héllo" {
		t.Errorf("string literal should exclude quotes, got %q", tokens[3].Literal)
	}
	if tokens[7].Literal != int64(42) {
		t.Errorf("expected int64 literal 42, got %#v", tokens[7].Literal)
	}
}

func TestKeywordsAndBooleans(t *testing.T) {
	tokens, err := Tokenize("true false from open interface implements static readonly super foreach in if else")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.TokenType{
		token.BOOLEAN, token.BOOLEAN, token.FROM, token.OPEN, token.INTERFACE, token.IMPLEMENTS,
		token.STATIC, token.READONLY, token.SUPER, token.FOREACH, token.IN, token.IF, token.ELSE, token.EOF,
	}
	for i, w := range want {
		if tokens[i].Type != w {
			t.Errorf("token %d: expected %s, got %s", i, w, tokens[i].Type)
		}
	}
}

func TestUnterminatedStringRunsToEOF(t *testing.T) {
	input := `let s = "never closed`
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unterminated string should not fail at lex time: %v", err)
	}
	str := tokens[3]
	if str.Type != token.STRING || str.Literal != "never closed" {
		t.Fatalf("unexpected token %v", str)
	}
	if str.End != len(input) {
		t.Errorf("string should extend to end of input, ends at %d", str.End)
	}
	if tokens[4].Type != token.EOF {
		t.Errorf("expected EOF after string, got %s", tokens[4].Type)
	}
}

func TestTokenErrors(t *testing.T) {
	tests := []struct {
		input  string
		code   diagnostics.ErrorCode
		line   int
		column int
	}{
		{"let a = 1;\nlet b = #;", diagnostics.ErrL001, 2, 9},
		{"a & b", diagnostics.ErrL001, 1, 3},
		{"x = @ 1", diagnostics.ErrL001, 1, 5},
		{"99999999999999999999999", diagnostics.ErrL002, 1, 1},
	}
	for _, tt := range tests {
		_, err := Tokenize(tt.input)
		de, ok := diagnostics.As(err)
		if !ok {
			t.Fatalf("%q: expected diagnostic error, got %v", tt.input, err)
		}
		if de.Kind != diagnostics.TokenError || de.Code != tt.code {
			t.Errorf("%q: expected TokenError %s, got %s %s", tt.input, tt.code, de.Kind, de.Code)
		}
		if de.Span.Line != tt.line || de.Span.Column != tt.column {
			t.Errorf("%q: expected position %d:%d, got %d:%d", tt.input, tt.line, tt.column, de.Span.Line, de.Span.Column)
		}
	}
}

func TestEOFSpanAtEndOfInput(t *testing.T) {
	input := "a\nbc"
	tokens, _ := Tokenize(input)
	eof := tokens[len(tokens)-1]
	if eof.Start != len(input) || eof.End != len(input) {
		t.Errorf("EOF span should be empty at end of input, got [%d,%d)", eof.Start, eof.End)
	}
	if eof.Line != 2 || eof.Column != 3 {
		t.Errorf("EOF expected at 2:3, got %d:%d", eof.Line, eof.Column)
	}
}

func TestStreamPeekSeek(t *testing.T) {
	tokens, _ := Tokenize("a // c\n b c")
	s := NewStream(tokens)
	if s.Len() != 4 {
		t.Fatalf("comments must be filtered, got %d tokens", s.Len())
	}
	mark := s.Position()
	if got := s.Next().Lexeme; got != "a" {
		t.Fatalf("expected a, got %q", got)
	}
	if got := s.Peek(2); len(got) != 2 || got[0].Lexeme != "b" {
		t.Fatalf("unexpected peek %v", got)
	}
	s.Seek(mark)
	if got := s.At(0).Lexeme; got != "a" {
		t.Errorf("seek did not rewind, at %q", got)
	}
	for i := 0; i < 10; i++ {
		s.Next()
	}
	if s.At(0).Type != token.EOF {
		t.Errorf("cursor should stop at EOF")
	}
}
