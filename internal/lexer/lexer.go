package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		if l.position < len(l.input) || l.column == 0 {
			l.column++
		}
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input)
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// NextToken scans one token. Malformed input yields an ILLEGAL token whose
// Literal holds the reason; Tokenize turns it into a TokenError.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	start, line, col := l.position, l.line, l.column
	emit := func(t token.TokenType) token.Token {
		lexeme := l.input[start:l.position]
		return token.Token{Type: t, Lexeme: lexeme, Literal: lexeme, Span: token.Span{Start: start, End: l.position, Line: line, Column: col}}
	}
	// single consumes the current char; double consumes it and the next one.
	single := func(t token.TokenType) token.Token {
		l.readChar()
		return emit(t)
	}
	double := func(t token.TokenType) token.Token {
		l.readChar()
		l.readChar()
		return emit(t)
	}

	if l.atEOF() {
		return token.Token{Type: token.EOF, Span: token.Span{Start: start, End: start, Line: line, Column: col}}
	}

	switch l.ch {
	case '/':
		switch l.peekChar() {
		case '/':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
			return emit(token.COMMENT)
		case '>':
			return double(token.SLASH_GT)
		}
		return single(token.SLASH)
	case '<':
		switch l.peekChar() {
		case '/':
			return double(token.LT_SLASH)
		case '=':
			return double(token.LTE)
		}
		return single(token.LT)
	case '>':
		if l.peekChar() == '=' {
			return double(token.GTE)
		}
		return single(token.GT)
	case '=':
		switch l.peekChar() {
		case '=':
			return double(token.EQ)
		case '>':
			return double(token.FAT_ARROW)
		}
		return single(token.ASSIGN)
	case '!':
		if l.peekChar() == '=' {
			return double(token.NOT_EQ)
		}
		return single(token.BANG)
	case '&':
		if l.peekChar() == '&' {
			return double(token.AND)
		}
	case '|':
		if l.peekChar() == '|' {
			return double(token.OR)
		}
	case '-':
		if l.peekChar() == '>' {
			return double(token.ARROW)
		}
		return single(token.MINUS)
	case '+':
		return single(token.PLUS)
	case '*':
		return single(token.ASTERISK)
	case '%':
		return single(token.PERCENT)
	case '?':
		return single(token.QUESTION)
	case ',':
		return single(token.COMMA)
	case ';':
		return single(token.SEMICOLON)
	case ':':
		return single(token.COLON)
	case '.':
		return single(token.DOT)
	case '(':
		return single(token.LPAREN)
	case ')':
		return single(token.RPAREN)
	case '{':
		return single(token.LBRACE)
	case '}':
		return single(token.RBRACE)
	case '[':
		return single(token.LBRACKET)
	case ']':
		return single(token.RBRACKET)
	case '"':
		content := l.readString()
		tok := emit(token.STRING)
		tok.Literal = content
		return tok
	case '@':
		l.readChar()
		if !isLetter(l.ch) {
			tok := emit(token.ILLEGAL)
			tok.Literal = "annotation name expected after '@'"
			return tok
		}
		name := l.readIdentifier()
		tok := emit(token.ANNOTATION)
		tok.Literal = name
		return tok
	}

	if isLetter(l.ch) {
		ident := l.readIdentifier()
		return emit(token.LookupIdent(ident))
	}
	if isDigit(l.ch) {
		return l.readNumber(start, line, col)
	}

	bad := l.ch
	l.readChar()
	tok := emit(token.ILLEGAL)
	tok.Literal = fmt.Sprintf("unexpected character %q", bad)
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readString consumes a "-delimited string without escape processing. An
// unterminated string runs to end of input.
func (l *Lexer) readString() string {
	l.readChar() // opening quote
	begin := l.position
	for !l.atEOF() && l.ch != '"' {
		l.readChar()
	}
	content := l.input[begin:l.position]
	if !l.atEOF() {
		l.readChar() // closing quote
	}
	return content
}

func (l *Lexer) readIdentifier() string {
	begin := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[begin:l.position]
}

func (l *Lexer) readNumber(start, line, col int) token.Token {
	for isDigit(l.ch) {
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	span := token.Span{Start: start, End: l.position, Line: line, Column: col}
	value, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: fmt.Sprintf("integer literal %s out of range", lexeme), Span: span}
	}
	return token.Token{Type: token.NUMBER, Lexeme: lexeme, Literal: value, Span: span}
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

// Tokenize scans the whole input. The first malformed token aborts with a
// TokenError; the returned slice always ends with EOF.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			code := diagnostics.ErrL001
			if isDigitString(tok.Lexeme) {
				code = diagnostics.ErrL002
			}
			return nil, diagnostics.NewError(diagnostics.TokenError, code, tok.Span, "%s", tok.Literal)
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func isDigitString(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isDigit(r) {
			return false
		}
	}
	return true
}
