package parser

import (
	"fmt"

	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/lexer"
	"github.com/funvibe/clasp/internal/token"
)

// MaxRecursionDepth bounds expression and type nesting.
const MaxRecursionDepth = 500

// Precedence levels for binary and postfix operators.
const (
	LOWEST      = 0
	ASSIGN      = 5
	LOGICAL_OR  = 10
	LOGICAL_AND = 20
	EQUALS      = 30
	COMPARE     = 40
	SUM         = 50
	PRODUCT     = 60
	PREFIX      = 70
	CALL        = 90
	DOT         = 100
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:   ASSIGN,
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       COMPARE,
	token.GT:       COMPARE,
	token.LTE:      COMPARE,
	token.GTE:      COMPARE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
	token.DOT:      DOT,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// bailout carries the first syntax error out of the descent.
type bailout struct {
	err *diagnostics.DiagnosticError
}

type Parser struct {
	stream *lexer.Stream
	file   string

	prevToken token.Token
	curToken  token.Token
	peekToken token.Token

	depth int

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(stream *lexer.Stream, file string) *Parser {
	p := &Parser{
		stream:         stream,
		file:           file,
		prefixParseFns: make(map[token.TokenType]prefixParseFn),
		infixParseFns:  make(map[token.TokenType]infixParseFn),
	}

	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.BOOLEAN, p.parseBooleanLiteral)
	p.registerPrefix(token.NULL, p.parseNullLiteral)
	p.registerPrefix(token.THIS, p.parseThisExpression)
	p.registerPrefix(token.SUPER, p.parseSuperExpression)
	p.registerPrefix(token.NEW, p.parseNewExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LPAREN, p.parseParenOrLambda)
	p.registerPrefix(token.BANG, p.parseUnaryExpression)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.VDOM, p.parseVDomExpression)

	for _, op := range []token.TokenType{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
		token.EQ, token.NOT_EQ, token.LT, token.GT, token.LTE, token.GTE,
		token.AND, token.OR,
	} {
		p.registerInfix(op, p.parseBinaryExpression)
	}
	p.registerInfix(token.ASSIGN, p.parseAssignmentExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.DOT, p.parseMemberExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)

	// nextToken fills curToken and peekToken from the stream in one step
	p.nextToken()
	return p
}

// ParseSource lexes and parses a whole file.
func ParseSource(file, src string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		if de, ok := diagnostics.As(err); ok && de.File == "" {
			de.File = file
		}
		return nil, err
	}
	return New(lexer.NewStream(tokens), file).ParseProgram()
}

// ParseProgram parses until EOF. The first syntax error aborts the parse.
func (p *Parser) ParseProgram() (program *ast.Program, err error) {
	program = &ast.Program{File: p.file}
	start := p.curToken

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			b.err.File = p.file
			program, err = nil, b.err
		}
	}()

	for !p.curTokenIs(token.EOF) {
		program.Statements = append(program.Statements, p.parseStatement())
		p.nextToken()
	}
	if len(program.Statements) > 0 {
		program.Loc = start.Span.Cover(p.prevToken.Span)
	}
	return program, nil
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.stream.Next()
	p.peekToken = p.stream.At(0)
}

// marker is a saved cursor for speculative scanning.
type marker struct {
	pos             int
	prev, cur, peek token.Token
}

func (p *Parser) mark() marker {
	return marker{pos: p.stream.Position(), prev: p.prevToken, cur: p.curToken, peek: p.peekToken}
}

func (p *Parser) reset(m marker) {
	p.stream.Seek(m.pos)
	p.prevToken, p.curToken, p.peekToken = m.prev, m.cur, m.peek
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances when the next token has type t and fails otherwise.
func (p *Parser) expectPeek(t token.TokenType) {
	if p.peekTokenIs(t) {
		p.nextToken()
		return
	}
	p.unexpected(p.peekToken, string(t))
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// spanFrom covers start through the current token.
func (p *Parser) spanFrom(start token.Token) token.Span {
	return start.Span.Cover(p.curToken.Span)
}

func (p *Parser) fail(code diagnostics.ErrorCode, tok token.Token, format string, args ...any) {
	panic(bailout{err: diagnostics.NewError(diagnostics.ParserError, code, tok.Span, format, args...)})
}

func (p *Parser) unexpected(tok token.Token, expected string) {
	if tok.Type == token.EOF {
		p.fail(diagnostics.ErrP003, tok, "unexpected end of input, expected %s", expected)
	}
	p.fail(diagnostics.ErrP001, tok, "expected %s, got %s", expected, describe(tok))
}

func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Lexeme)
}

func (p *Parser) enter(tok token.Token) {
	p.depth++
	if p.depth > MaxRecursionDepth {
		p.fail(diagnostics.ErrP006, tok, "expression too complex: nesting depth limit exceeded")
	}
}

func (p *Parser) leave() {
	p.depth--
}
