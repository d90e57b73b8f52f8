package parser_test

import (
	"strings"
	"testing"

	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/lexer"
	"github.com/funvibe/clasp/internal/parser"
	"github.com/funvibe/clasp/internal/pipeline"
)

// parseWithErrors runs the lexer+parser and returns the context.
func parseWithErrors(input string) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(input)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		return ctx
	}
	return (&parser.ParserProcessor{}).Process(ctx)
}

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := parseWithErrors(input)
	if len(ctx.Errors) > 0 {
		var msgs []string
		for _, e := range ctx.Errors {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("expected no errors, got:\n%s\ninput: %s", strings.Join(msgs, "\n"), input)
	}
	return ctx.AstRoot
}

// expectError asserts that parsing fails with the given code.
func expectError(t *testing.T, input string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	ctx := parseWithErrors(input)
	if len(ctx.Errors) == 0 {
		t.Fatalf("expected error %s, but got none\ninput: %s", code, input)
	}
	err := ctx.Errors[0]
	if err.Kind != diagnostics.ParserError || err.Code != code {
		t.Fatalf("expected ParserError %s, got %s\ninput: %s", code, err.Error(), input)
	}
	return err
}

func expressionOf(t *testing.T, input string) ast.Expression {
	t.Helper()
	program := parse(t, input)
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected expression statement, got %T", program.Statements[0])
	}
	return stmt.Expression
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3))"},
		{"a = b = 1;", "(a = (b = 1))"},
		{"1 - 2 - 3;", "((1 - 2) - 3)"},
		{"a || b && c;", "(a || (b && c))"},
		{"a == b < c;", "(a == (b < c))"},
		{"-a * b;", "((-a) * b)"},
		{"!a.b;", "(!a.b)"},
		{"(1 + 2) * 3;", "((1 + 2) * 3)"},
		{"a.b.c(1)[2];", "a.b.c(1)[2]"},
		{"x = 1 + 2 % 3 >= 4 != true;", "(x = (((1 + (2 % 3)) >= 4) != true))"},
		{"this.items[i] = f(a, b);", "(this.items[i] = f(a, b))"},
		{"new Box<number>(1).get();", "new Box<number>(1).get()"},
	}
	for _, tt := range tests {
		if got := expressionOf(t, tt.input).String(); got != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestFirstTokenIsKept(t *testing.T) {
	tests := []struct {
		input string
		check func(ast.Statement) bool
	}{
		{"let a = 1;", func(s ast.Statement) bool {
			ls, ok := s.(*ast.LetStatement)
			return ok && ls.Name.Value == "a"
		}},
		{"class App { public main(): number { return 1; } }", func(s ast.Statement) bool {
			cd, ok := s.(*ast.ClassDeclaration)
			return ok && cd.Name.Value == "App"
		}},
		{"@native class String {}", func(s ast.Statement) bool {
			cd, ok := s.(*ast.ClassDeclaration)
			return ok && cd.IsNative()
		}},
		{"x;", func(s ast.Statement) bool {
			es, ok := s.(*ast.ExpressionStatement)
			return ok && es.Expression.String() == "x"
		}},
	}
	for _, tt := range tests {
		program := parse(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", tt.input, len(program.Statements))
		}
		stmt := program.Statements[0]
		if !tt.check(stmt) {
			t.Errorf("%q: unexpected first statement %T %v", tt.input, stmt, stmt)
		}
		if s := stmt.Span(); s.Start != 0 || s.Line != 1 || s.Column != 1 {
			t.Errorf("%q: first statement starts at %d (%s), want offset 0 at 1:1", tt.input, s.Start, s)
		}
	}
}

func TestLambdaDisambiguation(t *testing.T) {
	lambda, ok := expressionOf(t, "(x: number, y = 2): number -> x * y;").(*ast.LambdaExpression)
	if !ok {
		t.Fatalf("expected lambda")
	}
	if len(lambda.Params) != 2 || lambda.Params[1].Default == nil || lambda.ReturnType == nil {
		t.Errorf("unexpected lambda shape %+v", lambda)
	}
	if lambda.RequiredParams() != 1 {
		t.Errorf("expected 1 required param, got %d", lambda.RequiredParams())
	}

	block, ok := expressionOf(t, "() -> { return 1; };").(*ast.LambdaExpression)
	if !ok || block.BodyBlock == nil {
		t.Fatalf("expected block-bodied lambda")
	}

	if _, ok := expressionOf(t, "(a + (b)) * 2;").(*ast.BinaryExpression); !ok {
		t.Errorf("parenthesised expression must not parse as lambda")
	}
}

func TestClassDeclaration(t *testing.T) {
	program := parse(t, `
@native
open class Box<T> extends Base<T> implements Iterable<T>, Sized {
	value: T?;
	public static readonly count: number = 0;
	constructor(v: T) { this.value = v; }
	get(): T { return this.value; }
	private map<U>(f: (T) -> U): Box<U>;
}`)
	cd, ok := program.Statements[0].(*ast.ClassDeclaration)
	if !ok {
		t.Fatalf("expected class, got %T", program.Statements[0])
	}
	if !cd.Open || !cd.IsNative() || cd.Name.Value != "Box" || len(cd.TypeParams) != 1 {
		t.Errorf("unexpected class header %+v", cd)
	}
	if cd.Extends.String() != "Base<T>" || len(cd.Implements) != 2 {
		t.Errorf("unexpected supertypes %v %v", cd.Extends, cd.Implements)
	}
	if len(cd.Fields) != 2 || len(cd.Methods) != 3 {
		t.Fatalf("expected 2 fields and 3 methods, got %d and %d", len(cd.Fields), len(cd.Methods))
	}
	if !cd.Fields[0].Modifiers.Has(ast.ModPrivate) || !cd.Fields[0].Type.IsNullable() {
		t.Errorf("unmarked field should default to private, got %s", cd.Fields[0].Modifiers)
	}
	if m := cd.Fields[1].Modifiers; !m.Has(ast.ModPublic) || !m.Has(ast.ModStatic) || !m.Has(ast.ModReadonly) {
		t.Errorf("unexpected modifiers %s", m)
	}
	if cd.Constructor() == nil || !cd.Methods[1].Modifiers.Has(ast.ModPublic) {
		t.Errorf("constructor missing or method not public by default")
	}
	m := cd.Methods[2]
	if m.Body != nil || len(m.TypeParams) != 1 || m.Params[0].Type.String() != "(T) -> U" {
		t.Errorf("unexpected generic method %+v", m)
	}
}

func TestStatements(t *testing.T) {
	program := parse(t, `
import { Foo, Bar } from "lib/foo";
import "lib/side";
let a: number? = null;
if (a == null) { a = 1; } else if (a > 2) { a = 2; } else { a = 3; }
match (a) { 1 => { a = 0; } 2 => { } default => { a = 9; } }
foreach (x in xs) { print(x); }
return a;
`)
	if len(program.Statements) != 7 {
		t.Fatalf("expected 7 statements, got %d", len(program.Statements))
	}
	imports := program.Imports()
	if len(imports) != 2 || len(imports[0].Names) != 2 || imports[1].Path.Value != "lib/side" {
		t.Errorf("unexpected imports %+v", imports)
	}
	ifs := program.Statements[3].(*ast.IfStatement)
	if _, ok := ifs.Else.(*ast.IfStatement); !ok {
		t.Errorf("expected else-if chain")
	}
	ms := program.Statements[4].(*ast.MatchStatement)
	if len(ms.Cases) != 2 || ms.Default == nil {
		t.Errorf("unexpected match %+v", ms)
	}
	fe := program.Statements[5].(*ast.ForeachStatement)
	if fe.Variable.Value != "x" {
		t.Errorf("unexpected foreach variable %s", fe.Variable.Value)
	}
}

func TestVDom(t *testing.T) {
	el, ok := expressionOf(t, `vdom <div class="box" on={handler}>Hello,   big world <b>{name}</b><br/></div>;`).(*ast.VDomElement)
	if !ok {
		t.Fatalf("expected vdom element")
	}
	if el.Tag != "div" || len(el.Attributes) != 2 || el.Attributes[0].Name != "class" {
		t.Errorf("unexpected element %+v", el)
	}
	if len(el.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(el.Children))
	}
	if text := el.Children[0].(*ast.VDomText).Text; text != "Hello, big world" {
		t.Errorf("unexpected text %q", text)
	}
	b := el.Children[1].(*ast.VDomElement)
	if _, ok := b.Children[0].(*ast.VDomExpression); !ok {
		t.Errorf("expected expression hole in <b>")
	}
	if br := el.Children[2].(*ast.VDomElement); !br.SelfClosing {
		t.Errorf("expected self-closing <br/>")
	}
}

func TestSpansMatchSource(t *testing.T) {
	input := `class A { private x: number = 1; get(): number { return this.x + (2 * 3); } }
let f = (n: number) -> n[0].y;`
	program := parse(t, input)
	check := func(n ast.Node, want string) {
		t.Helper()
		s := n.Span()
		if got := input[s.Start:s.End]; got != want {
			t.Errorf("span of %T = %q, want %q", n, got, want)
		}
	}
	cd := program.Statements[0].(*ast.ClassDeclaration)
	check(cd, input[:strings.Index(input, "\n")])
	check(cd.Fields[0], "private x: number = 1;")
	ret := cd.Methods[0].Body.Statements[0].(*ast.ReturnStatement)
	check(ret, "return this.x + (2 * 3);")
	check(ret.Value, "this.x + (2 * 3)")
	check(ret.Value.(*ast.BinaryExpression).Right, "2 * 3")
	let := program.Statements[1].(*ast.LetStatement)
	check(let, "let f = (n: number) -> n[0].y;")
	check(let.Value, "(n: number) -> n[0].y")
	check(let.Value.(*ast.LambdaExpression).BodyExpr, "n[0].y")
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diagnostics.ErrorCode
	}{
		{"missing semicolon", "let a = 1", diagnostics.ErrP003},
		{"invalid assignment target", "a + b = 1;", diagnostics.ErrP002},
		{"literal assignment target", "1 = 2;", diagnostics.ErrP002},
		{"cannot start expression", "let a = );", diagnostics.ErrP004},
		{"mismatched tag", "vdom <div></span>;", diagnostics.ErrP005},
		{"unexpected token", "class { }", diagnostics.ErrP001},
		{"duplicate member", "class A { x; x; }", diagnostics.ErrP001},
		{"annotation without declaration", "@native let x = 1;", diagnostics.ErrP001},
		{"interface constructor", "interface I { constructor(); }", diagnostics.ErrP001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, tt.input, tt.code)
		})
	}
}

func TestUnterminatedParameterListPointsAtEOF(t *testing.T) {
	input := "class Foo { bar("
	err := expectError(t, input, diagnostics.ErrP003)
	if err.Span.Start != len(input) || err.Span.End != len(input) {
		t.Errorf("expected span at end of input [%d,%d), got [%d,%d)", len(input), len(input), err.Span.Start, err.Span.End)
	}
}

func TestFirstErrorAborts(t *testing.T) {
	ctx := parseWithErrors("let = 1; let = 2;")
	if len(ctx.Errors) != 1 {
		t.Errorf("expected exactly one error, got %d", len(ctx.Errors))
	}
	if ctx.AstRoot != nil {
		t.Errorf("failed parse must not produce a program")
	}
}
