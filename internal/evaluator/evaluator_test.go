package evaluator_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/funvibe/clasp/internal/analyzer"
	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/config"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/evaluator"
	"github.com/funvibe/clasp/internal/natives"
	"github.com/funvibe/clasp/internal/parser"
	"github.com/funvibe/clasp/internal/vdom"
)

type harness struct {
	interp *evaluator.Interpreter
	out    *bytes.Buffer
	prog   *ast.Program
}

// load parses src after the prelude and type-checks it.
func load(t *testing.T, src string) *harness {
	t.Helper()
	prelude, err := parser.ParseSource(config.PreludePath, natives.Prelude())
	if err != nil {
		t.Fatalf("prelude does not parse: %v", err)
	}
	program, err := parser.ParseSource("test.clasp", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	linked := &ast.Program{
		File:       "test.clasp",
		Statements: append(prelude.Statements, program.Statements...),
		Origins:    make(map[ast.Statement]string),
	}
	for _, stmt := range prelude.Statements {
		linked.Origins[stmt] = config.PreludePath
	}
	if _, err := analyzer.New(nil).Analyze(linked); err != nil {
		t.Fatalf("type error: %v\nsource:\n%s", err, src)
	}
	out := &bytes.Buffer{}
	clock := func() time.Time { return time.UnixMilli(1700000000000) }
	reg := natives.Standard(natives.Options{Out: out, Clock: clock})
	return &harness{interp: evaluator.New(reg, nil), out: out, prog: linked}
}

func run(t *testing.T, src string) (evaluator.Value, string) {
	t.Helper()
	h := load(t, src)
	v, err := h.interp.Run(context.Background(), h.prog)
	if err != nil {
		t.Fatalf("runtime error: %v\nsource:\n%s", err, src)
	}
	return v, h.out.String()
}

func runError(t *testing.T, src string, kind diagnostics.Kind, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	h := load(t, src)
	_, err := h.interp.Run(context.Background(), h.prog)
	if err == nil {
		t.Fatalf("expected %s %s, got no error\nsource:\n%s", kind, code, src)
	}
	de, ok := diagnostics.As(err)
	if !ok {
		t.Fatalf("expected a diagnostic, got %T: %v", err, err)
	}
	if de.Kind != kind || de.Code != code {
		t.Fatalf("expected %s %s, got %s %s: %s", kind, code, de.Kind, de.Code, de.Message)
	}
	return de
}

func TestInvokeAppMain(t *testing.T) {
	h := load(t, `class App { public main(): number { return 1 + 2 * 3; } }`)
	if _, err := h.interp.Run(context.Background(), h.prog); err != nil {
		t.Fatal(err)
	}
	v, err := h.interp.Invoke(context.Background(), "App", "main")
	if err != nil {
		t.Fatal(err)
	}
	if v != 7.0 {
		t.Errorf("expected 7, got %v", v)
	}
}

func TestTopLevelReturn(t *testing.T) {
	v, _ := run(t, `let a = 1; let b = a = 5; return a + b;`)
	if v != 10.0 {
		t.Errorf("expected 10, got %v", v)
	}
	v, _ = run(t, `let x = 1;`)
	if v != evaluator.Void {
		t.Errorf("expected void, got %v", v)
	}
}

func TestDynamicDispatch(t *testing.T) {
	v, _ := run(t, `
class A {
    public f(): string { return "A"; }
    public g(): string { return "g" + this.f(); }
}
class B extends A { public f(): string { return "B"; } }
let a: A = new B();
return a.g();
`)
	if v != "gB" {
		t.Errorf("expected gB, got %v", v)
	}
}

func TestConstructorsAndSuper(t *testing.T) {
	v, _ := run(t, `
class Base {
    public name: string = "base";
    public size: number = 1;
    constructor(size: number) { this.size = size; }
    public describe(): string { return this.name + ":" + this.size; }
}
class Derived extends Base {
    public extra: number = 10;
    constructor() { super(5); this.name = "derived"; }
    public describe(): string { return super.describe() + "+" + this.extra; }
}
return new Derived().describe();
`)
	if v != "derived:5+10" {
		t.Errorf("got %v", v)
	}

	// without super(...) inherited fields keep their initialisers
	v, _ = run(t, `
class Base {
    public size: number = 1;
    constructor(size: number) { this.size = size; }
}
class Derived extends Base {
    constructor() { }
}
return new Derived().size;
`)
	if v != 1.0 {
		t.Errorf("expected 1, got %v", v)
	}
}

func TestStaticsAndDefaults(t *testing.T) {
	v, _ := run(t, `
class Counter {
    public static count: number = 0;
    public static bump(by: number = 1): number {
        Counter.count = Counter.count + by;
        return Counter.count;
    }
}
Counter.bump();
Counter.bump(5);
return Counter.count;
`)
	if v != 6.0 {
		t.Errorf("expected 6, got %v", v)
	}
}

func TestForeachAndPrint(t *testing.T) {
	_, out := run(t, `
let arr = [1, 2, 3];
let sum = 0;
foreach (x in arr) {
    sum = sum + x;
    System.print(x);
}
System.println("");
System.println("sum=" + sum);
`)
	if out != "123\nsum=6\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestReturnInsideForeach(t *testing.T) {
	v, _ := run(t, `
class Finder {
    public static first(items: Array<number>, min: number): number {
        foreach (x in items) {
            if (x > min) { return x; }
        }
        return -1;
    }
}
return Finder.first([1, 5, 9], 3);
`)
	if v != 5.0 {
		t.Errorf("expected 5, got %v", v)
	}
}

func TestCustomIterable(t *testing.T) {
	_, out := run(t, `
class Range implements Iterator<number> {
    private pos: number = 0;
    private end: number = 0;
    constructor(end: number) { this.end = end; }
    public rewind(): void { this.pos = 0; }
    public hasNext(): boolean { return this.pos < this.end; }
    public current(): number { return this.pos; }
    public next(): void { this.pos = this.pos + 1; }
}
class Span {
    public iterator(): Range { return new Range(3); }
}
class Walk {
    public static each<T>(items: T): void {
        foreach (i in items) { System.print(i); }
    }
}
Walk.each(new Span());
`)
	if out != "012" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestIterationProtocolViolation(t *testing.T) {
	de := runError(t, `
class Empty {}
class Walk {
    public static each<T>(items: T): void {
        foreach (x in items) { }
    }
}
Walk.each(new Empty());
`, diagnostics.RuntimeError, diagnostics.ErrR005)
	if !strings.Contains(de.Message, "iterator") {
		t.Errorf("message should name iterator(): %s", de.Message)
	}
}

func TestArraysAndLambdas(t *testing.T) {
	_, out := run(t, `
let arr = new Array<number>();
arr.push(1);
arr.push(2);
arr[2] = 3;
let doubled = arr.map((x) -> x * 2);
let odd = arr.filter((x) -> x % 2 == 1);
System.println(doubled.join());
System.println(odd.join("-"));
System.println(arr[1]);
let total = 0;
arr.forEach((x) -> { total = total + x; });
System.println(total);
`)
	if out != "2,4,6\n1-3\n2\n6\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNativeSubclassSurvivesHostCollection(t *testing.T) {
	v, out := run(t, `
class Stack extends Array<number> {
    public label: string = "s";
}
let holder = new Array<Stack>();
let s = new Stack();
s.push(1);
holder.push(s);
let back = holder.get(0);
System.println(back == s);
System.println(back.get(0));
return back.label;
`)
	if v != "s" {
		t.Errorf("expected label s, got %v", v)
	}
	if out != "true\n1\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestClosuresCaptureScope(t *testing.T) {
	v, _ := run(t, `
class Make {
    public static adder(n: number): (number) -> number {
        return (x: number) -> x + n;
    }
}
let add2 = Make.adder(2);
let add5 = Make.adder(5);
return add2(1) + add5(1);
`)
	if v != 9.0 {
		t.Errorf("expected 9, got %v", v)
	}
}

func TestPrimitiveMembers(t *testing.T) {
	_, out := run(t, `
let s = "Hello";
System.println(s.length());
System.println(s.toUpperCase());
System.println(s.substring(1));
System.println(s.substring(1, 3));
let n = 3;
System.println(n.toFixed(2));
System.println(Number.max(2, 8));
System.println(Number.parse("42") + 1);
System.println("a,b".split(",").length());
`)
	want := "5\nHELLO\nello\nel\n3.00\n8\n43\n2\n"
	if out != want {
		t.Errorf("unexpected output %q, want %q", out, want)
	}
}

func TestMatchStatement(t *testing.T) {
	_, out := run(t, `
class Names {
    public static of(n: number): string {
        match (n) {
            1 => { return "one"; }
            2 => { return "two"; }
            default => { return "many"; }
        }
        return "unreachable";
    }
}
System.println(Names.of(1));
System.println(Names.of(2));
System.println(Names.of(7));
`)
	if out != "one\ntwo\nmany\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNullDereference(t *testing.T) {
	de := runError(t, `
class Box { public v: number = 1; }
let b: Box? = null;
return b.v;
`, diagnostics.RuntimeError, diagnostics.ErrR004)
	if de.Span.Line != 4 {
		t.Errorf("expected error on line 4, got %d", de.Span.Line)
	}
	if de.File != "test.clasp" {
		t.Errorf("expected test.clasp, got %q", de.File)
	}
}

func TestNativeErrors(t *testing.T) {
	de := runError(t, `Assert.equals(1, 2);`, diagnostics.NativeError, diagnostics.ErrN001)
	if !strings.Contains(de.Message, "expected 1, got 2") {
		t.Errorf("unexpected message %s", de.Message)
	}
	runError(t, `let arr = new Array<number>(); arr.get(3);`, diagnostics.NativeError, diagnostics.ErrN001)
	runError(t, `let s = "abc"; s.charAt(10);`, diagnostics.NativeError, diagnostics.ErrN001)
}

func TestErrorsFromLambdasPassThroughHost(t *testing.T) {
	runError(t, `
class Box { public v: number = 1; }
let items = new Array<Box?>();
items.push(null);
items.forEach((b) -> { System.println(b.v); });
`, diagnostics.RuntimeError, diagnostics.ErrR004)
}

func TestDivisionByZero(t *testing.T) {
	runError(t, `let z = 0; return 1 / z;`, diagnostics.RuntimeError, diagnostics.ErrR001)
}

func TestDeepRecursion(t *testing.T) {
	de := runError(t, `
class R { public static down(n: number): number { return R.down(n + 1); } }
R.down(0);
`, diagnostics.RuntimeError, diagnostics.ErrR001)
	if !strings.Contains(de.Message, "call depth") {
		t.Errorf("unexpected message %s", de.Message)
	}
}

func TestCancellation(t *testing.T) {
	h := load(t, `let x = 1; let y = 2;`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.interp.Run(ctx, h.prog)
	de, ok := diagnostics.As(err)
	if !ok || de.Code != diagnostics.ErrR006 {
		t.Fatalf("expected R006, got %v", err)
	}
}

func TestInterfaceDefaultMethod(t *testing.T) {
	v, _ := run(t, `
interface Greeter {
    name(): string;
    greet(): string { return "hello " + this.name(); }
}
class World implements Greeter {
    public name(): string { return "world"; }
}
let g: Greeter = new World();
return g.greet();
`)
	if v != "hello world" {
		t.Errorf("got %v", v)
	}
}

func nodeOf(t *testing.T, v evaluator.Value) *vdom.Node {
	t.Helper()
	node, ok := evaluator.NodeOf(v)
	if !ok {
		t.Fatalf("expected a vdom node, got %T", v)
	}
	return node
}

func TestVDomPlainElement(t *testing.T) {
	v, _ := run(t, `
let n = 3;
let items = [1, 2];
return vdom <div id="main" count={n}>hello world <b>{n}</b>{items}</div>;
`)
	node := nodeOf(t, v)
	if node.Tag != "div" || node.Props["id"] != "main" || node.Props["count"] != 3.0 {
		t.Errorf("unexpected node %+v", node)
	}
	got := vdom.Render(node)
	want := `<div count="3" id="main">hello world<b>3</b>1 2</div>`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestVDomComponent(t *testing.T) {
	v, _ := run(t, `
class Greeting {
    public who: string = "nobody";
    public render(): VNode { return vdom <p>Hi {this.who}</p>; }
}
return vdom <Greeting who="Ann"/>;
`)
	if got := vdom.Render(nodeOf(t, v)); got != "<p>Hi Ann</p>" {
		t.Errorf("got %s", got)
	}
}

func TestVDomComponentFailureFallsBack(t *testing.T) {
	v, _ := run(t, `
class Broken {
    public render(): VNode {
        let b: Broken? = null;
        b.render();
        return vdom <i></i>;
    }
}
return vdom <Broken a="1"></Broken>;
`)
	if got := vdom.Render(nodeOf(t, v)); got != `<Broken a="1"></Broken>` {
		t.Errorf("got %s", got)
	}
}

func TestInstanceString(t *testing.T) {
	_, out := run(t, `
class P { public x: number = 1; public y: string = "a"; }
System.println(new P());
`)
	if out != "P{x=1, y=a}\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestHasMethod(t *testing.T) {
	h := load(t, `class App { public main(): string { return "ran"; } }`)
	if _, err := h.interp.Run(context.Background(), h.prog); err != nil {
		t.Fatal(err)
	}
	if !h.interp.HasMethod("App", "main") {
		t.Fatal("App.main should be found")
	}
	if h.interp.HasMethod("App", "missing") || h.interp.HasMethod("Nope", "main") {
		t.Error("unexpected method found")
	}
}
