package prettyprinter

import (
	"testing"

	"github.com/funvibe/clasp/internal/parser"
)

func format(t *testing.T, src string) string {
	t.Helper()
	program, err := parser.ParseSource("test.clasp", src)
	if err != nil {
		t.Fatalf("parse error: %v\nsource:\n%s", err, src)
	}
	return Format(program)
}

func TestFormatLayout(t *testing.T) {
	src := `import {A,B} from "./lib";
import "std/x";
let total:number=1+2*3;
@native class Box<T> extends Base<T> implements Sized, Named { x:number=1; public static readonly y:string?; constructor(x:number){this.x=x;} get(i:number=0):T; }
interface Sized { size(): number; }
if(a){return;}else if(b){ }else{f();}
`
	want := `import { A, B } from "./lib";
import "std/x";

let total: number = 1 + 2 * 3;

@native class Box<T> extends Base<T> implements Sized, Named {
    private x: number = 1;
    public static readonly y: string?;

    constructor(x: number) {
        this.x = x;
    }
    public get(i: number = 0): T;
}

interface Sized {
    public size(): number;
}

if (a) {
    return;
} else if (b) { } else {
    f();
}
`
	if got := format(t, src); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatParentheses(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(1 + 2) * 3;", "(1 + 2) * 3;\n"},
		{"1 + (2 * 3);", "1 + 2 * 3;\n"},
		{"1 - (2 - 3);", "1 - (2 - 3);\n"},
		{"(1 - 2) - 3;", "1 - 2 - 3;\n"},
		{"a = b = c;", "a = b = c;\n"},
		{"(a = b) == c;", "(a = b) == c;\n"},
		{"-(a + b);", "-(a + b);\n"},
		{"(-a).b;", "(-a).b;\n"},
		{"!a.b();", "!a.b();\n"},
		{"new Box<number>(1).get()[0];", "new Box<number>(1).get()[0];\n"},
		{"f((x: number): number -> x + 1, [1,2]);", "f((x: number): number -> x + 1, [1, 2]);\n"},
		{"let g = (x) -> { return x; };", "let g = (x) -> {\n    return x;\n};\n"},
	}
	for _, tt := range tests {
		if got := format(t, tt.src); got != tt.want {
			t.Errorf("format(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestFormatIsStable(t *testing.T) {
	src := `
class App extends Base {
    private items: Array<number> = [1, 2, 3];
    public main(): VNode {
        let n = 0;
        foreach (i in this.items) { n = n + i; }
        match (n) { 6 => { System.println("six"); } default => { } }
        return vdom <ul id="list" count={n}>items <li>{n % 2}</li><br/></ul>;
    }
}
`
	once := format(t, src)
	twice := format(t, once)
	if once != twice {
		t.Errorf("formatting is not stable:\n%s\n---\n%s", once, twice)
	}
}
