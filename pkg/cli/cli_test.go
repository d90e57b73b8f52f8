package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFiles creates files under a fresh directory and returns it.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Main(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunEntryPoint(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.clasp": `
import { Greeter } from "./lib/greeter";
class App {
    public main(): void {
        System.println(new Greeter("world").greet());
    }
}
`,
		"lib/greeter.clasp": `
class Greeter {
    private who: string;
    constructor(who: string) { this.who = who; }
    public greet(): string { return "hello " + this.who; }
}
`,
	})
	code, out, errOut := runCLI(t, "", "run", "-C", dir, filepath.Join(dir, "main.clasp"))
	if code != ExitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "hello world\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunFileShorthandPrintsResult(t *testing.T) {
	dir := writeFiles(t, map[string]string{"calc.clasp": `let x = 6; return x * 7;`})
	code, out, errOut := runCLI(t, "", filepath.Join(dir, "calc.clasp"))
	if code != ExitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "42\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunProjectEntry(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"clasp.yaml": "entry: src/start.clasp\nsource_root: src\nentry_class: Start\nentry_method: go\n",
		"src/start.clasp": `
import { Util } from "util";
class Start { public static go(): number { return Util.twice(21); } }
`,
		"src/util.clasp": `class Util { public static twice(n: number): number { return n * 2; } }`,
	})
	code, out, errOut := runCLI(t, "", "run", "-C", filepath.Join(dir, "src"))
	if code != ExitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "42\n" {
		t.Errorf("got %q", out)
	}
}

func TestCheckReportsTypeError(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bad.clasp": "let a: number = 1;\nlet b: string = a;\n"})
	code, _, errOut := runCLI(t, "", "check", "-C", dir, filepath.Join(dir, "bad.clasp"))
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	for _, want := range []string{"[TypeError]", "bad.clasp:2:", "let b: string = a;"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr %q does not contain %q", errOut, want)
		}
	}

	good := writeFiles(t, map[string]string{"ok.clasp": "class A { }\n"})
	code, out, errOut := runCLI(t, "", "check", "-C", good, filepath.Join(good, "ok.clasp"))
	if code != ExitOK || !strings.Contains(out, "ok.clasp: ok") {
		t.Errorf("exit %d, stdout %q, stderr %q", code, out, errOut)
	}
}

func TestMissingImportIsDependencyError(t *testing.T) {
	dir := writeFiles(t, map[string]string{"main.clasp": `import { X } from "./nowhere";`})
	code, _, errOut := runCLI(t, "", "run", "-C", dir, filepath.Join(dir, "main.clasp"))
	if code != ExitError || !strings.Contains(errOut, "[DependencyError]") {
		t.Errorf("exit %d, stderr %q", code, errOut)
	}
}

func TestVDomOutput(t *testing.T) {
	dir := writeFiles(t, map[string]string{"page.clasp": `return vdom <p class="x">hi</p>;`})
	file := filepath.Join(dir, "page.clasp")

	code, out, errOut := runCLI(t, "", "run", "-C", dir, file)
	if code != ExitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != `<p class="x">hi</p>`+"\n" {
		t.Errorf("got %q", out)
	}

	code, out, errOut = runCLI(t, "", "run", "-C", dir, "-json", file)
	if code != ExitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if doc["tag"] != "p" {
		t.Errorf("unexpected document %v", doc)
	}
}

func TestTokensAndAst(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.clasp": `let x = 1;`})
	file := filepath.Join(dir, "a.clasp")

	code, out, _ := runCLI(t, "", "tokens", file)
	if code != ExitOK || !strings.Contains(out, `LET`) || !strings.Contains(out, `"x"`) {
		t.Errorf("exit %d, tokens %q", code, out)
	}

	code, out, _ = runCLI(t, "", "ast", file)
	if code != ExitOK || !strings.Contains(out, "LetStatement") {
		t.Errorf("exit %d, ast %q", code, out)
	}
}

func TestRepl(t *testing.T) {
	input := strings.Join([]string{
		`let x = 4;`,
		`System.println("once");`,
		`x * 2`,
		`class P {`,
		`    public static sq(n: number): number { return n * n; }`,
		`}`,
		`P.sq(x)`,
		`y`,
		`:quit`,
	}, "\n")
	code, out, errOut := runCLI(t, input, "repl", "-C", t.TempDir())
	if code != ExitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if strings.Count(out, "once") != 1 {
		t.Errorf("output replayed: %q", out)
	}
	for _, want := range []string{"8\n", "16\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout %q does not contain %q", out, want)
		}
	}
	if !strings.Contains(errOut, "[TypeError]") {
		t.Errorf("expected an error for y, got %q", errOut)
	}
}

func TestUsage(t *testing.T) {
	if code, _, _ := runCLI(t, ""); code != ExitUsage {
		t.Errorf("no args: exit %d", code)
	}
	if code, _, _ := runCLI(t, "", "frobnicate"); code != ExitUsage {
		t.Errorf("unknown command: exit %d", code)
	}
	if code, out, _ := runCLI(t, "", "version"); code != ExitOK || !strings.HasPrefix(out, "clasp ") {
		t.Errorf("version: exit %d %q", code, out)
	}
}

func TestDepth(t *testing.T) {
	tests := map[string]int{
		`class A {`:      1,
		`class A { }`:    0,
		`let s = "{";`:   0,
		`f(() -> { "}" `: 1,
		`let s = "\"{";`: 0,
	}
	for src, want := range tests {
		if got := depth(src); got != want {
			t.Errorf("depth(%q) = %d, want %d", src, got, want)
		}
	}
}
