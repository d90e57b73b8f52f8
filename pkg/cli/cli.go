package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/kr/pretty"

	"github.com/funvibe/clasp/internal/config"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/evaluator"
	"github.com/funvibe/clasp/internal/lexer"
	"github.com/funvibe/clasp/internal/natives"
	"github.com/funvibe/clasp/internal/parser"
	"github.com/funvibe/clasp/internal/pipeline"
	"github.com/funvibe/clasp/internal/prettyprinter"
	"github.com/funvibe/clasp/internal/vdom"
)

const Version = "0.3.0"

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const usage = `usage: clasp <command> [flags] [file]

commands:
  run      type-check and run a file (the default when given a file)
  check    type-check a file and its imports
  tokens   print the token stream of a file
  ast      print the syntax tree of a file
  fmt      print a file in canonical layout (-w rewrites it)
  repl     start an interactive session
  version  print the version

Without a file, run and check use the entry of clasp.yaml.
`

// Run is the entry point of the clasp binary.
func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := Main(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// Main runs one command and returns the process exit code.
func Main(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return ExitUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return ExitOK
	case "-v", "-version", "--version", "version":
		fmt.Fprintln(stdout, "clasp "+Version)
		return ExitOK
	case "run", "check", "tokens", "ast", "fmt", "repl":
	default:
		if filepath.Ext(cmd) != config.SourceFileExt {
			fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
			return ExitUsage
		}
		cmd, rest = "run", args
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	dir := fs.String("C", ".", "look for "+config.ProjectFileName+" starting in `dir`")
	verbose := fs.Bool("verbose", false, "log pipeline stages to stderr")
	jsonOut := fs.Bool("json", false, "print vdom results as JSON instead of HTML")
	write := fs.Bool("w", false, "fmt: write the result back to the file")
	if err := fs.Parse(rest); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	project, err := loadProject(*dir)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitError
	}

	c := &command{stdout: stdout, stderr: stderr, jsonOut: *jsonOut, write: *write}
	switch cmd {
	case "tokens":
		return c.withSource(fs.Args(), project, c.tokens)
	case "ast":
		return c.withSource(fs.Args(), project, c.ast)
	case "fmt":
		return c.withSource(fs.Args(), project, c.format)
	}

	s, err := NewSession(project, stdout, stderr, *verbose)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitError
	}
	defer s.Close()
	c.session = s

	switch cmd {
	case "check":
		return c.withSource(fs.Args(), project, func(src, file string) int { return c.check(ctx, src, file) })
	case "repl":
		return c.repl(ctx, stdin)
	}
	return c.withSource(fs.Args(), project, func(src, file string) int { return c.run(ctx, src, file) })
}

func loadProject(dir string) (*config.Project, error) {
	found := config.FindProject(dir)
	if found == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		return config.DefaultProject(abs), nil
	}
	return config.LoadProject(found)
}

type command struct {
	session *Session
	stdout  io.Writer
	stderr  io.Writer
	jsonOut bool
	write   bool
}

// withSource reads the file named by args, or the project entry, and
// passes it on.
func (c *command) withSource(args []string, project *config.Project, fn func(src, file string) int) int {
	var file string
	switch {
	case len(args) > 1:
		fmt.Fprintf(c.stderr, "expected one file, got %d\n", len(args))
		return ExitUsage
	case len(args) == 1:
		file = args[0]
	case project.Entry != "":
		file = filepath.Join(project.Dir, project.Entry)
	default:
		fmt.Fprintf(c.stderr, "no file given and %s names no entry\n", config.ProjectFileName)
		return ExitUsage
	}
	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(c.stderr, "reading %s: %v\n", file, err)
		return ExitError
	}
	if c.session != nil {
		file = c.session.modulePath(file)
	}
	return fn(string(data), file)
}

func (c *command) tokens(src, file string) int {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		c.report(err, src)
		return ExitError
	}
	for _, tok := range toks {
		fmt.Fprintf(c.stdout, "%-8s %-12s %q\n", tok.Span, tok.Type, tok.Lexeme)
	}
	return ExitOK
}

func (c *command) ast(src, file string) int {
	program, err := parser.ParseSource(file, src)
	if err != nil {
		c.report(err, src)
		return ExitError
	}
	for _, stmt := range program.Statements {
		pretty.Fprintf(c.stdout, "%# v\n", stmt)
	}
	return ExitOK
}

func (c *command) format(src, file string) int {
	program, err := parser.ParseSource(file, src)
	if err != nil {
		c.report(err, src)
		return ExitError
	}
	out := prettyprinter.Format(program)
	if !c.write {
		fmt.Fprint(c.stdout, out)
		return ExitOK
	}
	if out == src {
		return ExitOK
	}
	if err := os.WriteFile(file, []byte(out), 0o644); err != nil {
		fmt.Fprintln(c.stderr, err)
		return ExitError
	}
	return ExitOK
}

func (c *command) check(ctx context.Context, src, file string) int {
	pc := c.session.Check(ctx, src, file)
	if c.failed(pc) {
		return ExitError
	}
	fmt.Fprintf(c.stdout, "%s: ok (%d declarations)\n", file, len(pc.Registry.Declarations()))
	return ExitOK
}

func (c *command) run(ctx context.Context, src, file string) int {
	pc := c.session.Execute(ctx, src, file, c.stdout)
	if c.failed(pc) {
		return ExitError
	}
	if err := c.printResult(pc.Result); err != nil {
		fmt.Fprintln(c.stderr, err)
		return ExitError
	}
	return ExitOK
}

// failed prints every error of pc against the source of its file.
func (c *command) failed(pc *pipeline.PipelineContext) bool {
	for _, de := range pc.Errors {
		diagnostics.Fprint(c.stderr, de, pc.SourceFor(de.File))
	}
	return len(pc.Errors) > 0
}

func (c *command) report(err error, src string) {
	diagnostics.Fprint(c.stderr, err, src)
}

// printResult mounts vdom trees on the selected host and prints any other
// non-void value.
func (c *command) printResult(v evaluator.Value) error {
	if node, ok := evaluator.NodeOf(v); ok {
		var host vdom.Host = &vdom.HTMLHost{W: c.stdout}
		if c.jsonOut {
			host = &vdom.JSONHost{W: c.stdout}
		}
		return host.Mount(node)
	}
	if v == nil || v == evaluator.Void {
		return nil
	}
	_, err := fmt.Fprintln(c.stdout, natives.Stringify(v))
	return err
}
