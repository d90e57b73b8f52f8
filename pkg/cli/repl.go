package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

const (
	replFile         = "<repl>"
	replPrompt       = "clasp> "
	replContinuation = "...... "
)

type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// scanPrompter reads lines from a non-terminal reader.
type scanPrompter struct {
	sc *bufio.Scanner
}

func (p *scanPrompter) Prompt(string) (string, error) {
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.sc.Text(), nil
}

func (p *scanPrompter) AppendHistory(string) {}

// repl keeps every accepted input and replays the whole program on each
// new one, printing only output not seen before. An input not ending in
// ; or } is evaluated as an expression and its value printed; it is not
// kept.
func (c *command) repl(ctx context.Context, stdin io.Reader) int {
	var in prompter
	if stdin == os.Stdin {
		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)
		in = line
	} else {
		in = &scanPrompter{sc: bufio.NewScanner(stdin)}
	}

	fmt.Fprintf(c.stdout, "clasp %s, :quit to exit\n", Version)
	var history []string
	seen := 0
	for {
		input, err := readInput(in)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintln(c.stderr, err)
				return ExitError
			}
			return ExitOK
		}
		input = strings.TrimSpace(input)
		switch input {
		case "":
			continue
		case ":quit", ":q":
			return ExitOK
		case ":reset":
			history, seen = nil, 0
			continue
		}
		in.AppendHistory(input)

		expr := !strings.HasSuffix(input, ";") && !strings.HasSuffix(input, "}")
		src := strings.Join(history, "\n")
		if expr {
			src += "\nreturn " + input + ";"
		} else {
			src += "\n" + input
		}

		var out bytes.Buffer
		pc := c.session.Execute(ctx, src, replFile, &out)
		if out.Len() > seen {
			c.stdout.Write(out.Bytes()[seen:])
		}
		if c.failed(pc) {
			continue
		}
		if expr {
			if err := c.printResult(pc.Result); err != nil {
				fmt.Fprintln(c.stderr, err)
			}
			continue
		}
		history = append(history, input)
		seen = out.Len()
	}
}

// readInput reads one line, continuing while braces are unbalanced.
func readInput(in prompter) (string, error) {
	var b strings.Builder
	prompt := replPrompt
	for {
		line, err := in.Prompt(prompt)
		if err != nil {
			if b.Len() > 0 && errors.Is(err, io.EOF) {
				return b.String(), nil
			}
			return "", err
		}
		b.WriteString(line)
		b.WriteByte('\n')
		if depth(b.String()) <= 0 {
			return b.String(), nil
		}
		prompt = replContinuation
	}
}

// depth counts unclosed braces outside string literals.
func depth(src string) int {
	n := 0
	var quote rune
	escaped := false
	for _, r := range src {
		switch {
		case escaped:
			escaped = false
		case quote != 0 && r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '{':
			n++
		case r == '}':
			n--
		}
	}
	return n
}
