package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	colorRed   = "\x1b[31m"
	colorBold  = "\x1b[1m"
	colorReset = "\x1b[0m"
)

// Format renders err with source context:
//
//	[Kind] message
//	at <file>:<line>:<column>
//	<source line>
//	    ^^^^
//
// Errors that are not diagnostics are rendered as InternalError.
func Format(err error, source string) string {
	return format(err, source, false)
}

// Fprint writes the formatted error to w, colouring it when w is a terminal.
func Fprint(w io.Writer, err error, source string) {
	fmt.Fprintln(w, format(err, source, isTerminal(w)))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func format(err error, source string, color bool) string {
	de, ok := As(err)
	if !ok {
		de = &DiagnosticError{Kind: InternalError, Code: ErrI001, Message: err.Error()}
	}

	var sb strings.Builder
	header := fmt.Sprintf("[%s] %s", de.Kind, de.Message)
	if color {
		header = colorBold + colorRed + "[" + string(de.Kind) + "]" + colorReset + colorBold + " " + de.Message + colorReset
	}
	sb.WriteString(header)

	if de.Span.Line == 0 {
		return sb.String()
	}
	file := de.File
	if file == "" {
		file = "<input>"
	}
	fmt.Fprintf(&sb, "\nat %s:%d:%d", file, de.Span.Line, de.Span.Column)

	line, lineStart, ok := sourceLine(source, de.Span.Line)
	if !ok {
		return sb.String()
	}
	sb.WriteString("\n")
	sb.WriteString(line)
	sb.WriteString("\n")

	col := de.Span.Column - 1
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}
	width := de.Span.End - de.Span.Start
	// Clip the underline to the reported line.
	if de.Span.Start >= lineStart && de.Span.Start-lineStart+width > len(line) {
		width = len(line) - (de.Span.Start - lineStart)
	}
	if width < 1 {
		width = 1
	}
	pad := make([]byte, col)
	for i := range pad {
		// keep tabs so the caret lines up with the source
		if i < len(line) && line[i] == '\t' {
			pad[i] = '\t'
		} else {
			pad[i] = ' '
		}
	}
	carets := strings.Repeat("^", width)
	if color {
		carets = colorRed + carets + colorReset
	}
	sb.Write(pad)
	sb.WriteString(carets)
	return sb.String()
}

// sourceLine returns the 1-based line n of source and its byte offset.
func sourceLine(source string, n int) (string, int, bool) {
	if n < 1 {
		return "", 0, false
	}
	start := 0
	for i := 1; i < n; i++ {
		idx := strings.IndexByte(source[start:], '\n')
		if idx < 0 {
			return "", 0, false
		}
		start += idx + 1
	}
	end := strings.IndexByte(source[start:], '\n')
	if end < 0 {
		return strings.TrimRight(source[start:], "\r"), start, true
	}
	return strings.TrimRight(source[start:start+end], "\r"), start, true
}
