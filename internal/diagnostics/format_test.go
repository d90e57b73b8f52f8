package diagnostics

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/funvibe/clasp/internal/token"
)

func TestFormatUnderlinesSpan(t *testing.T) {
	src := "let a = 1;\nlet b = a + \"x\" * 2;\n"
	// `"x" * 2` starts at column 13 of line 2
	start := strings.Index(src, "\"x\" * 2")
	err := NewError(TypeError, ErrT008, token.Span{Start: start, End: start + 7, Line: 2, Column: 13}, "operator '*' needs numbers")
	err.File = "main.clasp"

	got := Format(err, src)
	want := strings.Join([]string{
		"[TypeError] operator '*' needs numbers",
		"at main.clasp:2:13",
		"let b = a + \"x\" * 2;",
		"            ^^^^^^^",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected format:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatClipsUnderlineToLine(t *testing.T) {
	src := "class Foo { bar("
	err := NewError(ParserError, ErrP003, token.Span{Start: 5, End: 40, Line: 1, Column: 6}, "unexpected end of input")
	lines := strings.Split(Format(err, src), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), lines)
	}
	if got := strings.Count(lines[3], "^"); got != len(src)-5 {
		t.Errorf("expected underline of %d carets, got %d", len(src)-5, got)
	}
}

func TestFormatWithoutSpan(t *testing.T) {
	err := NewError(DependencyError, ErrD001, token.Span{}, "module %q not found", "lib/x")
	if got := Format(err, ""); got != `[DependencyError] module "lib/x" not found` {
		t.Errorf("unexpected format: %q", got)
	}
}

func TestFormatPlainErrorIsInternal(t *testing.T) {
	got := Format(errors.New("boom"), "")
	if got != "[InternalError] boom" {
		t.Errorf("unexpected format: %q", got)
	}
}

func TestWrapKeepsExistingDiagnostic(t *testing.T) {
	inner := NewError(NativeError, ErrN001, token.Span{Line: 3, Column: 1}, "host failed")
	wrapped := fmt.Errorf("calling push: %w", inner)
	de := Wrap(RuntimeError, ErrR001, token.Span{}, wrapped)
	if de.Kind != NativeError {
		t.Errorf("expected NativeError to survive wrapping, got %s", de.Kind)
	}
	if !IsKind(wrapped, NativeError) {
		t.Errorf("IsKind should see through fmt.Errorf wrapping")
	}
}
