package analyzer

import (
	"fmt"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/symbols"
	"github.com/funvibe/clasp/internal/token"
	"github.com/funvibe/clasp/internal/typesystem"
)

// Analyzer is the two-pass type checker. Pass 1 builds class and interface
// symbols; pass 2 checks statements and member bodies.
type Analyzer struct {
	registry *symbols.Registry
	globals  *symbols.SymbolTable
	logger   *zap.Logger
	program  *ast.Program
	file     string // file reported by errors

	// TypeMap records the inferred type of every checked expression.
	TypeMap map[ast.Expression]typesystem.Type

	declScopes map[symbols.Declaration]*symbols.TypeScope
	typeScope  *symbols.TypeScope
	returns    []typesystem.Type // expected return types, innermost last
	resolved   map[symbols.Declaration]bool
}

// Result is the outcome of a successful check. Types are erased.
type Result struct {
	Registry *symbols.Registry
	Types    map[ast.Expression]typesystem.Type
}

// bailout carries the first type error out of the walk.
type bailout struct {
	err *diagnostics.DiagnosticError
}

func New(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		registry:   symbols.NewRegistry(),
		globals:    symbols.NewSymbolTable(),
		logger:     logger,
		TypeMap:    make(map[ast.Expression]typesystem.Type),
		declScopes: make(map[symbols.Declaration]*symbols.TypeScope),
		resolved:   make(map[symbols.Declaration]bool),
	}
}

// Analyze checks program. Checking stops at the first error.
func (a *Analyzer) Analyze(program *ast.Program) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			result, err = nil, b.err
		}
	}()

	a.program = program
	a.file = program.File
	a.declare(program)
	a.checkBodies(program)

	types := make(map[ast.Expression]typesystem.Type, len(a.TypeMap))
	for expr, t := range a.TypeMap {
		types[expr] = typesystem.Erase(t)
	}
	a.logger.Debug("type check complete",
		zap.Int("declarations", len(a.registry.Declarations())),
		zap.Int("expressions", len(types)))
	return &Result{Registry: a.registry, Types: types}, nil
}

// Registry exposes the symbols built so far.
func (a *Analyzer) Registry() *symbols.Registry {
	return a.registry
}

func (a *Analyzer) fail(code diagnostics.ErrorCode, node ast.Node, format string, args ...any) {
	var span token.Span
	if node != nil {
		span = node.Span()
	}
	a.failAt(code, span, format, args...)
}

func (a *Analyzer) failAt(code diagnostics.ErrorCode, span token.Span, format string, args ...any) {
	err := diagnostics.NewError(diagnostics.TypeError, code, span, format, args...)
	err.File = a.file
	panic(bailout{err: err})
}

// inFile makes errors raised while checking stmt report its source file.
// The returned func restores the previous file.
func (a *Analyzer) inFile(stmt ast.Statement) func() {
	saved := a.file
	a.file = a.program.FileOf(stmt)
	return func() { a.file = saved }
}

// suggest returns a " (did you mean x?)" suffix for the closest candidate.
func suggest(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		if c == name {
			continue
		}
		d := levenshtein.ComputeDistance(name, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := len(name) / 2
	if limit < 1 {
		limit = 1
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}
