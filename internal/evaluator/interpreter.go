package evaluator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/natives"
	"github.com/funvibe/clasp/internal/token"
)

// MaxCallDepth bounds script recursion.
const MaxCallDepth = 5000

// callFrame is the method context of an executing body.
type callFrame struct {
	method *MethodDefinition
	owner  *ClassDefinition // class declaring the executing method
	this   Value
}

// Interpreter walks a checked program. One interpreter runs one program at
// a time.
type Interpreter struct {
	natives *natives.Registry
	logger  *zap.Logger

	env        *Environment
	program    *ast.Program
	decls      map[string]ast.Statement
	classes    map[string]*ClassDefinition
	interfaces map[string]*InterfaceDefinition

	ctx   context.Context
	calls []*callFrame
	file  string
}

func New(registry *natives.Registry, logger *zap.Logger) *Interpreter {
	if registry == nil {
		registry = natives.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpreter{natives: registry, logger: logger, ctx: context.Background()}
}

// Load prepares program for Run and Invoke. Class definitions are built
// lazily on first use.
func (in *Interpreter) Load(program *ast.Program) {
	in.program = program
	in.env = NewEnvironment()
	in.decls = make(map[string]ast.Statement)
	in.classes = make(map[string]*ClassDefinition)
	in.interfaces = make(map[string]*InterfaceDefinition)
	in.calls = nil
	for _, stmt := range program.Statements {
		switch d := stmt.(type) {
		case *ast.ClassDeclaration:
			in.decls[d.Name.Value] = d
		case *ast.InterfaceDeclaration:
			in.decls[d.Name.Value] = d
		}
	}
}

// Run loads program and executes its top-level statements. A top-level
// return ends the program with its value; otherwise the result is Void.
func (in *Interpreter) Run(ctx context.Context, program *ast.Program) (result Value, err error) {
	in.Load(program)
	in.ctx = ctx
	defer in.recoverPanic(&err)

	global := in.env.Global()
	for _, stmt := range program.Statements {
		switch stmt.(type) {
		case *ast.ClassDeclaration, *ast.InterfaceDeclaration, *ast.ImportStatement:
			continue
		}
		in.file = program.FileOf(stmt)
		out, err := in.execStatement(stmt, global)
		if err != nil {
			return nil, err
		}
		if out.Kind == Return {
			return out.Value, nil
		}
	}
	return Void, nil
}

// HasMethod reports whether class name declares or inherits method.
func (in *Interpreter) HasMethod(class, method string) bool {
	if _, ok := in.decls[class].(*ast.ClassDeclaration); !ok {
		return false
	}
	def, err := in.classDef(class, nil)
	if err != nil {
		return false
	}
	_, ok := def.FindMethod(method)
	return ok
}

// Invoke calls class.method with args after Run. Static methods are called
// on the class; instance methods on a fresh instance built without
// constructor arguments.
func (in *Interpreter) Invoke(ctx context.Context, class, method string, args ...Value) (result Value, err error) {
	if in.program == nil {
		return nil, diagnostics.NewError(diagnostics.RuntimeError, diagnostics.ErrR001, zeroSpan, "no program loaded")
	}
	in.ctx = ctx
	defer in.recoverPanic(&err)

	def, err := in.classDef(class, nil)
	if err != nil {
		return nil, err
	}
	m, ok := def.FindMethod(method)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR002, def.Decl, "%s has no method %s", class, method)
	}
	if m.IsStatic() {
		return in.callMethod(&ClassValue{Class: def}, method, args, def.Decl)
	}
	obj, err := in.instantiate(def, nil, def.Decl)
	if err != nil {
		return nil, err
	}
	return in.callMethod(obj, method, args, def.Decl)
}

func (in *Interpreter) recoverPanic(err *error) {
	r := recover()
	if r == nil {
		return
	}
	in.logger.Error("interpreter panic", zap.Any("panic", r))
	*err = &diagnostics.DiagnosticError{
		Kind:    diagnostics.InternalError,
		Code:    diagnostics.ErrI001,
		Message: fmt.Sprintf("internal error: %v", r),
		File:    in.file,
	}
}

// checkContext is called at statement boundaries.
func (in *Interpreter) checkContext(node ast.Node) error {
	if in.ctx == nil {
		return nil
	}
	if err := in.ctx.Err(); err != nil {
		de := in.errorf(diagnostics.ErrR006, node, "execution cancelled")
		de.Cause = err
		return de
	}
	return nil
}

func (in *Interpreter) errorf(code diagnostics.ErrorCode, node ast.Node, format string, args ...any) *diagnostics.DiagnosticError {
	de := diagnostics.NewError(diagnostics.RuntimeError, code, spanOf(node), format, args...)
	de.File = in.file
	return de
}

func (in *Interpreter) nativeErrorf(node ast.Node, format string, args ...any) *diagnostics.DiagnosticError {
	de := diagnostics.NewError(diagnostics.NativeError, diagnostics.ErrN001, spanOf(node), format, args...)
	de.File = in.file
	return de
}

// nativeError wraps a host failure, keeping diagnostics raised by script
// callbacks intact.
func (in *Interpreter) nativeError(node ast.Node, name string, err error) error {
	var de *diagnostics.DiagnosticError
	if errors.As(err, &de) {
		return de
	}
	out := in.nativeErrorf(node, "%s: %v", name, err)
	out.Cause = err
	return out
}

func (in *Interpreter) current() *callFrame {
	if len(in.calls) == 0 {
		return nil
	}
	return in.calls[len(in.calls)-1]
}

// enterFile switches error attribution to the file declaring cls and
// returns the restore function.
func (in *Interpreter) enterFile(cls *ClassDefinition) func() {
	saved := in.file
	if cls != nil && in.program != nil {
		in.file = in.program.FileOf(cls.Decl)
	}
	return func() { in.file = saved }
}

func zapName(name string) zap.Field { return zap.String("class", name) }

var zeroSpan token.Span

func spanOf(node ast.Node) token.Span {
	if node == nil {
		return zeroSpan
	}
	return node.Span()
}
