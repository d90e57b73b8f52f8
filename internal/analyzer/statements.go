package analyzer

import (
	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/config"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/symbols"
	"github.com/funvibe/clasp/internal/typesystem"
)

// checkBodies is pass 2: top-level statements, interface default bodies,
// then every class.
func (a *Analyzer) checkBodies(program *ast.Program) {
	a.returns = append(a.returns[:0], typesystem.NewTypeVariable("return"))
	for _, stmt := range program.Statements {
		switch stmt.(type) {
		case *ast.ClassDeclaration, *ast.InterfaceDeclaration, *ast.ImportStatement:
			continue
		}
		a.file = program.FileOf(stmt)
		a.checkStatement(stmt, a.globals)
	}
	a.returns = a.returns[:0]

	for _, decl := range a.registry.Declarations() {
		if iface, ok := decl.(*symbols.InterfaceSymbol); ok {
			a.checkInterface(iface)
		}
	}
	for _, decl := range a.registry.Declarations() {
		if cls, ok := decl.(*symbols.ClassSymbol); ok {
			a.checkClass(cls)
		}
	}
}

func (a *Analyzer) checkInterface(iface *symbols.InterfaceSymbol) {
	defer a.inFile(iface.Decl)()
	scope := symbols.NewInterfaceScope(a.globals, iface)
	for _, m := range iface.MethodOrder {
		if m.Decl.Body != nil {
			a.checkMethodBody(m, scope)
		}
	}
}

func (a *Analyzer) checkClass(cls *symbols.ClassSymbol) {
	defer a.inFile(cls.Decl)()
	a.checkConformance(cls)

	for _, f := range cls.FieldOrder {
		if f.Decl.Init == nil || f.Decl.Type == nil {
			continue
		}
		scope := symbols.NewClassScope(a.globals, cls, f.IsStatic())
		t := a.withTypeScope(a.declScopes[cls], func() typesystem.Type {
			return a.inferExpression(f.Decl.Init, scope, f.Type)
		})
		if !f.Type.Accepts(t) {
			a.fail(diagnostics.ErrT002, f.Decl.Init, "field %s: expected %s, got %s", f.Name, f.Type, t)
		}
	}

	for _, m := range cls.MethodOrder {
		if m.Decl.Body == nil {
			continue
		}
		a.checkMethodBody(m, symbols.NewClassScope(a.globals, cls, m.IsStatic()))
	}
}

func (a *Analyzer) checkMethodBody(m *symbols.MethodSymbol, classScope *symbols.SymbolTable) {
	ts := symbols.NewTypeScope(a.declScopes[m.Owner])
	for _, tp := range m.TypeParams {
		ts.Bind(tp.Name, tp.Var)
	}
	saved := a.typeScope
	a.typeScope = ts
	defer func() { a.typeScope = saved }()

	scope := symbols.NewMethodScope(classScope, m)
	for _, p := range m.Params {
		scope.Define(p.Name, p.Type, symbols.ParameterSymbolKind, p.Decl)
	}
	a.returns = append(a.returns, m.Return)
	a.checkBlock(m.Decl.Body, scope)
	a.returns = a.returns[:len(a.returns)-1]
}

func (a *Analyzer) checkBlock(block *ast.BlockStatement, outer *symbols.SymbolTable) {
	scope := symbols.NewEnclosedSymbolTable(outer, symbols.ScopeBlock)
	for _, stmt := range block.Statements {
		a.checkStatement(stmt, scope)
	}
}

func (a *Analyzer) checkStatement(stmt ast.Statement, scope *symbols.SymbolTable) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		a.inferExpression(s.Expression, scope, nil)
	case *ast.LetStatement:
		a.checkLet(s, scope)
	case *ast.BlockStatement:
		a.checkBlock(s, scope)
	case *ast.IfStatement:
		a.checkCondition(s.Condition, scope)
		a.checkBlock(s.Then, scope)
		if s.Else != nil {
			a.checkStatement(s.Else, scope)
		}
	case *ast.MatchStatement:
		a.checkMatch(s, scope)
	case *ast.ForeachStatement:
		a.checkForeach(s, scope)
	case *ast.ReturnStatement:
		a.checkReturn(s, scope)
	case *ast.ClassDeclaration, *ast.InterfaceDeclaration:
		a.fail(diagnostics.ErrT007, stmt, "type declarations are only allowed at the top level")
	case *ast.ImportStatement:
		a.fail(diagnostics.ErrT007, stmt, "imports are only allowed at the top level")
	default:
		a.fail(diagnostics.ErrT007, stmt, "unsupported statement %T", stmt)
	}
}

func (a *Analyzer) checkLet(s *ast.LetStatement, scope *symbols.SymbolTable) {
	name := s.Name.Value
	if scope.IsDefinedLocally(name) {
		a.fail(diagnostics.ErrT007, s.Name, "%s is already declared in this scope", name)
	}
	var declared typesystem.Type
	if s.Type != nil {
		declared = a.wrapType(s.Type, a.typeScope)
	}
	t := declared
	if s.Value != nil {
		vt := a.inferExpression(s.Value, scope, declared)
		if vt == typesystem.Void {
			a.fail(diagnostics.ErrT002, s.Value, "cannot assign a void value to %s", name)
		}
		switch {
		case declared != nil:
			if !declared.Accepts(vt) {
				a.fail(diagnostics.ErrT002, s.Value, "cannot assign %s to %s of type %s", vt, name, declared)
			}
		case vt == typesystem.Null:
			t = typesystem.NewNullable(typesystem.NewTypeVariable(name))
		default:
			t = vt
		}
	}
	if t == nil {
		t = typesystem.Mixed
	}
	scope.Define(name, t, symbols.VariableSymbol, s)
}

func (a *Analyzer) checkCondition(cond ast.Expression, scope *symbols.SymbolTable) {
	t := a.inferExpression(cond, scope, typesystem.Boolean)
	if !typesystem.Boolean.Accepts(t) {
		a.fail(diagnostics.ErrT002, cond, "condition must be boolean, got %s", t)
	}
}

func (a *Analyzer) checkMatch(s *ast.MatchStatement, scope *symbols.SymbolTable) {
	subject := a.inferExpression(s.Subject, scope, nil)
	for _, c := range s.Cases {
		ct := a.inferExpression(c.Value, scope, subject)
		if !subject.Accepts(ct) {
			a.fail(diagnostics.ErrT002, c.Value, "case of type %s cannot match a subject of type %s", ct, subject)
		}
		a.checkBlock(c.Body, scope)
	}
	if s.Default != nil {
		a.checkBlock(s.Default, scope)
	}
}

func (a *Analyzer) checkForeach(s *ast.ForeachStatement, scope *symbols.SymbolTable) {
	iterable := a.inferExpression(s.Iterable, scope, nil)
	elem := a.elementType(iterable, s.Iterable)
	loop := symbols.NewEnclosedSymbolTable(scope, symbols.ScopeBlock)
	loop.Define(s.Variable.Value, elem, symbols.VariableSymbol, s.Variable)
	a.checkBlock(s.Body, loop)
}

// elementType requires Array<T> with exactly one argument and returns T.
func (a *Analyzer) elementType(t typesystem.Type, node ast.Node) typesystem.Type {
	if _, ok := t.(*typesystem.TypeVariable); ok {
		return typesystem.NewTypeVariable("E")
	}
	if ref, ok := t.(*typesystem.ClassRefType); ok && ref.Decl.DeclName() == config.ArrayClassName {
		if len(ref.Args) == 1 {
			return ref.Args[0]
		}
		a.fail(diagnostics.ErrT009, node, "cannot iterate over raw %s; element type unknown", t)
	}
	if cls, ok := a.boxed(t); ok {
		a.fail(diagnostics.ErrT009, node, "cannot iterate over %s (%s is not an Array)", t, cls.Name)
	}
	a.fail(diagnostics.ErrT009, node, "cannot iterate over %s", t)
	return nil
}

func (a *Analyzer) checkReturn(s *ast.ReturnStatement, scope *symbols.SymbolTable) {
	expected := a.returns[len(a.returns)-1]
	if s.Value == nil {
		if expected != typesystem.Void && !isPermissive(expected) {
			a.fail(diagnostics.ErrT002, s, "missing return value of type %s", expected)
		}
		return
	}
	if expected == typesystem.Void {
		a.fail(diagnostics.ErrT002, s.Value, "void method cannot return a value")
	}
	t := a.inferExpression(s.Value, scope, expected)
	if !expected.Accepts(t) {
		a.fail(diagnostics.ErrT002, s.Value, "cannot return %s; expected %s", t, expected)
	}
}

func isPermissive(t typesystem.Type) bool {
	switch t.(type) {
	case *typesystem.TypeVariable, *typesystem.MixedType:
		return true
	}
	return false
}
