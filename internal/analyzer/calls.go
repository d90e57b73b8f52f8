package analyzer

import (
	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/symbols"
	"github.com/funvibe/clasp/internal/typesystem"
)

func (a *Analyzer) inferCall(e *ast.CallExpression, scope *symbols.SymbolTable) typesystem.Type {
	switch callee := e.Callee.(type) {
	case *ast.SuperExpression:
		return a.inferSuperCall(e, callee, scope)
	case *ast.MemberExpression:
		recv, ok := a.resolveReceiver(callee.Object, scope)
		if !ok {
			a.inferLoose(e.Args, scope)
			return typesystem.NewTypeVariable(callee.Property.Value)
		}
		m := a.lookupMember(recv, callee.Property, scope)
		if m.method != nil {
			a.TypeMap[callee] = m.Type()
			return a.checkArguments(m.method.Name, m.method, m.subst, e.Args, e, scope)
		}
		// a field holding a lambda
		ft := m.Type()
		a.TypeMap[callee] = ft
		return a.callValue(ft, callee.Property.Value, e, scope)
	}

	ct := a.inferExpression(e.Callee, scope, nil)
	return a.callValue(ct, e.Callee.String(), e, scope)
}

// callValue calls a lambda-typed value.
func (a *Analyzer) callValue(t typesystem.Type, name string, e *ast.CallExpression, scope *symbols.SymbolTable) typesystem.Type {
	switch ft := t.(type) {
	case *typesystem.TypeVariable:
		a.inferLoose(e.Args, scope)
		return typesystem.NewTypeVariable("result")
	case *typesystem.LambdaType:
		if len(e.Args) != len(ft.Params) {
			a.fail(diagnostics.ErrT005, e, "%s expects %d arguments, got %d", name, len(ft.Params), len(e.Args))
		}
		for i, arg := range e.Args {
			a.checkArgument(arg, ft.Params[i], scope)
		}
		return ft.Return
	}
	a.fail(diagnostics.ErrT010, e.Callee, "%s of type %s is not callable", name, t)
	return nil
}

// inferSuperCall checks super(args): only inside a constructor, against the
// superclass constructor.
func (a *Analyzer) inferSuperCall(e *ast.CallExpression, callee *ast.SuperExpression, scope *symbols.SymbolTable) typesystem.Type {
	cls := scope.EnclosingClass()
	method := scope.EnclosingMethod()
	if cls == nil || method == nil || !method.IsConstructor || cls.Super == nil {
		a.fail(diagnostics.ErrT007, callee, "super(...) is only allowed in the constructor of a subclass")
	}
	a.TypeMap[callee] = cls.SuperRef
	ctor, ok := cls.Super.LookupConstructor()
	if !ok {
		if len(e.Args) > 0 {
			a.fail(diagnostics.ErrT005, e, "%s takes no constructor arguments, got %d", cls.Super.Name, len(e.Args))
		}
		return typesystem.Void
	}
	view, _ := typesystem.AsAncestor(cls.Super, cls.SuperRef.Args, ctor.Owner)
	a.checkArguments(cls.Super.Name, ctor, typesystem.NewSubst(ctor.Owner.TypeParameters(), view), e.Args, e, scope)
	return typesystem.Void
}

// callNamed calls method name on object with explicit arguments. Index
// expressions go through it as get and set.
func (a *Analyzer) callNamed(object ast.Expression, name string, node ast.Node, args []ast.Expression, scope *symbols.SymbolTable) typesystem.Type {
	recv, ok := a.resolveReceiver(object, scope)
	if !ok {
		a.inferLoose(args, scope)
		return typesystem.NewTypeVariable(name)
	}
	id := &ast.Identifier{Value: name}
	id.Token.Span = node.Span()
	m := a.lookupMember(recv, id, scope)
	if m.method == nil {
		a.fail(diagnostics.ErrT003, node, "%s does not support indexing", recv.decl.DeclName())
	}
	return a.checkArguments(name, m.method, m.subst, args, node, scope)
}

// checkArguments binds args positionally: the count must lie between the
// required and total parameter counts and each argument must be accepted
// by its parameter.
func (a *Analyzer) checkArguments(name string, method *symbols.MethodSymbol, subst typesystem.Subst, args []ast.Expression, node ast.Node, scope *symbols.SymbolTable) typesystem.Type {
	required, total := method.Required(), len(method.Params)
	if len(args) < required || len(args) > total {
		if required == total {
			a.fail(diagnostics.ErrT005, node, "%s expects %d arguments, got %d", name, total, len(args))
		}
		a.fail(diagnostics.ErrT005, node, "%s expects between %d and %d arguments, got %d", name, required, total, len(args))
	}
	for i, arg := range args {
		a.checkArgument(arg, method.Params[i].Type.Apply(subst), scope)
	}
	return method.Return.Apply(subst)
}

func (a *Analyzer) checkArgument(arg ast.Expression, param typesystem.Type, scope *symbols.SymbolTable) {
	t := a.inferExpression(arg, scope, param)
	if t == typesystem.Void {
		a.fail(diagnostics.ErrT002, arg, "cannot pass a void value")
	}
	if !param.Accepts(t) {
		a.fail(diagnostics.ErrT002, arg, "argument of type %s is not assignable to %s", t, param)
	}
}

func (a *Analyzer) inferLoose(args []ast.Expression, scope *symbols.SymbolTable) {
	for _, arg := range args {
		a.inferExpression(arg, scope, nil)
	}
}
