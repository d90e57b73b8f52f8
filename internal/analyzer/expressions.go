package analyzer

import (
	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/config"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/symbols"
	"github.com/funvibe/clasp/internal/typesystem"
)

// inferExpression types expr and records the result. expected, when
// non-nil, is the type the context wants; it only drives lambda parameter
// inference and generic construction, never acceptance.
func (a *Analyzer) inferExpression(expr ast.Expression, scope *symbols.SymbolTable, expected typesystem.Type) typesystem.Type {
	t := a.infer(expr, scope, expected)
	a.TypeMap[expr] = t
	return t
}

func (a *Analyzer) infer(expr ast.Expression, scope *symbols.SymbolTable, expected typesystem.Type) typesystem.Type {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return typesystem.Number
	case *ast.StringLiteral:
		return typesystem.String
	case *ast.BooleanLiteral:
		return typesystem.Boolean
	case *ast.NullLiteral:
		return typesystem.Null
	case *ast.Identifier:
		return a.inferIdentifier(e, scope)
	case *ast.ThisExpression:
		sym, ok := scope.Find(config.ThisName)
		if !ok {
			a.fail(diagnostics.ErrT001, e, "this is not available in a static context")
		}
		return sym.Type
	case *ast.SuperExpression:
		a.fail(diagnostics.ErrT007, e, "super must be called or followed by a member access")
	case *ast.UnaryExpression:
		return a.inferUnary(e, scope)
	case *ast.BinaryExpression:
		return a.inferBinary(e, scope)
	case *ast.AssignmentExpression:
		return a.inferAssignment(e, scope)
	case *ast.MemberExpression:
		return a.inferMember(e, scope)
	case *ast.IndexExpression:
		return a.callNamed(e.Object, config.IndexGetMethod, e, []ast.Expression{e.Index}, scope)
	case *ast.CallExpression:
		return a.inferCall(e, scope)
	case *ast.NewExpression:
		return a.inferNew(e, scope, expected)
	case *ast.ArrayLiteral:
		return a.inferArray(e, scope, expected)
	case *ast.LambdaExpression:
		return a.inferLambda(e, scope, expected)
	case *ast.VDomElement:
		a.checkVDom(e, scope)
		if t := a.builtinRef(config.VNodeClassName); t != nil {
			return t
		}
		return typesystem.Mixed
	default:
		a.fail(diagnostics.ErrT007, expr, "unsupported expression %T", expr)
	}
	return nil
}

func (a *Analyzer) inferIdentifier(id *ast.Identifier, scope *symbols.SymbolTable) typesystem.Type {
	if sym, ok := scope.Find(id.Value); ok {
		return sym.Type
	}
	if decl, ok := a.registry.Lookup(id.Value); ok {
		return &typesystem.StaticType{Decl: decl}
	}
	candidates := append(scope.Names(), a.registry.Names()...)
	a.fail(diagnostics.ErrT001, id, "undefined name %s%s", id.Value, suggest(id.Value, candidates))
	return nil
}

func (a *Analyzer) inferUnary(e *ast.UnaryExpression, scope *symbols.SymbolTable) typesystem.Type {
	t := a.inferExpression(e.Operand, scope, nil)
	want := typesystem.Number
	if e.Operator == "!" {
		want = typesystem.Boolean
	}
	if !want.Accepts(t) {
		a.fail(diagnostics.ErrT008, e, "operator %s needs %s, got %s", e.Operator, want, t)
	}
	return want
}

func (a *Analyzer) inferBinary(e *ast.BinaryExpression, scope *symbols.SymbolTable) typesystem.Type {
	left := a.inferExpression(e.Left, scope, nil)
	right := a.inferExpression(e.Right, scope, nil)
	mismatch := func() {
		a.fail(diagnostics.ErrT008, e, "operator %s cannot be applied to %s and %s", e.Operator, left, right)
	}
	num := func(t typesystem.Type) bool { return typesystem.Number.Accepts(t) }
	boolean := func(t typesystem.Type) bool { return typesystem.Boolean.Accepts(t) }

	switch e.Operator {
	case "+":
		if left == typesystem.String || right == typesystem.String {
			return typesystem.String
		}
		if num(left) && num(right) {
			return typesystem.Number
		}
	case "-", "*", "/", "%":
		if num(left) && num(right) {
			return typesystem.Number
		}
	case "<", ">", "<=", ">=":
		if num(left) && num(right) {
			return typesystem.Boolean
		}
	case "==", "!=":
		if left.Accepts(right) {
			return typesystem.Boolean
		}
	case "&&", "||":
		if boolean(left) && boolean(right) {
			return typesystem.Boolean
		}
	}
	mismatch()
	return nil
}

func (a *Analyzer) inferAssignment(e *ast.AssignmentExpression, scope *symbols.SymbolTable) typesystem.Type {
	var target typesystem.Type
	switch t := e.Target.(type) {
	case *ast.Identifier:
		sym, ok := scope.Find(t.Value)
		if !ok {
			a.inferIdentifier(t, scope)
			a.fail(diagnostics.ErrT002, t, "cannot assign to class %s", t.Value)
		}
		if sym.Kind == symbols.ThisSymbol {
			a.fail(diagnostics.ErrT002, t, "cannot assign to this")
		}
		target = sym.Type
		a.TypeMap[t] = target
	case *ast.MemberExpression:
		recv, ok := a.resolveReceiver(t.Object, scope)
		if !ok {
			target = typesystem.NewTypeVariable(t.Property.Value)
			break
		}
		m := a.lookupMember(recv, t.Property, scope)
		a.checkFieldAssignable(m, t.Property, scope)
		target = m.Type()
		a.TypeMap[t] = target
	case *ast.IndexExpression:
		a.callNamed(t.Object, config.IndexSetMethod, e, []ast.Expression{t.Index, e.Value}, scope)
		return a.TypeMap[e.Value]
	default:
		a.fail(diagnostics.ErrT002, e.Target, "invalid assignment target")
	}

	value := a.inferExpression(e.Value, scope, target)
	if !target.Accepts(value) {
		a.fail(diagnostics.ErrT002, e.Value, "cannot assign %s to %s", value, target)
	}
	return target
}

func (a *Analyzer) inferNew(e *ast.NewExpression, scope *symbols.SymbolTable, expected typesystem.Type) typesystem.Type {
	if e.Type.IsNullable() {
		a.fail(diagnostics.ErrT007, e.Type, "cannot instantiate nullable type %s", e.Type)
	}
	t := a.wrapType(e.Type, a.typeScope)
	ref, ok := t.(*typesystem.ClassRefType)
	if !ok {
		if _, isIface := t.(*typesystem.InterfaceRefType); isIface {
			a.fail(diagnostics.ErrT007, e.Type, "cannot instantiate interface %s", t)
		}
		name, _ := ast.TypeName(e.Type)
		a.fail(diagnostics.ErrT001, e.Type, "unknown class %s%s", e.Type, suggest(name, a.registry.Names()))
	}
	cls := ref.Decl.(*symbols.ClassSymbol)
	args := ref.Args
	if len(args) == 0 && len(cls.TypeParams) > 0 {
		args = a.argsFromExpected(cls, expected)
	}
	result := typesystem.NewRef(cls, args)

	ctor, ok := cls.LookupConstructor()
	if !ok {
		if len(e.Args) > 0 {
			a.fail(diagnostics.ErrT005, e, "%s takes no constructor arguments, got %d", cls.Name, len(e.Args))
		}
		return result
	}
	if ctor.IsPrivate() && !canSeePrivate(scope, ctor.Owner) {
		a.fail(diagnostics.ErrT004, e, "constructor of %s is private", ctor.Owner.DeclName())
	}
	view, _ := typesystem.AsAncestor(cls, args, ctor.Owner)
	a.checkArguments(cls.Name, ctor, typesystem.NewSubst(ctor.Owner.TypeParameters(), view), e.Args, e, scope)
	return result
}

// argsFromExpected takes type arguments for a raw generic construction from
// the expected type, or leaves them as fresh variables.
func (a *Analyzer) argsFromExpected(cls *symbols.ClassSymbol, expected typesystem.Type) []typesystem.Type {
	if expected != nil {
		inner, _ := typesystem.Unwrap(expected)
		if decl, eargs, ok := typesystem.RefParts(inner); ok && len(eargs) == len(cls.TypeParams) {
			if decl == typesystem.Nominal(cls) {
				return eargs
			}
		}
	}
	args := make([]typesystem.Type, len(cls.TypeParams))
	for i, tp := range cls.TypeParams {
		args[i] = typesystem.NewTypeVariable(tp.Name)
	}
	return args
}

func (a *Analyzer) inferArray(e *ast.ArrayLiteral, scope *symbols.SymbolTable, expected typesystem.Type) typesystem.Type {
	var elem typesystem.Type
	if expected != nil {
		inner, _ := typesystem.Unwrap(expected)
		if ref, ok := inner.(*typesystem.ClassRefType); ok && ref.Decl.DeclName() == config.ArrayClassName && len(ref.Args) == 1 {
			elem = ref.Args[0]
		}
	}
	declared := elem != nil
	for _, el := range e.Elements {
		t := a.inferExpression(el, scope, elem)
		switch {
		case elem == nil:
			elem = t
		case !elem.Accepts(t):
			if declared {
				a.fail(diagnostics.ErrT002, el, "array element %s is not assignable to %s", t, elem)
			}
			elem = typesystem.Mixed
		}
	}
	if elem == nil || elem == typesystem.Null {
		elem = typesystem.NewTypeVariable("T")
	}
	t := a.builtinRef(config.ArrayClassName, elem)
	if t == nil {
		a.fail(diagnostics.ErrT001, e, "array literals need the %s class", config.ArrayClassName)
	}
	return t
}

func (a *Analyzer) inferLambda(e *ast.LambdaExpression, scope *symbols.SymbolTable, expected typesystem.Type) typesystem.Type {
	var want *typesystem.LambdaType
	if expected != nil {
		inner, _ := typesystem.Unwrap(expected)
		if lt, ok := inner.(*typesystem.LambdaType); ok && len(lt.Params) == len(e.Params) {
			want = lt
		}
	}

	body := symbols.NewLambdaScope(scope)
	params := make([]typesystem.Type, len(e.Params))
	for i, p := range e.Params {
		switch {
		case p.Type != nil:
			params[i] = a.wrapType(p.Type, a.typeScope)
		case want != nil:
			params[i] = want.Params[i]
		default:
			params[i] = typesystem.NewTypeVariable(p.Name.Value)
		}
		if p.Default != nil {
			dt := a.inferExpression(p.Default, scope, params[i])
			if !params[i].Accepts(dt) {
				a.fail(diagnostics.ErrT002, p.Default, "default value of %s: expected %s, got %s", p.Name.Value, params[i], dt)
			}
		}
		body.Define(p.Name.Value, params[i], symbols.ParameterSymbolKind, p)
	}

	var ret typesystem.Type
	switch {
	case e.ReturnType != nil:
		ret = a.wrapType(e.ReturnType, a.typeScope)
	case want != nil:
		ret = want.Return
	}

	if e.BodyExpr != nil {
		bt := a.inferExpression(e.BodyExpr, body, ret)
		if ret == nil {
			ret = bt
		} else if ret != typesystem.Void && !ret.Accepts(bt) {
			a.fail(diagnostics.ErrT002, e.BodyExpr, "lambda returns %s; expected %s", bt, ret)
		}
	} else {
		if ret == nil {
			ret = typesystem.NewTypeVariable("R")
		}
		a.returns = append(a.returns, ret)
		a.checkBlock(e.BodyBlock, body)
		a.returns = a.returns[:len(a.returns)-1]
	}
	return &typesystem.LambdaType{Params: params, Return: ret}
}

func (a *Analyzer) checkVDom(el *ast.VDomElement, scope *symbols.SymbolTable) {
	for _, attr := range el.Attributes {
		if attr.Value != nil {
			a.inferExpression(attr.Value, scope, nil)
		}
	}
	for _, child := range el.Children {
		switch c := child.(type) {
		case *ast.VDomElement:
			a.inferExpression(c, scope, nil)
		case *ast.VDomExpression:
			a.inferExpression(c.Expr, scope, nil)
		}
	}
}
