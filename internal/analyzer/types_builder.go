package analyzer

import (
	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/config"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/symbols"
	"github.com/funvibe/clasp/internal/typesystem"
)

// wrapType resolves an annotation in the given type scope. Names resolve in
// order: type parameters in scope, declared classes and interfaces,
// primitives. Any other bare name becomes a fresh permissive type variable.
func (a *Analyzer) wrapType(node ast.TypeNode, ts *symbols.TypeScope) typesystem.Type {
	var t typesystem.Type
	switch n := node.(type) {
	case *ast.SimpleType:
		t = a.resolveNamedType(n, n.Name, nil, ts)
	case *ast.GenericType:
		args := make([]typesystem.Type, len(n.Args))
		for i, arg := range n.Args {
			args[i] = a.wrapType(arg, ts)
		}
		t = a.resolveNamedType(n, n.Name, args, ts)
	case *ast.LambdaTypeNode:
		params := make([]typesystem.Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = a.wrapType(p, ts)
		}
		t = &typesystem.LambdaType{Params: params, Return: a.wrapType(n.Return, ts)}
	default:
		a.fail(diagnostics.ErrT007, node, "unsupported type annotation")
	}
	if node.IsNullable() {
		t = typesystem.NewNullable(t)
	}
	return t
}

func (a *Analyzer) resolveNamedType(node ast.TypeNode, name string, args []typesystem.Type, ts *symbols.TypeScope) typesystem.Type {
	if ts != nil {
		if tv, ok := ts.Resolve(name); ok {
			if len(args) > 0 {
				a.fail(diagnostics.ErrT007, node, "type parameter %s does not take type arguments", name)
			}
			return tv
		}
	}
	if decl, ok := a.registry.Lookup(name); ok {
		params := decl.TypeParameters()
		if len(args) > 0 && len(args) != len(params) {
			a.fail(diagnostics.ErrT007, node, "%s expects %d type arguments, got %d", name, len(params), len(args))
		}
		return typesystem.NewRef(decl, args)
	}
	if prim := primitiveType(name); prim != nil {
		if len(args) > 0 {
			a.fail(diagnostics.ErrT007, node, "%s does not take type arguments", name)
		}
		return prim
	}
	return typesystem.NewTypeVariable(name)
}

func primitiveType(name string) typesystem.Type {
	switch name {
	case config.NumberTypeName:
		return typesystem.Number
	case config.StringTypeName:
		return typesystem.String
	case config.BooleanTypeName:
		return typesystem.Boolean
	case config.VoidTypeName:
		return typesystem.Void
	case config.MixedTypeName:
		return typesystem.Mixed
	}
	return nil
}

// typeOrFresh resolves an optional annotation, defaulting to a fresh
// permissive variable.
func (a *Analyzer) typeOrFresh(node ast.TypeNode, ts *symbols.TypeScope, name string) typesystem.Type {
	if node == nil {
		return typesystem.NewTypeVariable(name)
	}
	return a.wrapType(node, ts)
}

// builtinRef returns the named prelude class applied to args, or nil when
// the program does not declare it.
func (a *Analyzer) builtinRef(name string, args ...typesystem.Type) typesystem.Type {
	cls, ok := a.registry.Class(name)
	if !ok {
		return nil
	}
	if len(args) > 0 && len(args) != len(cls.TypeParams) {
		args = nil
	}
	return typesystem.NewRef(cls, args)
}

// boxed maps primitive types to their boxed class symbols.
func (a *Analyzer) boxed(t typesystem.Type) (*symbols.ClassSymbol, bool) {
	var name string
	switch t {
	case typesystem.Number:
		name = config.NumberClassName
	case typesystem.String:
		name = config.StringClassName
	case typesystem.Boolean:
		name = config.BooleanClassName
	default:
		return nil, false
	}
	return a.registry.Class(name)
}
