package analyzer

import (
	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/config"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/symbols"
	"github.com/funvibe/clasp/internal/typesystem"
)

// declare is pass 1: every top-level class and interface is registered
// first so declarations may refer to each other in any order.
func (a *Analyzer) declare(program *ast.Program) {
	var decls []symbols.Declaration
	for _, stmt := range program.Statements {
		var decl symbols.Declaration
		var created bool
		switch s := stmt.(type) {
		case *ast.ClassDeclaration:
			decl, created = a.registry.RegisterClass(s)
		case *ast.InterfaceDeclaration:
			decl, created = a.registry.RegisterInterface(s)
		default:
			continue
		}
		if !created {
			a.file = program.FileOf(stmt)
			if decl.Node() != stmt {
				a.fail(diagnostics.ErrT007, stmt, "%s is already declared", decl.DeclName())
			}
			continue
		}
		ts := symbols.NewTypeScope(nil)
		for _, tv := range decl.TypeParameters() {
			ts.Bind(tv.Name, tv)
		}
		a.declScopes[decl] = ts
		decls = append(decls, decl)
	}

	for _, decl := range decls {
		a.resolveHeader(decl)
	}
	for _, decl := range decls {
		a.checkAcyclic(decl)
	}
	for _, decl := range decls {
		a.resolveMembers(decl)
	}
	for _, decl := range decls {
		a.resolveDefaults(decl)
	}
	a.logger.Debug("declarations resolved")
}

func (a *Analyzer) resolveHeader(decl symbols.Declaration) {
	defer a.inFile(decl.Node())()
	ts := a.declScopes[decl]
	switch d := decl.(type) {
	case *symbols.ClassSymbol:
		if d.Decl.Extends != nil {
			ref, ok := a.wrapType(d.Decl.Extends, ts).(*typesystem.ClassRefType)
			if !ok || d.Decl.Extends.IsNullable() {
				a.fail(diagnostics.ErrT007, d.Decl.Extends, "class %s can only extend a class, got %s", d.Name, d.Decl.Extends)
			}
			d.SuperRef = ref
			d.Super = ref.Decl.(*symbols.ClassSymbol)
		}
		for _, node := range d.Decl.Implements {
			ref, ok := a.wrapType(node, ts).(*typesystem.InterfaceRefType)
			if !ok {
				a.fail(diagnostics.ErrT007, node, "class %s can only implement interfaces, got %s", d.Name, node)
			}
			d.Interfaces = append(d.Interfaces, ref)
		}
	case *symbols.InterfaceSymbol:
		for _, node := range d.Decl.Extends {
			ref, ok := a.wrapType(node, ts).(*typesystem.InterfaceRefType)
			if !ok {
				a.fail(diagnostics.ErrT007, node, "interface %s can only extend interfaces, got %s", d.Name, node)
			}
			d.Extends = append(d.Extends, ref)
		}
	}
}

// checkAcyclic rejects a declaration that inherits from itself.
func (a *Analyzer) checkAcyclic(decl symbols.Declaration) {
	defer a.inFile(decl.Node())()
	var visit func(d typesystem.Nominal, path map[typesystem.Nominal]bool)
	visit = func(d typesystem.Nominal, path map[typesystem.Nominal]bool) {
		if path[d] {
			a.fail(diagnostics.ErrT007, decl.Node(), "cyclic inheritance involving %s", decl.DeclName())
		}
		path[d] = true
		for _, super := range d.Supertypes() {
			if sd, _, ok := typesystem.RefParts(super); ok {
				visit(sd, path)
			}
		}
		delete(path, d)
	}
	visit(decl, make(map[typesystem.Nominal]bool))
}

// resolveMembers builds field and method symbols. A superclass is always
// resolved before its subclasses.
func (a *Analyzer) resolveMembers(decl symbols.Declaration) {
	if a.resolved[decl] {
		return
	}
	a.resolved[decl] = true
	defer a.inFile(decl.Node())()
	ts := a.declScopes[decl]

	var fields []*ast.FieldDeclaration
	var methods []*ast.MethodDeclaration
	native := false
	switch d := decl.(type) {
	case *symbols.ClassSymbol:
		if d.Super != nil {
			a.resolveMembers(d.Super)
		}
		fields, methods, native = d.Decl.Fields, d.Decl.Methods, d.Native
	case *symbols.InterfaceSymbol:
		fields, methods = d.Decl.Fields, d.Decl.Methods
	}
	adder := decl.(interface {
		AddField(*symbols.FieldSymbol)
		AddMethod(*symbols.MethodSymbol)
	})

	for _, f := range fields {
		field := &symbols.FieldSymbol{Name: f.Name.Value, Modifiers: f.Modifiers, Owner: decl, Decl: f}
		if f.Type != nil {
			field.Type = a.wrapType(f.Type, ts)
		}
		adder.AddField(field)
	}

	for _, m := range methods {
		method := &symbols.MethodSymbol{
			Name:          m.Name.Value,
			Modifiers:     m.Modifiers,
			IsConstructor: m.IsConstructor,
			Owner:         decl,
			Decl:          m,
		}
		if m.IsConstructor && m.Modifiers.Has(ast.ModStatic) {
			a.fail(diagnostics.ErrT007, m, "constructor cannot be static")
		}
		if m.IsConstructor && len(m.TypeParams) > 0 {
			a.fail(diagnostics.ErrT007, m, "constructor cannot declare type parameters")
		}
		methodScope := symbols.NewTypeScope(ts)
		for _, id := range m.TypeParams {
			tp := &symbols.TypeParameterSymbol{Name: id.Value, Var: typesystem.NewTypeVariable(id.Value)}
			method.TypeParams = append(method.TypeParams, tp)
			methodScope.Bind(tp.Name, tp.Var)
		}
		seenDefault := false
		for _, p := range m.Params {
			if p.Default == nil && seenDefault {
				a.fail(diagnostics.ErrT007, p, "parameter %s without default follows a parameter with default", p.Name.Value)
			}
			seenDefault = seenDefault || p.Default != nil
			method.Params = append(method.Params, &symbols.ParameterSymbol{
				Name: p.Name.Value,
				Type: a.typeOrFresh(p.Type, methodScope, p.Name.Value),
				Decl: p,
			})
		}
		switch {
		case m.IsConstructor:
			if m.ReturnType != nil {
				a.fail(diagnostics.ErrT007, m.ReturnType, "constructor cannot declare a return type")
			}
			method.Return = typesystem.Void
		case m.ReturnType != nil:
			method.Return = a.wrapType(m.ReturnType, methodScope)
		default:
			method.Return = typesystem.Void
		}
		if m.Body == nil && !decl.IsInterface() && !native && !ast.HasAnnotation(m.Annotations, config.NativeAnnotation) {
			a.fail(diagnostics.ErrT007, m, "method %s of class %s must have a body", method.Name, decl.DeclName())
		}
		adder.AddMethod(method)
	}
}

// resolveDefaults infers default parameter values and unannotated field
// initialisers once every signature is known.
func (a *Analyzer) resolveDefaults(decl symbols.Declaration) {
	defer a.inFile(decl.Node())()
	var scope *symbols.SymbolTable
	switch d := decl.(type) {
	case *symbols.ClassSymbol:
		scope = symbols.NewClassScope(a.globals, d, true)
		for _, f := range d.FieldOrder {
			if f.Type != nil {
				continue
			}
			if f.Decl.Init == nil {
				f.Type = typesystem.Mixed
				continue
			}
			fieldScope := symbols.NewClassScope(a.globals, d, f.IsStatic())
			t := a.withTypeScope(a.declScopes[decl], func() typesystem.Type {
				return a.inferExpression(f.Decl.Init, fieldScope, nil)
			})
			if t == typesystem.Null {
				t = typesystem.NewNullable(typesystem.NewTypeVariable(f.Name))
			}
			f.Type = t
		}
	case *symbols.InterfaceSymbol:
		scope = symbols.NewInterfaceScope(a.globals, d)
		for _, f := range d.FieldOrder {
			if f.Type == nil {
				f.Type = typesystem.Mixed
			}
		}
	}

	owner := decl.(interface{ OwnMethod(string) (*symbols.MethodSymbol, bool) })
	for _, name := range methodNames(decl) {
		method, _ := owner.OwnMethod(name)
		ts := symbols.NewTypeScope(a.declScopes[decl])
		for _, tp := range method.TypeParams {
			ts.Bind(tp.Name, tp.Var)
		}
		for _, p := range method.Params {
			if p.Decl.Default == nil {
				continue
			}
			p.DefaultType = a.withTypeScope(ts, func() typesystem.Type {
				return a.inferExpression(p.Decl.Default, scope, p.Type)
			})
			if !p.Type.Accepts(p.DefaultType) {
				a.fail(diagnostics.ErrT002, p.Decl.Default, "default value of %s: expected %s, got %s", p.Name, p.Type, p.DefaultType)
			}
		}
	}
}

func methodNames(decl symbols.Declaration) []string {
	var order []*symbols.MethodSymbol
	switch d := decl.(type) {
	case *symbols.ClassSymbol:
		order = d.MethodOrder
	case *symbols.InterfaceSymbol:
		order = d.MethodOrder
	}
	names := make([]string, len(order))
	for i, m := range order {
		names[i] = m.Name
	}
	return names
}

func (a *Analyzer) withTypeScope(ts *symbols.TypeScope, fn func() typesystem.Type) typesystem.Type {
	saved := a.typeScope
	a.typeScope = ts
	defer func() { a.typeScope = saved }()
	return fn()
}
