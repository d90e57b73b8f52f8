package analyzer

import (
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/symbols"
	"github.com/funvibe/clasp/internal/typesystem"
)

// checkConformance requires, for every implemented interface method without
// a default body, a same-name instance method of the same arity whose
// signature the interface accepts after substituting the implements
// arguments.
func (a *Analyzer) checkConformance(cls *symbols.ClassSymbol) {
	self := selfArgs(cls)
	for _, cur := range cls.Ancestors() {
		for _, ref := range cur.Interfaces {
			iface, ok := ref.Decl.(*symbols.InterfaceSymbol)
			if !ok {
				continue
			}
			view, _ := typesystem.AsAncestor(cls, self, iface)
			for _, im := range iface.AllMethods(view) {
				a.checkImplements(cls, iface, im)
			}
			for _, f := range iface.FieldOrder {
				if _, ok := cls.LookupField(f.Name); !ok {
					a.fail(diagnostics.ErrT006, cls.Decl, "class %s does not implement %s: missing field %s", cls.Name, iface.Name, f.Name)
				}
			}
		}
	}
}

func (a *Analyzer) checkImplements(cls *symbols.ClassSymbol, iface *symbols.InterfaceSymbol, im symbols.InheritedMethod) {
	want := im.Method.Signature().Apply(im.Subst).(*typesystem.LambdaType)
	m, ok := cls.LookupMethod(im.Method.Name)
	if !ok {
		if im.Method.Decl.Body != nil {
			return
		}
		a.fail(diagnostics.ErrT006, cls.Decl, "class %s does not implement %s: missing method %s", cls.Name, iface.Name, im.Method.Name)
	}
	if m.IsStatic() {
		a.fail(diagnostics.ErrT006, m.Decl, "method %s implementing %s must not be static", m.Name, iface.Name)
	}
	if len(m.Params) != len(want.Params) {
		a.fail(diagnostics.ErrT006, m.Decl, "method %s takes %d parameters, %s.%s takes %d",
			m.Name, len(m.Params), iface.Name, im.Method.Name, len(want.Params))
	}
	view, _ := typesystem.AsAncestor(cls, selfArgs(cls), m.Owner)
	got := m.Signature().Apply(typesystem.NewSubst(m.Owner.TypeParameters(), view))
	if !want.Accepts(got) {
		a.fail(diagnostics.ErrT006, m.Decl, "method %s has signature %s, %s requires %s", m.Name, got, iface.Name, want)
	}
}

func selfArgs(cls *symbols.ClassSymbol) []typesystem.Type {
	vars := cls.TypeParameters()
	if len(vars) == 0 {
		return nil
	}
	args := make([]typesystem.Type, len(vars))
	for i, v := range vars {
		args[i] = v
	}
	return args
}
