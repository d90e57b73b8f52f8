package symbols

import (
	"github.com/funvibe/clasp/internal/ast"
)

// Registry is the global table of declared classes and interfaces for one
// program. Each name is registered once; registering it again returns the
// existing symbol.
type Registry struct {
	decls map[string]Declaration
	order []Declaration
}

func NewRegistry() *Registry {
	return &Registry{decls: make(map[string]Declaration)}
}

// RegisterClass returns the symbol for decl's name and whether it was
// newly created.
func (r *Registry) RegisterClass(decl *ast.ClassDeclaration) (Declaration, bool) {
	if existing, ok := r.decls[decl.Name.Value]; ok {
		return existing, false
	}
	sym := NewClassSymbol(decl)
	r.add(sym)
	return sym, true
}

// RegisterInterface returns the symbol for decl's name and whether it was
// newly created.
func (r *Registry) RegisterInterface(decl *ast.InterfaceDeclaration) (Declaration, bool) {
	if existing, ok := r.decls[decl.Name.Value]; ok {
		return existing, false
	}
	sym := NewInterfaceSymbol(decl)
	r.add(sym)
	return sym, true
}

func (r *Registry) add(d Declaration) {
	r.decls[d.DeclName()] = d
	r.order = append(r.order, d)
}

func (r *Registry) Lookup(name string) (Declaration, bool) {
	d, ok := r.decls[name]
	return d, ok
}

func (r *Registry) Class(name string) (*ClassSymbol, bool) {
	c, ok := r.decls[name].(*ClassSymbol)
	return c, ok
}

func (r *Registry) Interface(name string) (*InterfaceSymbol, bool) {
	i, ok := r.decls[name].(*InterfaceSymbol)
	return i, ok
}

// Declarations returns every symbol in registration order.
func (r *Registry) Declarations() []Declaration {
	return r.order
}

// Names returns every registered name in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, d := range r.order {
		names[i] = d.DeclName()
	}
	return names
}
