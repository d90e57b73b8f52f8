package symbols

import (
	"sort"

	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/typesystem"
)

type SymbolKind int

type ScopeType int

const (
	ScopeGlobal ScopeType = iota // top-level statements
	ScopeClass                   // instance or static member scope of a class
	ScopeMethod                  // method/constructor/lambda body
	ScopeBlock
)

const (
	VariableSymbol SymbolKind = iota
	ParameterSymbolKind
	ThisSymbol
	TypeSymbol // a class or interface name used as a value
)

type Symbol struct {
	Name           string
	Type           typesystem.Type
	Kind           SymbolKind
	DefinitionNode ast.Node // where the symbol was declared, if anywhere
}

// SymbolTable is one lexical scope of value bindings used while checking.
type SymbolTable struct {
	store     map[string]Symbol
	outer     *SymbolTable
	scopeType ScopeType

	// Context carried by class and method scopes and inherited by inner ones.
	class  *ClassSymbol
	iface  *InterfaceSymbol
	method *MethodSymbol
	static bool
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{store: make(map[string]Symbol), scopeType: ScopeGlobal}
}

func NewEnclosedSymbolTable(outer *SymbolTable, scopeType ScopeType) *SymbolTable {
	st := &SymbolTable{store: make(map[string]Symbol), outer: outer, scopeType: scopeType}
	if outer != nil {
		st.class, st.iface, st.method = outer.class, outer.iface, outer.method
		st.static = outer.static
	}
	return st
}

// NewClassScope opens the member scope of class. Instance scopes bind this.
func NewClassScope(outer *SymbolTable, class *ClassSymbol, static bool) *SymbolTable {
	st := NewEnclosedSymbolTable(outer, ScopeClass)
	st.class, st.iface, st.static = class, nil, static
	if !static {
		st.Define("this", class.SelfType(), ThisSymbol, class.Decl)
	}
	return st
}

// NewInterfaceScope opens the member scope of an interface with default
// method bodies.
func NewInterfaceScope(outer *SymbolTable, iface *InterfaceSymbol) *SymbolTable {
	st := NewEnclosedSymbolTable(outer, ScopeClass)
	st.class, st.iface = nil, iface
	st.Define("this", iface.SelfType(), ThisSymbol, iface.Decl)
	return st
}

// NewMethodScope opens the body scope of method.
func NewMethodScope(outer *SymbolTable, method *MethodSymbol) *SymbolTable {
	st := NewEnclosedSymbolTable(outer, ScopeMethod)
	st.method = method
	return st
}

// NewLambdaScope opens a lambda body scope. The enclosing method context is
// kept so member access rules apply as in the surrounding body.
func NewLambdaScope(outer *SymbolTable) *SymbolTable {
	return NewEnclosedSymbolTable(outer, ScopeMethod)
}

func (s *SymbolTable) Define(name string, t typesystem.Type, kind SymbolKind, node ast.Node) {
	s.store[name] = Symbol{Name: name, Type: t, Kind: kind, DefinitionNode: node}
}

func (s *SymbolTable) Find(name string) (Symbol, bool) {
	for scope := s; scope != nil; scope = scope.outer {
		if sym, ok := scope.store[name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

func (s *SymbolTable) IsDefinedLocally(name string) bool {
	_, ok := s.store[name]
	return ok
}

// Names lists every visible binding, innermost first, for suggestions.
func (s *SymbolTable) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for scope := s; scope != nil; scope = scope.outer {
		local := make([]string, 0, len(scope.store))
		for name := range scope.store {
			if !seen[name] {
				seen[name] = true
				local = append(local, name)
			}
		}
		sort.Strings(local)
		names = append(names, local...)
	}
	return names
}

func (s *SymbolTable) ScopeType() ScopeType                 { return s.scopeType }
func (s *SymbolTable) EnclosingClass() *ClassSymbol         { return s.class }
func (s *SymbolTable) EnclosingInterface() *InterfaceSymbol { return s.iface }
func (s *SymbolTable) EnclosingMethod() *MethodSymbol       { return s.method }
func (s *SymbolTable) IsStatic() bool                       { return s.static }

// TypeScope is the chained name to type-variable scope used while resolving
// annotations inside generic declarations.
type TypeScope struct {
	vars  map[string]*typesystem.TypeVariable
	outer *TypeScope
}

func NewTypeScope(outer *TypeScope) *TypeScope {
	return &TypeScope{vars: make(map[string]*typesystem.TypeVariable), outer: outer}
}

func (ts *TypeScope) Bind(name string, tv *typesystem.TypeVariable) {
	ts.vars[name] = tv
}

func (ts *TypeScope) Resolve(name string) (*typesystem.TypeVariable, bool) {
	for scope := ts; scope != nil; scope = scope.outer {
		if tv, ok := scope.vars[name]; ok {
			return tv, true
		}
	}
	return nil, false
}
