package symbols

import (
	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/typesystem"
)

// Declaration is a class or interface symbol.
type Declaration interface {
	typesystem.Nominal
	OwnField(name string) (*FieldSymbol, bool)
	OwnMethod(name string) (*MethodSymbol, bool)
	Node() ast.Statement
}

type TypeParameterSymbol struct {
	Name string
	Var  *typesystem.TypeVariable
}

func newTypeParams(idents []*ast.Identifier) []*TypeParameterSymbol {
	params := make([]*TypeParameterSymbol, len(idents))
	for i, id := range idents {
		params[i] = &TypeParameterSymbol{Name: id.Value, Var: typesystem.NewTypeVariable(id.Value)}
	}
	return params
}

func typeVars(params []*TypeParameterSymbol) []*typesystem.TypeVariable {
	vars := make([]*typesystem.TypeVariable, len(params))
	for i, p := range params {
		vars[i] = p.Var
	}
	return vars
}

type FieldSymbol struct {
	Name      string
	Type      typesystem.Type
	Modifiers ast.Modifiers
	Owner     Declaration
	Decl      *ast.FieldDeclaration
}

func (f *FieldSymbol) IsStatic() bool   { return f.Modifiers.Has(ast.ModStatic) }
func (f *FieldSymbol) IsPrivate() bool  { return f.Modifiers.Has(ast.ModPrivate) }
func (f *FieldSymbol) IsReadonly() bool { return f.Modifiers.Has(ast.ModReadonly) }

type ParameterSymbol struct {
	Name        string
	Type        typesystem.Type
	DefaultType typesystem.Type // nil when the parameter has no default
	Decl        *ast.Parameter
}

type MethodSymbol struct {
	Name          string
	TypeParams    []*TypeParameterSymbol
	Params        []*ParameterSymbol
	Return        typesystem.Type
	Modifiers     ast.Modifiers
	IsConstructor bool
	Owner         Declaration
	Decl          *ast.MethodDeclaration
}

func (m *MethodSymbol) IsStatic() bool  { return m.Modifiers.Has(ast.ModStatic) }
func (m *MethodSymbol) IsPrivate() bool { return m.Modifiers.Has(ast.ModPrivate) }

// Required counts leading parameters without defaults.
func (m *MethodSymbol) Required() int {
	return m.Decl.RequiredParams()
}

// Signature is the method as a function type.
func (m *MethodSymbol) Signature() *typesystem.LambdaType {
	params := make([]typesystem.Type, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Type
	}
	return &typesystem.LambdaType{Params: params, Return: m.Return}
}

// TypeVars returns the method's own generic parameters.
func (m *MethodSymbol) TypeVars() []*typesystem.TypeVariable { return typeVars(m.TypeParams) }

// members keeps declaration order for deterministic iteration.
type members struct {
	fields      map[string]*FieldSymbol
	methods     map[string]*MethodSymbol
	FieldOrder  []*FieldSymbol
	MethodOrder []*MethodSymbol
}

func newMembers() members {
	return members{fields: make(map[string]*FieldSymbol), methods: make(map[string]*MethodSymbol)}
}

func (m *members) AddField(f *FieldSymbol) {
	m.fields[f.Name] = f
	m.FieldOrder = append(m.FieldOrder, f)
}

func (m *members) AddMethod(ms *MethodSymbol) {
	m.methods[ms.Name] = ms
	m.MethodOrder = append(m.MethodOrder, ms)
}

func (m *members) OwnField(name string) (*FieldSymbol, bool) {
	f, ok := m.fields[name]
	return f, ok
}

func (m *members) OwnMethod(name string) (*MethodSymbol, bool) {
	ms, ok := m.methods[name]
	return ms, ok
}

// MemberNames lists own field and method names.
func (m *members) MemberNames() []string {
	names := make([]string, 0, len(m.FieldOrder)+len(m.MethodOrder))
	for _, f := range m.FieldOrder {
		names = append(names, f.Name)
	}
	for _, ms := range m.MethodOrder {
		names = append(names, ms.Name)
	}
	return names
}

// --- Classes ---

type ClassSymbol struct {
	members
	Name       string
	Decl       *ast.ClassDeclaration
	TypeParams []*TypeParameterSymbol
	Super      *ClassSymbol
	SuperRef   *typesystem.ClassRefType // in terms of own type parameters
	Interfaces []*typesystem.InterfaceRefType
	Native     bool
}

func NewClassSymbol(decl *ast.ClassDeclaration) *ClassSymbol {
	return &ClassSymbol{
		members:    newMembers(),
		Name:       decl.Name.Value,
		Decl:       decl,
		TypeParams: newTypeParams(decl.TypeParams),
		Native:     decl.IsNative(),
	}
}

func (c *ClassSymbol) DeclName() string                           { return c.Name }
func (c *ClassSymbol) IsInterface() bool                          { return false }
func (c *ClassSymbol) TypeParameters() []*typesystem.TypeVariable { return typeVars(c.TypeParams) }
func (c *ClassSymbol) Node() ast.Statement                        { return c.Decl }

func (c *ClassSymbol) Supertypes() []typesystem.Type {
	var out []typesystem.Type
	if c.SuperRef != nil {
		out = append(out, c.SuperRef)
	}
	for _, i := range c.Interfaces {
		out = append(out, i)
	}
	return out
}

// SelfType is the class applied to its own type parameters.
func (c *ClassSymbol) SelfType() typesystem.Type {
	return typesystem.NewRef(c, varsAsTypes(c.TypeParameters()))
}

// Ancestors returns the class followed by its superclass chain.
func (c *ClassSymbol) Ancestors() []*ClassSymbol {
	var chain []*ClassSymbol
	seen := make(map[*ClassSymbol]bool)
	for cls := c; cls != nil && !seen[cls]; cls = cls.Super {
		seen[cls] = true
		chain = append(chain, cls)
	}
	return chain
}

// LookupField walks the superclass chain and stops at the first class
// declaring name.
func (c *ClassSymbol) LookupField(name string) (*FieldSymbol, bool) {
	for _, cls := range c.Ancestors() {
		if f, ok := cls.OwnField(name); ok {
			return f, true
		}
	}
	return nil, false
}

// LookupMethod walks the superclass chain and stops at the first class
// declaring name. Constructors are not methods.
func (c *ClassSymbol) LookupMethod(name string) (*MethodSymbol, bool) {
	for _, cls := range c.Ancestors() {
		if m, ok := cls.OwnMethod(name); ok && !m.IsConstructor {
			return m, true
		}
	}
	return nil, false
}

// LookupConstructor returns the first constructor up the chain.
func (c *ClassSymbol) LookupConstructor() (*MethodSymbol, bool) {
	for _, cls := range c.Ancestors() {
		if m, ok := cls.OwnMethod("constructor"); ok {
			return m, true
		}
	}
	return nil, false
}

// VisibleMemberNames lists member names along the chain, for suggestions.
func (c *ClassSymbol) VisibleMemberNames() []string {
	var names []string
	for _, cls := range c.Ancestors() {
		names = append(names, cls.MemberNames()...)
	}
	return names
}

// --- Interfaces ---

type InterfaceSymbol struct {
	members
	Name       string
	Decl       *ast.InterfaceDeclaration
	TypeParams []*TypeParameterSymbol
	Extends    []*typesystem.InterfaceRefType
}

func NewInterfaceSymbol(decl *ast.InterfaceDeclaration) *InterfaceSymbol {
	return &InterfaceSymbol{
		members:    newMembers(),
		Name:       decl.Name.Value,
		Decl:       decl,
		TypeParams: newTypeParams(decl.TypeParams),
	}
}

func (i *InterfaceSymbol) DeclName() string                           { return i.Name }
func (i *InterfaceSymbol) IsInterface() bool                          { return true }
func (i *InterfaceSymbol) TypeParameters() []*typesystem.TypeVariable { return typeVars(i.TypeParams) }
func (i *InterfaceSymbol) Node() ast.Statement                        { return i.Decl }

func (i *InterfaceSymbol) Supertypes() []typesystem.Type {
	out := make([]typesystem.Type, len(i.Extends))
	for k, e := range i.Extends {
		out[k] = e
	}
	return out
}

func (i *InterfaceSymbol) SelfType() typesystem.Type {
	return typesystem.NewRef(i, varsAsTypes(i.TypeParameters()))
}

// InheritedMethod is a method reached through interface inheritance, with
// the substitution from its owner's parameters to the requesting view.
type InheritedMethod struct {
	Method *MethodSymbol
	Subst  typesystem.Subst
}

// AllMethods collects own and inherited methods for the view i<args>. Own
// methods shadow inherited ones of the same name.
func (i *InterfaceSymbol) AllMethods(args []typesystem.Type) []InheritedMethod {
	var out []InheritedMethod
	seen := make(map[string]bool)
	visited := make(map[*InterfaceSymbol]bool)
	var walk func(iface *InterfaceSymbol, subst typesystem.Subst)
	walk = func(iface *InterfaceSymbol, subst typesystem.Subst) {
		if visited[iface] {
			return
		}
		visited[iface] = true
		for _, m := range iface.MethodOrder {
			if seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			out = append(out, InheritedMethod{Method: m, Subst: subst})
		}
		for _, ext := range iface.Extends {
			parent, ok := ext.Decl.(*InterfaceSymbol)
			if !ok {
				continue
			}
			applied := ext.Apply(subst).(*typesystem.InterfaceRefType)
			walk(parent, typesystem.NewSubst(parent.TypeParameters(), applied.Args))
		}
	}
	walk(i, typesystem.NewSubst(i.TypeParameters(), args))
	return out
}

// LookupMethod finds name on the interface or the interfaces it extends.
func (i *InterfaceSymbol) LookupMethod(name string) (*MethodSymbol, bool) {
	for _, im := range i.AllMethods(nil) {
		if im.Method.Name == name {
			return im.Method, true
		}
	}
	return nil, false
}

// LookupField finds name on the interface or the interfaces it extends.
func (i *InterfaceSymbol) LookupField(name string) (*FieldSymbol, bool) {
	if f, ok := i.OwnField(name); ok {
		return f, true
	}
	for _, ext := range i.Extends {
		if parent, ok := ext.Decl.(*InterfaceSymbol); ok {
			if f, ok := parent.LookupField(name); ok {
				return f, true
			}
		}
	}
	return nil, false
}

func varsAsTypes(vars []*typesystem.TypeVariable) []typesystem.Type {
	if len(vars) == 0 {
		return nil
	}
	out := make([]typesystem.Type, len(vars))
	for i, v := range vars {
		out[i] = v
	}
	return out
}
