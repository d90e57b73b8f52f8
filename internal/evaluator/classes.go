package evaluator

import (
	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/config"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/natives"
)

type FieldDefinition struct {
	Name  string
	Decl  *ast.FieldDeclaration
	Owner *ClassDefinition
}

func (f *FieldDefinition) IsStatic() bool { return f.Decl.Modifiers.Has(ast.ModStatic) }

type MethodDefinition struct {
	Name  string
	Decl  *ast.MethodDeclaration
	// Owner is the declaring class; nil for interface default methods.
	Owner *ClassDefinition
}

func (m *MethodDefinition) IsStatic() bool { return m.Decl.Modifiers.Has(ast.ModStatic) }
func (m *MethodDefinition) HasBody() bool  { return m.Decl.Body != nil }

// ClassDefinition is the runtime view of a class, built on first use.
type ClassDefinition struct {
	Name       string
	Decl       *ast.ClassDeclaration
	SuperName  string
	Super      *ClassDefinition
	Interfaces []*InterfaceDefinition
	Fields     []*FieldDefinition
	Methods    map[string]*MethodDefinition
	Statics    map[string]Value
	Native     *natives.Class // host binding of @native classes
}

// InterfaceDefinition keeps the default method bodies of an interface.
type InterfaceDefinition struct {
	Name    string
	Decl    *ast.InterfaceDeclaration
	Methods map[string]*MethodDefinition
	Extends []*InterfaceDefinition
}

// Chain returns the class and its ancestors, root last.
func (c *ClassDefinition) Chain() []*ClassDefinition {
	var chain []*ClassDefinition
	for cls := c; cls != nil; cls = cls.Super {
		chain = append(chain, cls)
	}
	return chain
}

// FindMethod walks the superclass chain, then default methods of the
// implemented interfaces. Constructors are not methods.
func (c *ClassDefinition) FindMethod(name string) (*MethodDefinition, bool) {
	for _, cls := range c.Chain() {
		if m, ok := cls.Methods[name]; ok && !m.Decl.IsConstructor {
			return m, true
		}
	}
	for _, cls := range c.Chain() {
		for _, iface := range cls.Interfaces {
			if m, ok := iface.findDefault(name, make(map[*InterfaceDefinition]bool)); ok {
				return m, true
			}
		}
	}
	return nil, false
}

func (i *InterfaceDefinition) findDefault(name string, seen map[*InterfaceDefinition]bool) (*MethodDefinition, bool) {
	if seen[i] {
		return nil, false
	}
	seen[i] = true
	if m, ok := i.Methods[name]; ok {
		return m, true
	}
	for _, ext := range i.Extends {
		if m, ok := ext.findDefault(name, seen); ok {
			return m, true
		}
	}
	return nil, false
}

// FindConstructor returns the first constructor up the chain.
func (c *ClassDefinition) FindConstructor() (*MethodDefinition, bool) {
	for _, cls := range c.Chain() {
		if m, ok := cls.Methods[config.ConstructorName]; ok {
			return m, true
		}
	}
	return nil, false
}

// NativeAncestor returns the nearest class in the chain with a host binding.
func (c *ClassDefinition) NativeAncestor() *ClassDefinition {
	for _, cls := range c.Chain() {
		if cls.Native != nil {
			return cls
		}
	}
	return nil
}

// StaticOwner returns the class holding static field name.
func (c *ClassDefinition) StaticOwner(name string) (*ClassDefinition, bool) {
	for _, cls := range c.Chain() {
		if _, ok := cls.Statics[name]; ok {
			return cls, true
		}
	}
	return nil, false
}

// IsSubclassOf reports whether c is name or inherits from it.
func (c *ClassDefinition) IsSubclassOf(name string) bool {
	for _, cls := range c.Chain() {
		if cls.Name == name {
			return true
		}
	}
	return false
}

// classDef returns the definition of name, building and caching it on
// first use. Static fields are initialised as part of the build.
func (in *Interpreter) classDef(name string, node ast.Node) (*ClassDefinition, error) {
	if def, ok := in.classes[name]; ok {
		return def, nil
	}
	decl, ok := in.decls[name].(*ast.ClassDeclaration)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR001, node, "unknown class %s", name)
	}

	def := &ClassDefinition{
		Name:    name,
		Decl:    decl,
		Methods: make(map[string]*MethodDefinition),
		Statics: make(map[string]Value),
	}
	if decl.Extends != nil {
		def.SuperName, _ = ast.TypeName(decl.Extends)
	}
	in.classes[name] = def

	if def.SuperName != "" {
		super, err := in.classDef(def.SuperName, decl.Extends)
		if err != nil {
			delete(in.classes, name)
			return nil, err
		}
		def.Super = super
	}
	for _, node := range decl.Implements {
		ifaceName, _ := ast.TypeName(node)
		iface, err := in.interfaceDef(ifaceName, node)
		if err != nil {
			delete(in.classes, name)
			return nil, err
		}
		def.Interfaces = append(def.Interfaces, iface)
	}
	for _, f := range decl.Fields {
		def.Fields = append(def.Fields, &FieldDefinition{Name: f.Name.Value, Decl: f, Owner: def})
	}
	for _, m := range decl.Methods {
		def.Methods[m.Name.Value] = &MethodDefinition{Name: m.Name.Value, Decl: m, Owner: def}
	}
	if decl.IsNative() {
		host, ok := in.natives.Lookup(name)
		if !ok {
			delete(in.classes, name)
			return nil, in.nativeErrorf(decl, "no host implementation registered for native class %s", name)
		}
		def.Native = host
	}

	for _, f := range def.Fields {
		if !f.IsStatic() {
			continue
		}
		var v Value
		if f.Decl.Init != nil {
			var err error
			v, err = in.evalInClass(f.Decl.Init, def, nil)
			if err != nil {
				return nil, err
			}
		}
		def.Statics[f.Name] = v
	}
	in.logger.Debug("class built", zapName(name))
	return def, nil
}

func (in *Interpreter) interfaceDef(name string, node ast.Node) (*InterfaceDefinition, error) {
	if def, ok := in.interfaces[name]; ok {
		return def, nil
	}
	decl, ok := in.decls[name].(*ast.InterfaceDeclaration)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR001, node, "unknown interface %s", name)
	}
	def := &InterfaceDefinition{Name: name, Decl: decl, Methods: make(map[string]*MethodDefinition)}
	in.interfaces[name] = def
	for _, m := range decl.Methods {
		if m.Body != nil {
			def.Methods[m.Name.Value] = &MethodDefinition{Name: m.Name.Value, Decl: m}
		}
	}
	for _, ext := range decl.Extends {
		extName, _ := ast.TypeName(ext)
		parent, err := in.interfaceDef(extName, ext)
		if err != nil {
			return nil, err
		}
		def.Extends = append(def.Extends, parent)
	}
	return def, nil
}
