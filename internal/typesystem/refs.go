package typesystem

// ClassRefType names a declared class with resolved type arguments. A ref
// without arguments is raw: its arguments are never compared.
type ClassRefType struct {
	Decl Nominal
	Args []Type
}

// InterfaceRefType names a declared interface with resolved type arguments.
type InterfaceRefType struct {
	Decl Nominal
	Args []Type
}

// NewRef builds the ref type matching decl's kind.
func NewRef(decl Nominal, args []Type) Type {
	if decl.IsInterface() {
		return &InterfaceRefType{Decl: decl, Args: args}
	}
	return &ClassRefType{Decl: decl, Args: args}
}

func (t *ClassRefType) String() string     { return refString(t.Decl, t.Args) }
func (t *InterfaceRefType) String() string { return refString(t.Decl, t.Args) }

func (t *ClassRefType) Apply(s Subst) Type {
	return &ClassRefType{Decl: t.Decl, Args: applyAll(t.Args, s)}
}

func (t *InterfaceRefType) Apply(s Subst) Type {
	return &InterfaceRefType{Decl: t.Decl, Args: applyAll(t.Args, s)}
}

// Accepts takes the same class or any subclass.
func (t *ClassRefType) Accepts(other Type) bool {
	return refAccepts(t.Decl, t.Args, other)
}

// Accepts takes extending interfaces and any class implementing the
// interface, directly or through an ancestor.
func (t *InterfaceRefType) Accepts(other Type) bool {
	return refAccepts(t.Decl, t.Args, other)
}

func refAccepts(decl Nominal, args []Type, other Type) bool {
	if isVariable(other) {
		return true
	}
	decl2, args2, ok := RefParts(other)
	if !ok {
		return false
	}
	view, found := AsAncestor(decl2, args2, decl)
	if !found {
		return false
	}
	if len(args) == 0 || len(view) == 0 {
		return true
	}
	if len(args) != len(view) {
		return false
	}
	for i, a := range args {
		if !a.Accepts(view[i]) {
			return false
		}
	}
	return true
}

// RefParts splits a class or interface ref into declaration and arguments.
func RefParts(t Type) (Nominal, []Type, bool) {
	switch r := t.(type) {
	case *ClassRefType:
		return r.Decl, r.Args, true
	case *InterfaceRefType:
		return r.Decl, r.Args, true
	}
	return nil, nil, false
}

// AsAncestor views decl<args> as target, returning target's type arguments
// as seen from decl. Arguments that cannot be determined (raw refs) stay as
// type variables, which accept anything.
func AsAncestor(decl Nominal, args []Type, target Nominal) ([]Type, bool) {
	return asAncestor(decl, args, target, make(map[Nominal]bool))
}

func asAncestor(decl Nominal, args []Type, target Nominal, visited map[Nominal]bool) ([]Type, bool) {
	if decl == target {
		return args, true
	}
	if visited[decl] {
		return nil, false
	}
	visited[decl] = true

	subst := NewSubst(decl.TypeParameters(), args)
	for _, super := range decl.Supertypes() {
		sdecl, sargs, ok := RefParts(super.Apply(subst))
		if !ok {
			continue
		}
		if view, found := asAncestor(sdecl, sargs, target, visited); found {
			return view, true
		}
	}
	return nil, false
}

func refString(decl Nominal, args []Type) string {
	if len(args) == 0 {
		return decl.DeclName()
	}
	return decl.DeclName() + "<" + joinTypes(args) + ">"
}
