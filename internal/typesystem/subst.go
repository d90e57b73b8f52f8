package typesystem

// Subst maps type variables to the types bound for them.
type Subst map[*TypeVariable]Type

// NewSubst pairs params with args. A length mismatch (including a raw ref
// with no arguments) binds nothing.
func NewSubst(params []*TypeVariable, args []Type) Subst {
	s := make(Subst, len(params))
	if len(params) != len(args) {
		return s
	}
	for i, p := range params {
		s[p] = args[i]
	}
	return s
}

// Erase replaces every remaining type variable with mixed. Types leaving
// the checker are erased.
func Erase(t Type) Type {
	switch t := t.(type) {
	case nil:
		return nil
	case *TypeVariable:
		return Mixed
	case *NullableType:
		return NewNullable(Erase(t.Inner))
	case *ClassRefType:
		return &ClassRefType{Decl: t.Decl, Args: eraseAll(t.Args)}
	case *InterfaceRefType:
		return &InterfaceRefType{Decl: t.Decl, Args: eraseAll(t.Args)}
	case *LambdaType:
		return &LambdaType{Params: eraseAll(t.Params), Return: Erase(t.Return)}
	}
	return t
}

func eraseAll(types []Type) []Type {
	if len(types) == 0 {
		return nil
	}
	out := make([]Type, len(types))
	for i, t := range types {
		out[i] = Erase(t)
	}
	return out
}

// ContainsVariable reports whether any type variable remains in t.
func ContainsVariable(t Type) bool {
	switch t := t.(type) {
	case *TypeVariable:
		return true
	case *NullableType:
		return ContainsVariable(t.Inner)
	case *ClassRefType:
		return anyVariable(t.Args)
	case *InterfaceRefType:
		return anyVariable(t.Args)
	case *LambdaType:
		return anyVariable(t.Params) || ContainsVariable(t.Return)
	}
	return false
}

func anyVariable(types []Type) bool {
	for _, t := range types {
		if ContainsVariable(t) {
			return true
		}
	}
	return false
}
