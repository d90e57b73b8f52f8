package typesystem

import (
	"strings"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	// Accepts reports whether a value of type other may be stored in a slot
	// of this type. It is one-directional.
	Accepts(other Type) bool
	Apply(Subst) Type
}

// Nominal is a declared class or interface. It is implemented by the symbol
// table so that reference types can walk inheritance without importing it.
type Nominal interface {
	DeclName() string
	IsInterface() bool
	TypeParameters() []*TypeVariable
	// Supertypes returns the direct superclass and interface refs, expressed
	// in terms of the declaration's own type parameters.
	Supertypes() []Type
}

// --- Primitives and other singletons ---

type PrimitiveType struct {
	Name string
}

var (
	Number  = &PrimitiveType{Name: "number"}
	String  = &PrimitiveType{Name: "string"}
	Boolean = &PrimitiveType{Name: "boolean"}
)

func (t *PrimitiveType) String() string   { return t.Name }
func (t *PrimitiveType) Apply(Subst) Type { return t }
func (t *PrimitiveType) Accepts(other Type) bool {
	return isVariable(other) || other == t
}

// MixedType is the top type.
type MixedType struct{}

func (t *MixedType) String() string    { return "mixed" }
func (t *MixedType) Apply(Subst) Type  { return t }
func (t *MixedType) Accepts(Type) bool { return true }

type VoidType struct{}

func (t *VoidType) String() string   { return "void" }
func (t *VoidType) Apply(Subst) Type { return t }
func (t *VoidType) Accepts(other Type) bool {
	return isVariable(other) || other == Void
}

// NullType is the type of the null literal.
type NullType struct{}

func (t *NullType) String() string   { return "null" }
func (t *NullType) Apply(Subst) Type { return t }
func (t *NullType) Accepts(other Type) bool {
	return isVariable(other) || other == Null
}

var (
	Mixed = &MixedType{}
	Void  = &VoidType{}
	Null  = &NullType{}
)

// --- Nullable ---

type NullableType struct {
	Inner Type
}

// NewNullable wraps t, never producing a nullable of a nullable.
func NewNullable(t Type) Type {
	switch t.(type) {
	case *NullableType, *MixedType, *NullType:
		return t
	}
	return &NullableType{Inner: t}
}

func (t *NullableType) String() string { return t.Inner.String() + "?" }
func (t *NullableType) Apply(s Subst) Type {
	return NewNullable(t.Inner.Apply(s))
}
func (t *NullableType) Accepts(other Type) bool {
	switch o := other.(type) {
	case *NullType:
		return true
	case *NullableType:
		return t.Inner.Accepts(o.Inner)
	}
	return t.Inner.Accepts(other)
}

// Unwrap strips one nullable layer.
func Unwrap(t Type) (Type, bool) {
	if n, ok := t.(*NullableType); ok {
		return n.Inner, true
	}
	return t, false
}

// --- Type variables ---

// TypeVariable is a generic placeholder. Identity is by pointer: two
// parameters named T in different declarations are different variables.
type TypeVariable struct {
	Name string
}

func NewTypeVariable(name string) *TypeVariable {
	return &TypeVariable{Name: name}
}

func (t *TypeVariable) String() string    { return t.Name }
func (t *TypeVariable) Accepts(Type) bool { return true }
func (t *TypeVariable) Apply(s Subst) Type {
	if r, ok := s[t]; ok {
		return r
	}
	return t
}

func isVariable(t Type) bool {
	_, ok := t.(*TypeVariable)
	return ok
}

// --- Lambdas ---

type LambdaType struct {
	Params []Type
	Return Type
}

func (t *LambdaType) String() string {
	return "(" + joinTypes(t.Params) + ") -> " + t.Return.String()
}

func (t *LambdaType) Apply(s Subst) Type {
	return &LambdaType{Params: applyAll(t.Params, s), Return: t.Return.Apply(s)}
}

// Accepts is contravariant in parameters and covariant in the return type;
// a void return accepts any function of the right arity.
func (t *LambdaType) Accepts(other Type) bool {
	if isVariable(other) {
		return true
	}
	o, ok := other.(*LambdaType)
	if !ok || len(o.Params) != len(t.Params) {
		return false
	}
	for i, p := range t.Params {
		if !o.Params[i].Accepts(p) {
			return false
		}
	}
	return t.Return == Void || t.Return.Accepts(o.Return)
}

// --- Static (class object) type ---

// StaticType is the type of a bare class or interface name, used for static
// member access.
type StaticType struct {
	Decl Nominal
}

func (t *StaticType) String() string   { return "class " + t.Decl.DeclName() }
func (t *StaticType) Apply(Subst) Type { return t }
func (t *StaticType) Accepts(other Type) bool {
	if isVariable(other) {
		return true
	}
	o, ok := other.(*StaticType)
	return ok && o.Decl == t.Decl
}

func joinTypes(types []Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func applyAll(types []Type, s Subst) []Type {
	if len(types) == 0 {
		return nil
	}
	out := make([]Type, len(types))
	for i, t := range types {
		out[i] = t.Apply(s)
	}
	return out
}
