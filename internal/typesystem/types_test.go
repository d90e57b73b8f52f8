package typesystem

import (
	"testing"
)

// decl is a minimal Nominal for exercising reference types.
type decl struct {
	name   string
	iface  bool
	params []*TypeVariable
	supers []Type
}

func (d *decl) DeclName() string                { return d.name }
func (d *decl) IsInterface() bool               { return d.iface }
func (d *decl) TypeParameters() []*TypeVariable { return d.params }
func (d *decl) Supertypes() []Type              { return d.supers }

func TestNullableNormalization(t *testing.T) {
	for _, inner := range []Type{Number, String, Boolean, NewTypeVariable("T"), &LambdaType{Return: Void}} {
		n := NewNullable(inner)
		if !n.Accepts(Null) {
			t.Errorf("%s should accept null", n)
		}
		nn := NewNullable(n)
		if nn != n {
			t.Errorf("Nullable(Nullable(%s)) should collapse, got %s", inner, nn)
		}
		if got := n.Apply(Subst{}).String(); got != inner.String()+"?" {
			t.Errorf("unexpected string %s", got)
		}
	}
}

func TestPrimitiveAndNullableAccepts(t *testing.T) {
	numOpt := NewNullable(Number)
	tests := []struct {
		slot, value Type
		want        bool
	}{
		{Number, Number, true},
		{Number, String, false},
		{numOpt, Number, true},
		{Number, numOpt, false},
		{numOpt, numOpt, true},
		{Number, Null, false},
		{Mixed, numOpt, true},
		{Void, Void, true},
		{Void, Number, false},
		{Number, NewTypeVariable("T"), true},
		{NewTypeVariable("T"), String, true},
	}
	for _, tt := range tests {
		if got := tt.slot.Accepts(tt.value); got != tt.want {
			t.Errorf("%s.Accepts(%s) = %v, want %v", tt.slot, tt.value, got, tt.want)
		}
	}
}

func TestReferenceSubtyping(t *testing.T) {
	iterT := NewTypeVariable("T")
	iterable := &decl{name: "Iterable", iface: true, params: []*TypeVariable{iterT}}

	baseT := NewTypeVariable("T")
	base := &decl{name: "Base", params: []*TypeVariable{baseT}}
	base.supers = []Type{&InterfaceRefType{Decl: iterable, Args: []Type{baseT}}}

	derived := &decl{name: "Derived"}
	derived.supers = []Type{&ClassRefType{Decl: base, Args: []Type{Number}}}

	other := &decl{name: "Other"}

	tests := []struct {
		name        string
		slot, value Type
		want        bool
	}{
		{"same class", &ClassRefType{Decl: base, Args: []Type{Number}}, &ClassRefType{Decl: base, Args: []Type{Number}}, true},
		{"subclass with matching args", &ClassRefType{Decl: base, Args: []Type{Number}}, &ClassRefType{Decl: derived}, true},
		{"subclass with clashing args", &ClassRefType{Decl: base, Args: []Type{String}}, &ClassRefType{Decl: derived}, false},
		{"superclass into subclass", &ClassRefType{Decl: derived}, &ClassRefType{Decl: base}, false},
		{"unrelated", &ClassRefType{Decl: base}, &ClassRefType{Decl: other}, false},
		{"raw slot", &ClassRefType{Decl: base}, &ClassRefType{Decl: base, Args: []Type{String}}, true},
		{"interface through ancestor", &InterfaceRefType{Decl: iterable, Args: []Type{Number}}, &ClassRefType{Decl: derived}, true},
		{"interface arg mismatch", &InterfaceRefType{Decl: iterable, Args: []Type{Boolean}}, &ClassRefType{Decl: derived}, false},
		{"nullable ref", NewNullable(&ClassRefType{Decl: base}), &ClassRefType{Decl: derived}, true},
		{"class from interface", &ClassRefType{Decl: base}, &InterfaceRefType{Decl: iterable}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.slot.Accepts(tt.value); got != tt.want {
				t.Errorf("%s.Accepts(%s) = %v, want %v", tt.slot, tt.value, got, tt.want)
			}
		})
	}

	view, ok := AsAncestor(derived, nil, iterable)
	if !ok || len(view) != 1 || view[0] != Number {
		t.Errorf("Derived viewed as Iterable should be Iterable<number>, got %v", view)
	}
}

func TestCyclicSupertypesTerminate(t *testing.T) {
	a := &decl{name: "A"}
	b := &decl{name: "B"}
	a.supers = []Type{&ClassRefType{Decl: b}}
	b.supers = []Type{&ClassRefType{Decl: a}}
	c := &decl{name: "C"}
	if (&ClassRefType{Decl: c}).Accepts(&ClassRefType{Decl: a}) {
		t.Errorf("unrelated class accepted through cycle")
	}
}

func TestLambdaVariance(t *testing.T) {
	numOpt := NewNullable(Number)
	slot := &LambdaType{Params: []Type{Number}, Return: numOpt}

	if !slot.Accepts(&LambdaType{Params: []Type{numOpt}, Return: Number}) {
		t.Errorf("wider parameter and narrower return should be accepted")
	}
	if slot.Accepts(&LambdaType{Params: []Type{Number}, Return: String}) {
		t.Errorf("incompatible return accepted")
	}
	if slot.Accepts(&LambdaType{Params: []Type{Number, Number}, Return: Number}) {
		t.Errorf("arity mismatch accepted")
	}
	voidSlot := &LambdaType{Params: []Type{Number}, Return: Void}
	if !voidSlot.Accepts(&LambdaType{Params: []Type{Number}, Return: String}) {
		t.Errorf("void-returning slot should accept any return")
	}
}

func TestSubstitutionAndErase(t *testing.T) {
	tv := NewTypeVariable("T")
	u := NewTypeVariable("U")
	box := &decl{name: "Box", params: []*TypeVariable{tv}}

	fn := &LambdaType{Params: []Type{tv}, Return: &ClassRefType{Decl: box, Args: []Type{NewNullable(u)}}}
	applied := fn.Apply(NewSubst([]*TypeVariable{tv}, []Type{String}))
	if got := applied.String(); got != "(string) -> Box<U?>" {
		t.Errorf("unexpected substitution result %s", got)
	}
	if !ContainsVariable(applied) {
		t.Errorf("U should remain free")
	}
	erased := Erase(applied)
	if ContainsVariable(erased) {
		t.Errorf("erased type still has variables: %s", erased)
	}
	if got := erased.String(); got != "(string) -> Box<mixed>" {
		t.Errorf("unexpected erased type %s", got)
	}

	if len(NewSubst([]*TypeVariable{tv}, nil)) != 0 {
		t.Errorf("raw ref must bind nothing")
	}
}
