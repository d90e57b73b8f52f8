package natives

import (
	"bytes"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/funvibe/clasp/internal/config"
	"github.com/funvibe/clasp/internal/vdom"
)

func TestStandardRegistry(t *testing.T) {
	r := Standard(Options{})
	for _, name := range []string{"String", "Number", "Boolean", "Array", "ArrayIterator", "System", "Assert", "VNode"} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("missing native class %s", name)
		}
	}
	if err := r.Register(&Class{Name: "Array"}); err == nil {
		t.Errorf("duplicate registration should fail")
	}
	c, ok := r.ForValue(NewArray())
	if !ok || c.Name != "Array" {
		t.Errorf("ForValue(*Array) = %v, %v", c, ok)
	}
	if _, ok := r.ForValue(3.0); ok {
		t.Errorf("plain numbers have no host class")
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	var a, b bytes.Buffer
	ra := Standard(Options{Out: &a})
	rb := Standard(Options{Out: &b})
	sa, _ := ra.Lookup("System")
	sb, _ := rb.Lookup("System")
	sa.Statics.(*SystemStatics).Println("one")
	sb.Statics.(*SystemStatics).Print(2.0)
	if a.String() != "one\n" || b.String() != "2" {
		t.Errorf("outputs leaked between registries: %q %q", a.String(), b.String())
	}
}

func TestArray(t *testing.T) {
	arr := NewArray(1.0, 2.0)
	arr.Push(3.0)
	if arr.Length() != 3 {
		t.Fatalf("length = %v", arr.Length())
	}
	if v, err := arr.Get(2); err != nil || v != 3.0 {
		t.Errorf("Get(2) = %v, %v", v, err)
	}
	if _, err := arr.Get(5); err == nil {
		t.Errorf("out of range Get should fail")
	}
	if _, err := arr.Get(0.5); err == nil {
		t.Errorf("fractional index should fail")
	}
	doubled, err := arr.Map(func(args ...any) (any, error) { return args[0].(float64) * 2, nil })
	if err != nil || doubled.Join(",") != "2,4,6" {
		t.Errorf("Map = %v, %v", doubled, err)
	}
	odd, _ := arr.Filter(func(args ...any) (any, error) { return args[0].(float64) != 2, nil })
	if odd.Join("-") != "1-3" {
		t.Errorf("Filter = %s", odd.Join("-"))
	}
	if arr.Pop() != 3.0 || arr.Length() != 2 {
		t.Errorf("Pop should remove the last item")
	}
	if arr.IndexOf(2.0) != 1 || arr.Contains("x") {
		t.Errorf("IndexOf/Contains wrong")
	}

	it := arr.Iterator()
	var seen []any
	for it.Rewind(); it.HasNext(); it.Next() {
		v, err := it.Current()
		if err != nil {
			t.Fatal(err)
		}
		seen = append(seen, v)
	}
	if len(seen) != 2 {
		t.Errorf("iterated %v", seen)
	}
	if _, err := it.Current(); err == nil {
		t.Errorf("Current past the end should fail")
	}
}

func TestPrimitives(t *testing.T) {
	s := String("héllo world")
	if s.Length() != 11 {
		t.Errorf("length counts runes, got %v", s.Length())
	}
	if c, _ := s.CharAt(1); c != "é" {
		t.Errorf("CharAt(1) = %q", c)
	}
	if sub, _ := s.Substring(6, -1); sub != "world" {
		t.Errorf("Substring = %q", sub)
	}
	if s.IndexOf("world") != 6 {
		t.Errorf("IndexOf = %v", s.IndexOf("world"))
	}
	if parts := s.Split(" "); parts.Length() != 2 {
		t.Errorf("Split = %v", parts)
	}
	if Number(2.5).Floor() != 2 || Number(-3).Abs() != 3 {
		t.Errorf("number methods wrong")
	}
	if f, _ := Number(3.14159).ToFixed(2); f != "3.14" {
		t.Errorf("ToFixed = %s", f)
	}
	if _, err := (NumberStatics{}).Parse("abc"); err == nil {
		t.Errorf("Parse should reject non-numbers")
	}
	if Number(3).ToString() != "3" || Boolean(true).ToString() != "true" {
		t.Errorf("ToString wrong")
	}
}

func TestAssertAndSystem(t *testing.T) {
	a := AssertStatics{}
	if err := a.Equals(1.0, 1.0); err != nil {
		t.Errorf("equal values: %v", err)
	}
	if err := a.Equals(1.0, "1"); err == nil {
		t.Errorf("number and string must differ")
	}
	if err := a.IsNull(nil); err != nil {
		t.Errorf("IsNull(nil): %v", err)
	}
	if err := a.Fail("boom"); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Fail = %v", err)
	}

	fixed := time.UnixMilli(42)
	sys := &SystemStatics{Out: &bytes.Buffer{}, Clock: func() time.Time { return fixed }}
	if sys.Time() != 42 {
		t.Errorf("Time = %v", sys.Time())
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{3.0, "3"},
		{2.5, "2.5"},
		{true, "true"},
		{"s", "s"},
		{NewArray(1.0, "a"), "[1, a]"},
		{&VNode{Node: vdom.NewNode("br")}, "<br></br>"},
	}
	for _, tt := range tests {
		if got := Stringify(tt.in); got != tt.want {
			t.Errorf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLibraryFS(t *testing.T) {
	data, err := fs.ReadFile(LibraryFS(), config.PreludePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != Prelude() || !strings.Contains(Prelude(), "class Array<T>") {
		t.Errorf("prelude not served")
	}
	if _, err := LibraryFS().Open("other.clasp"); err == nil {
		t.Errorf("unknown paths must not exist")
	}
}
