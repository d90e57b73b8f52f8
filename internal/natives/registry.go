package natives

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"time"

	"github.com/funvibe/clasp/internal/config"
)

// Func is a script lambda handed to host code.
type Func func(args ...any) (any, error)

// Class binds a @native class declaration to its host implementation.
// Instance methods are found structurally on the host value; static methods
// on Statics. The Go method name is the script name with its first letter
// upper-cased.
type Class struct {
	Name string
	// New constructs the host value behind `new Name(args)`. Nil means the
	// class cannot be instantiated from scripts.
	New func(args []any) (any, error)
	// Box wraps a primitive value for member access. Only the boxed
	// primitive classes set it.
	Box     func(v any) any
	Statics any
	// GoType is the dynamic type of host values of this class. Host results
	// of this type are wrapped back into instances of the class.
	GoType reflect.Type
}

// Registry holds the host classes available to one interpreter.
type Registry struct {
	classes map[string]*Class
	byType  map[reflect.Type]*Class
}

func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*Class), byType: make(map[reflect.Type]*Class)}
}

// Register adds c. A name may be registered once.
func (r *Registry) Register(c *Class) error {
	if _, exists := r.classes[c.Name]; exists {
		return fmt.Errorf("native class %s already registered", c.Name)
	}
	r.classes[c.Name] = c
	if c.GoType != nil {
		r.byType[c.GoType] = c
	}
	return nil
}

func (r *Registry) Lookup(name string) (*Class, bool) {
	c, ok := r.classes[name]
	return c, ok
}

// ForValue returns the class whose host type matches v.
func (r *Registry) ForValue(v any) (*Class, bool) {
	if v == nil {
		return nil, false
	}
	c, ok := r.byType[reflect.TypeOf(v)]
	return c, ok
}

// Names returns the registered class names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options configures the standard classes.
type Options struct {
	Out   io.Writer        // System.print target, os.Stdout when nil
	Clock func() time.Time // System.time source, time.Now when nil
}

// Standard returns a registry holding the classes declared by the prelude.
func Standard(opts Options) *Registry {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	r := NewRegistry()
	for _, c := range []*Class{
		{Name: config.StringClassName, Box: func(v any) any { return String(v.(string)) }, GoType: reflect.TypeOf(String(""))},
		{Name: config.NumberClassName, Box: func(v any) any { return Number(v.(float64)) }, Statics: NumberStatics{}, GoType: reflect.TypeOf(Number(0))},
		{Name: config.BooleanClassName, Box: func(v any) any { return Boolean(v.(bool)) }, GoType: reflect.TypeOf(Boolean(false))},
		{Name: config.ArrayClassName, New: newArray, GoType: reflect.TypeOf(&Array{})},
		{Name: config.ArrayIteratorClassName, GoType: reflect.TypeOf(&ArrayIterator{})},
		{Name: config.SystemClassName, Statics: &SystemStatics{Out: opts.Out, Clock: opts.Clock}},
		{Name: config.AssertClassName, Statics: AssertStatics{}},
		{Name: config.VNodeClassName, GoType: reflect.TypeOf(&VNode{})},
	} {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
	return r
}

func newArray(args []any) (any, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("Array constructor takes no arguments, got %d", len(args))
	}
	return NewArray(), nil
}
