package evaluator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/natives"
)

// Value is a runtime value: float64, string, bool, nil (null), Void,
// *Instance, *ClassValue, *Lambda or *BoundMethod. Host code sees the same
// representation.
type Value = any

type voidValue struct{}

func (voidValue) String() string { return "void" }

// Void is the result of calls that return nothing.
var Void Value = voidValue{}

// Instance is an object of a script or native class.
type Instance struct {
	Class  *ClassDefinition
	Fields map[string]Value
	Native any // host value for instances of @native classes
}

func (i *Instance) String() string {
	if i.Native != nil {
		return natives.Stringify(i.Native)
	}
	var parts []string
	for _, cls := range i.Class.Chain() {
		for _, f := range cls.Fields {
			if !f.IsStatic() {
				parts = append(parts, f.Name+"="+natives.Stringify(i.Fields[f.Name]))
			}
		}
	}
	return i.Class.Name + "{" + strings.Join(parts, ", ") + "}"
}

// Equal is identity, except that wrappers of one host value are equal.
func (i *Instance) Equal(other any) bool {
	o, ok := other.(*Instance)
	if !ok {
		return false
	}
	if i == o {
		return true
	}
	return i.Native != nil && o.Native != nil && isPointer(i.Native) && i.Native == o.Native
}

func isPointer(v any) bool {
	return reflect.ValueOf(v).Kind() == reflect.Ptr
}

// ClassValue is a class name used as a value, the receiver of static
// member access.
type ClassValue struct {
	Class *ClassDefinition
}

func (c *ClassValue) String() string { return "class " + c.Class.Name }

// Lambda is a closure over the frame it was created in.
type Lambda struct {
	Decl  *ast.LambdaExpression
	Scope Captured
	Frame *callFrame // method context of the creating body
}

func (l *Lambda) String() string { return "lambda" + l.Decl.String() }

// BoundMethod is a method read as a value.
type BoundMethod struct {
	Receiver Value
	Name     string
}

func (b *BoundMethod) String() string { return "method " + b.Name }

func typeName(v Value) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	case voidValue:
		return "void"
	case *Instance:
		return v.Class.Name
	case *ClassValue:
		return v.String()
	case *Lambda, *BoundMethod:
		return "function"
	}
	return fmt.Sprintf("%T", v)
}
