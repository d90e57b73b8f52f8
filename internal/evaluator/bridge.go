package evaluator

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/natives"
)

var (
	errorType = reflect.TypeOf((*error)(nil)).Elem()
	funcType  = reflect.TypeOf(natives.Func(nil))
)

// goName maps a script method name to the exported Go method name.
func goName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// hostMethod finds the Go method backing name on a host value.
func hostMethod(target any, name string) (reflect.Value, bool) {
	if target == nil {
		return reflect.Value{}, false
	}
	m := reflect.ValueOf(target).MethodByName(goName(name))
	return m, m.IsValid()
}

func callNew(cls *natives.Class, args []Value) (host any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return cls.New(args)
}

// callHost calls a host method, converting arguments by the Go parameter
// types and the result back into a script value. A trailing error result
// becomes a NativeError.
func (in *Interpreter) callHost(method reflect.Value, name string, args []Value, node ast.Node) (Value, error) {
	ft := method.Type()
	if ft.IsVariadic() {
		if len(args) < ft.NumIn()-1 {
			return nil, in.nativeErrorf(node, "%s expects at least %d arguments, got %d", name, ft.NumIn()-1, len(args))
		}
	} else if ft.NumIn() != len(args) {
		return nil, in.nativeErrorf(node, "%s expects %d arguments, got %d", name, ft.NumIn(), len(args))
	}

	in.logger.Debug("host call", zap.String("method", name))
	argv := make([]reflect.Value, len(args))
	for i, arg := range args {
		var t reflect.Type
		if ft.IsVariadic() && i >= ft.NumIn()-1 {
			t = ft.In(ft.NumIn() - 1).Elem()
		} else {
			t = ft.In(i)
		}
		v, err := in.fromValue(arg, t, node)
		if err != nil {
			return nil, in.nativeErrorf(node, "%s: argument %d: %v", name, i+1, err)
		}
		argv[i] = v
	}

	out, err := safeCall(method, argv)
	if err != nil {
		return nil, in.nativeError(node, name, err)
	}
	if n := len(out); n > 0 && ft.Out(n-1) == errorType {
		if e := out[n-1]; !e.IsNil() {
			return nil, in.nativeError(node, name, e.Interface().(error))
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return Void, nil
	case 1:
		return in.toValue(out[0].Interface(), node)
	}
	return nil, in.nativeErrorf(node, "%s returns %d values", name, len(out))
}

func safeCall(method reflect.Value, argv []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return method.Call(argv), nil
}

// toValue converts a host result into a script value. Host types
// registered for a native class come back as instances of that class.
func (in *Interpreter) toValue(v any, node ast.Node) (Value, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case float64, string, bool:
		return x, nil
	case *Instance, *ClassValue, *Lambda, *BoundMethod, voidValue:
		return x, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		if rv.IsNil() {
			return nil, nil
		}
	}

	if cls, ok := in.natives.ForValue(v); ok {
		def, err := in.classDef(cls.Name, node)
		if err != nil {
			return nil, err
		}
		return &Instance{Class: def, Fields: make(map[string]Value), Native: v}, nil
	}
	return nil, in.nativeErrorf(node, "unsupported host value of type %T", v)
}

func isEmptyInterface(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}

// fromValue converts a script value for a Go parameter of type t.
func (in *Interpreter) fromValue(v Value, t reflect.Type, node ast.Node) (reflect.Value, error) {
	if t == funcType {
		if v == nil {
			return reflect.Zero(t), nil
		}
		switch v.(type) {
		case *Lambda, *BoundMethod:
		default:
			return reflect.Value{}, fmt.Errorf("cannot pass %s as a function", typeName(v))
		}
		fn := natives.Func(func(args ...any) (any, error) {
			res, err := in.callValue(v, args, node)
			if err != nil {
				return nil, err
			}
			if res == Void {
				return nil, nil
			}
			return res, nil
		})
		return reflect.ValueOf(fn), nil
	}

	if v == nil {
		return reflect.Zero(t), nil
	}
	// An any parameter keeps the instance itself, so a script subclass of a
	// native class comes back with its own class and fields.
	if inst, ok := v.(*Instance); ok && inst.Native != nil && !isEmptyInterface(t) {
		if nv := reflect.ValueOf(inst.Native); nv.Type().AssignableTo(t) {
			return nv, nil
		}
	}
	rv := reflect.ValueOf(v)
	if t.Kind() == reflect.Interface {
		if rv.Type().Implements(t) {
			return rv.Convert(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot pass %s as %s", typeName(v), t)
	}

	switch x := v.(type) {
	case float64:
		switch t.Kind() {
		case reflect.Float32, reflect.Float64,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return reflect.ValueOf(x).Convert(t), nil
		}
	case string:
		if t.Kind() == reflect.String {
			return reflect.ValueOf(x).Convert(t), nil
		}
	case bool:
		if t.Kind() == reflect.Bool {
			return reflect.ValueOf(x).Convert(t), nil
		}
	}
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot pass %s as %s", typeName(v), t)
}
