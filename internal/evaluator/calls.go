package evaluator

import (
	"strconv"

	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/config"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/natives"
)

func (in *Interpreter) evalCall(e *ast.CallExpression, scope ScopeID) (Value, error) {
	switch callee := e.Callee.(type) {
	case *ast.SuperExpression:
		args, err := in.evalArgs(e.Args, scope)
		if err != nil {
			return nil, err
		}
		return in.superConstruct(args, e)
	case *ast.MemberExpression:
		if _, ok := callee.Object.(*ast.SuperExpression); ok {
			args, err := in.evalArgs(e.Args, scope)
			if err != nil {
				return nil, err
			}
			return in.superCall(callee.Property, args, e)
		}
		obj, err := in.eval(callee.Object, scope)
		if err != nil {
			return nil, err
		}
		args, err := in.evalArgs(e.Args, scope)
		if err != nil {
			return nil, err
		}
		// a field holding a lambda
		if inst, ok := obj.(*Instance); ok {
			if fn, ok := inst.Fields[callee.Property.Value]; ok {
				return in.callValue(fn, args, e)
			}
		}
		if cv, ok := obj.(*ClassValue); ok {
			if owner, ok := cv.Class.StaticOwner(callee.Property.Value); ok {
				return in.callValue(owner.Statics[callee.Property.Value], args, e)
			}
		}
		return in.callMethod(obj, callee.Property.Value, args, callee.Property)
	}

	fn, err := in.eval(e.Callee, scope)
	if err != nil {
		return nil, err
	}
	args, err := in.evalArgs(e.Args, scope)
	if err != nil {
		return nil, err
	}
	return in.callValue(fn, args, e)
}

// callValue calls a lambda or a bound method.
func (in *Interpreter) callValue(fn Value, args []Value, node ast.Node) (Value, error) {
	switch f := fn.(type) {
	case *Lambda:
		return in.invokeLambda(f, args, node)
	case *BoundMethod:
		return in.callMethod(f.Receiver, f.Name, args, node)
	case nil:
		return nil, in.errorf(diagnostics.ErrR004, node, "cannot call null")
	}
	return nil, in.errorf(diagnostics.ErrR001, node, "%s is not callable", typeName(fn))
}

// callMethod dispatches name on the runtime class of recv. Script methods
// with a body win; otherwise a same-named host method is called.
func (in *Interpreter) callMethod(recv Value, name string, args []Value, node ast.Node) (Value, error) {
	switch r := recv.(type) {
	case nil:
		return nil, in.errorf(diagnostics.ErrR004, node, "cannot call %s on null", name)
	case *Instance:
		m, declared := r.Class.FindMethod(name)
		if declared && m.IsStatic() {
			declared = false
		}
		if declared && m.HasBody() {
			return in.invoke(m, r.Class, r, args, node)
		}
		if r.Native != nil {
			if method, ok := hostMethod(r.Native, name); ok {
				if declared {
					var err error
					if args, err = in.withDefaults(m, args, node); err != nil {
						return nil, err
					}
				}
				return in.callHost(method, r.Class.Name+"."+name, args, node)
			}
		}
		if declared {
			return nil, in.nativeErrorf(node, "native method %s.%s is not implemented by the host", r.Class.Name, name)
		}
		return nil, in.errorf(diagnostics.ErrR002, node, "%s has no method %s", r.Class.Name, name)
	case *ClassValue:
		return in.callStatic(r.Class, name, args, node)
	case float64, string, bool:
		return in.callBoxed(r, name, args, node)
	}
	return nil, in.errorf(diagnostics.ErrR002, node, "%s has no method %s", typeName(recv), name)
}

func (in *Interpreter) callStatic(cls *ClassDefinition, name string, args []Value, node ast.Node) (Value, error) {
	m, ok := cls.FindMethod(name)
	if !ok || !m.IsStatic() {
		return nil, in.errorf(diagnostics.ErrR002, node, "%s has no static method %s", cls.Name, name)
	}
	if m.HasBody() {
		return in.invoke(m, m.Owner, nil, args, node)
	}
	for _, c := range cls.Chain() {
		if c.Native == nil || c.Native.Statics == nil {
			continue
		}
		if method, ok := hostMethod(c.Native.Statics, name); ok {
			args, err := in.withDefaults(m, args, node)
			if err != nil {
				return nil, err
			}
			return in.callHost(method, cls.Name+"."+name, args, node)
		}
	}
	return nil, in.nativeErrorf(node, "native method %s.%s is not implemented by the host", cls.Name, name)
}

// callBoxed calls a method of a primitive through its boxed class.
func (in *Interpreter) callBoxed(v Value, name string, args []Value, node ast.Node) (Value, error) {
	boxed, err := in.boxedClass(v, node)
	if err != nil {
		return nil, err
	}
	m, declared := boxed.FindMethod(name)
	if declared && m.HasBody() && !m.IsStatic() {
		return in.invoke(m, boxed, v, args, node)
	}
	if boxed.Native == nil || boxed.Native.Box == nil {
		return nil, in.errorf(diagnostics.ErrR002, node, "%s has no method %s", typeName(v), name)
	}
	method, ok := hostMethod(boxed.Native.Box(v), name)
	if !ok {
		if declared {
			return nil, in.nativeErrorf(node, "native method %s.%s is not implemented by the host", boxed.Name, name)
		}
		return nil, in.errorf(diagnostics.ErrR002, node, "%s has no method %s", typeName(v), name)
	}
	if declared {
		if args, err = in.withDefaults(m, args, node); err != nil {
			return nil, err
		}
	}
	return in.callHost(method, boxed.Name+"."+name, args, node)
}

func (in *Interpreter) boxedClass(v Value, node ast.Node) (*ClassDefinition, error) {
	var name string
	switch v.(type) {
	case float64:
		name = config.NumberClassName
	case string:
		name = config.StringClassName
	case bool:
		name = config.BooleanClassName
	}
	return in.classDef(name, node)
}

// hasMethod reports whether name can be called on v.
func (in *Interpreter) hasMethod(v Value, name string) bool {
	switch r := v.(type) {
	case *Instance:
		if m, ok := r.Class.FindMethod(name); ok && !m.IsStatic() {
			return true
		}
		if r.Native != nil {
			_, ok := hostMethod(r.Native, name)
			return ok
		}
	case *ClassValue:
		m, ok := r.Class.FindMethod(name)
		return ok && m.IsStatic()
	case float64, string, bool:
		boxed, err := in.boxedClass(r, nil)
		if err != nil {
			return false
		}
		if _, ok := boxed.FindMethod(name); ok {
			return true
		}
		if boxed.Native != nil && boxed.Native.Box != nil {
			_, ok := hostMethod(boxed.Native.Box(r), name)
			return ok
		}
	}
	return false
}

// superConstruct runs the superclass constructor of the class declaring the
// executing constructor on the current this.
func (in *Interpreter) superConstruct(args []Value, node ast.Node) (Value, error) {
	frame := in.current()
	if frame == nil || frame.owner == nil || frame.owner.Super == nil || frame.this == nil {
		return nil, in.errorf(diagnostics.ErrR001, node, "super(...) is only allowed in the constructor of a subclass")
	}
	ctor, ok := frame.owner.Super.FindConstructor()
	if !ok {
		if len(args) > 0 {
			return nil, in.errorf(diagnostics.ErrR003, node, "%s takes no constructor arguments, got %d", frame.owner.Super.Name, len(args))
		}
		return Void, nil
	}
	if !ctor.HasBody() {
		// the host value was built at instantiation
		return Void, nil
	}
	if _, err := in.invoke(ctor, ctor.Owner, frame.this, args, node); err != nil {
		return nil, err
	}
	return Void, nil
}

// superCall dispatches name statically from the superclass of the class
// declaring the executing method.
func (in *Interpreter) superCall(name *ast.Identifier, args []Value, node ast.Node) (Value, error) {
	frame := in.current()
	if frame == nil || frame.owner == nil || frame.owner.Super == nil || frame.this == nil {
		return nil, in.errorf(diagnostics.ErrR001, node, "super is only available in instance members of a subclass")
	}
	super := frame.owner.Super
	m, declared := super.FindMethod(name.Value)
	if declared && m.HasBody() && !m.IsStatic() {
		return in.invoke(m, super, frame.this, args, node)
	}
	if inst, ok := frame.this.(*Instance); ok && inst.Native != nil {
		if method, ok := hostMethod(inst.Native, name.Value); ok {
			if declared {
				var err error
				if args, err = in.withDefaults(m, args, node); err != nil {
					return nil, err
				}
			}
			return in.callHost(method, super.Name+"."+name.Value, args, node)
		}
	}
	return nil, in.errorf(diagnostics.ErrR002, name, "%s has no method %s", super.Name, name.Value)
}

// invoke runs a script method body with this bound. recvClass is the class
// the method was found from; it stands in as owner for interface defaults.
func (in *Interpreter) invoke(m *MethodDefinition, recvClass *ClassDefinition, this Value, args []Value, node ast.Node) (Value, error) {
	decl := m.Decl
	if err := in.checkArity(m.Name, decl.Params, args, node); err != nil {
		return nil, err
	}
	if len(in.calls) >= MaxCallDepth {
		return nil, in.errorf(diagnostics.ErrR001, node, "maximum call depth %d exceeded", MaxCallDepth)
	}
	owner := m.Owner
	if owner == nil {
		owner = recvClass
	}

	mark := in.env.Mark()
	scope := in.env.Push(in.env.Global())
	in.calls = append(in.calls, &callFrame{method: m, owner: owner, this: this})
	restore := in.enterFile(owner)
	defer func() {
		restore()
		in.calls = in.calls[:len(in.calls)-1]
		in.env.Release(mark)
	}()

	if err := in.bindParams(decl.Params, args, scope); err != nil {
		return nil, err
	}
	out, err := in.execBlock(decl.Body, scope)
	if err != nil {
		return nil, err
	}
	if decl.IsConstructor || out.Kind != Return {
		return Void, nil
	}
	return coerce(out.Value, decl.ReturnType), nil
}

func (in *Interpreter) invokeLambda(l *Lambda, args []Value, node ast.Node) (Value, error) {
	decl := l.Decl
	if err := in.checkArity("lambda", decl.Params, args, node); err != nil {
		return nil, err
	}
	if len(in.calls) >= MaxCallDepth {
		return nil, in.errorf(diagnostics.ErrR001, node, "maximum call depth %d exceeded", MaxCallDepth)
	}
	frame := l.Frame
	if frame == nil {
		frame = &callFrame{}
	}

	mark := in.env.Mark()
	scope := in.env.PushCaptured(l.Scope)
	in.calls = append(in.calls, frame)
	defer func() {
		in.calls = in.calls[:len(in.calls)-1]
		in.env.Release(mark)
	}()

	if err := in.bindParams(decl.Params, args, scope); err != nil {
		return nil, err
	}
	if decl.BodyExpr != nil {
		v, err := in.eval(decl.BodyExpr, scope)
		if err != nil {
			return nil, err
		}
		return coerce(v, decl.ReturnType), nil
	}
	out, err := in.execBlock(decl.BodyBlock, scope)
	if err != nil {
		return nil, err
	}
	if out.Kind != Return {
		return Void, nil
	}
	return coerce(out.Value, decl.ReturnType), nil
}

func (in *Interpreter) checkArity(name string, params []*ast.Parameter, args []Value, node ast.Node) error {
	required := 0
	for _, p := range params {
		if p.Default != nil {
			break
		}
		required++
	}
	if len(args) >= required && len(args) <= len(params) {
		return nil
	}
	if required == len(params) {
		return in.errorf(diagnostics.ErrR003, node, "%s expects %d arguments, got %d", name, len(params), len(args))
	}
	return in.errorf(diagnostics.ErrR003, node, "%s expects between %d and %d arguments, got %d", name, required, len(params), len(args))
}

// bindParams binds args positionally; missing trailing arguments take
// their defaults, evaluated in the callee frame.
func (in *Interpreter) bindParams(params []*ast.Parameter, args []Value, scope ScopeID) error {
	for i, p := range params {
		var v Value
		if i < len(args) {
			v = args[i]
		} else {
			var err error
			if v, err = in.eval(p.Default, scope); err != nil {
				return err
			}
		}
		in.env.Set(scope, p.Name.Value, coerce(v, p.Type))
	}
	return nil
}

// withDefaults completes args for a body-less method called on the host.
func (in *Interpreter) withDefaults(m *MethodDefinition, args []Value, node ast.Node) ([]Value, error) {
	params := m.Decl.Params
	if err := in.checkArity(m.Name, params, args, node); err != nil {
		return nil, err
	}
	if len(args) == len(params) {
		return args, nil
	}
	mark := in.env.Mark()
	defer in.env.Release(mark)
	scope := in.env.Push(in.env.Global())
	if err := in.bindParams(params, args, scope); err != nil {
		return nil, err
	}
	out := make([]Value, len(params))
	for i, p := range params {
		out[i], _ = in.env.Get(scope, p.Name.Value)
	}
	return out, nil
}

// evalInClass evaluates a field initialiser in the context of cls.
func (in *Interpreter) evalInClass(expr ast.Expression, cls *ClassDefinition, this Value) (Value, error) {
	mark := in.env.Mark()
	scope := in.env.Push(in.env.Global())
	in.calls = append(in.calls, &callFrame{owner: cls, this: this})
	restore := in.enterFile(cls)
	defer func() {
		restore()
		in.calls = in.calls[:len(in.calls)-1]
		in.env.Release(mark)
	}()
	return in.eval(expr, scope)
}

// instantiate builds an instance of cls: the host value of a native
// ancestor first, then field initialisers root-first, then the nearest
// constructor up the chain.
func (in *Interpreter) instantiate(cls *ClassDefinition, args []Value, node ast.Node) (*Instance, error) {
	inst := &Instance{Class: cls, Fields: make(map[string]Value)}
	ctor, hasCtor := cls.FindConstructor()

	if native := cls.NativeAncestor(); native != nil {
		if native.Native.New == nil {
			return nil, in.nativeErrorf(node, "native class %s cannot be instantiated", native.Name)
		}
		var hostArgs []Value
		if hasCtor && !ctor.HasBody() {
			var err error
			if hostArgs, err = in.withDefaults(ctor, args, node); err != nil {
				return nil, err
			}
		}
		host, err := callNew(native.Native, hostArgs)
		if err != nil {
			return nil, in.nativeError(node, "new "+native.Name, err)
		}
		inst.Native = host
	}

	chain := cls.Chain()
	for i := len(chain) - 1; i >= 0; i-- {
		for _, f := range chain[i].Fields {
			if f.IsStatic() {
				continue
			}
			var v Value
			if f.Decl.Init != nil {
				var err error
				if v, err = in.evalInClass(f.Decl.Init, chain[i], inst); err != nil {
					return nil, err
				}
			}
			inst.Fields[f.Name] = coerce(v, f.Decl.Type)
		}
	}

	switch {
	case hasCtor && ctor.HasBody():
		if _, err := in.invoke(ctor, ctor.Owner, inst, args, node); err != nil {
			return nil, err
		}
	case !hasCtor && len(args) > 0:
		return nil, in.errorf(diagnostics.ErrR003, node, "%s takes no constructor arguments, got %d", cls.Name, len(args))
	}
	return inst, nil
}

// coerce converts v by literal shape when t names a primitive type.
func coerce(v Value, t ast.TypeNode) Value {
	if t == nil {
		return v
	}
	name, ok := ast.TypeName(t)
	if !ok {
		return v
	}
	switch name {
	case config.NumberTypeName:
		if s, ok := v.(string); ok {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
	case config.StringTypeName:
		switch v.(type) {
		case float64, bool:
			return natives.Stringify(v)
		}
	case config.BooleanTypeName:
		if s, ok := v.(string); ok {
			if b, err := strconv.ParseBool(s); err == nil {
				return b
			}
		}
	}
	return v
}
