package evaluator

import (
	"math"

	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/config"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/natives"
)

func (in *Interpreter) eval(expr ast.Expression, scope ScopeID) (Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return e.Value, nil
	case *ast.StringLiteral:
		return e.Value, nil
	case *ast.BooleanLiteral:
		return e.Value, nil
	case *ast.NullLiteral:
		return nil, nil
	case *ast.Identifier:
		return in.evalIdentifier(e, scope)
	case *ast.ThisExpression:
		frame := in.current()
		if frame == nil || frame.this == nil {
			return nil, in.errorf(diagnostics.ErrR001, e, "this is not available here")
		}
		return frame.this, nil
	case *ast.SuperExpression:
		return nil, in.errorf(diagnostics.ErrR001, e, "super must be called or followed by a member access")
	case *ast.UnaryExpression:
		return in.evalUnary(e, scope)
	case *ast.BinaryExpression:
		return in.evalBinary(e, scope)
	case *ast.AssignmentExpression:
		return in.evalAssignment(e, scope)
	case *ast.MemberExpression:
		return in.evalMember(e, scope)
	case *ast.IndexExpression:
		obj, err := in.eval(e.Object, scope)
		if err != nil {
			return nil, err
		}
		idx, err := in.eval(e.Index, scope)
		if err != nil {
			return nil, err
		}
		return in.callMethod(obj, config.IndexGetMethod, []Value{idx}, e)
	case *ast.CallExpression:
		return in.evalCall(e, scope)
	case *ast.NewExpression:
		return in.evalNew(e, scope)
	case *ast.ArrayLiteral:
		return in.evalArray(e, scope)
	case *ast.LambdaExpression:
		return &Lambda{Decl: e, Scope: in.env.Capture(scope), Frame: in.current()}, nil
	case *ast.VDomElement:
		return in.evalVDom(e, scope)
	}
	return nil, in.errorf(diagnostics.ErrR001, expr, "unsupported expression %T", expr)
}

func (in *Interpreter) evalIdentifier(id *ast.Identifier, scope ScopeID) (Value, error) {
	if v, ok := in.env.Get(scope, id.Value); ok {
		return v, nil
	}
	if _, ok := in.decls[id.Value].(*ast.ClassDeclaration); ok {
		def, err := in.classDef(id.Value, id)
		if err != nil {
			return nil, err
		}
		return &ClassValue{Class: def}, nil
	}
	return nil, in.errorf(diagnostics.ErrR001, id, "undefined name %s", id.Value)
}

func (in *Interpreter) evalArgs(args []ast.Expression, scope ScopeID) ([]Value, error) {
	out := make([]Value, len(args))
	for i, arg := range args {
		v, err := in.eval(arg, scope)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (in *Interpreter) evalUnary(e *ast.UnaryExpression, scope ScopeID) (Value, error) {
	v, err := in.eval(e.Operand, scope)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "-":
		if n, ok := v.(float64); ok {
			return -n, nil
		}
	case "!":
		if b, ok := v.(bool); ok {
			return !b, nil
		}
	}
	return nil, in.errorf(diagnostics.ErrR001, e, "operator %s cannot be applied to %s", e.Operator, typeName(v))
}

func (in *Interpreter) evalBinary(e *ast.BinaryExpression, scope ScopeID) (Value, error) {
	left, err := in.eval(e.Left, scope)
	if err != nil {
		return nil, err
	}

	// && and || short-circuit
	if e.Operator == "&&" || e.Operator == "||" {
		lb, ok := left.(bool)
		if !ok {
			return nil, in.errorf(diagnostics.ErrR001, e.Left, "operator %s needs boolean, got %s", e.Operator, typeName(left))
		}
		if lb == (e.Operator == "||") {
			return lb, nil
		}
		right, err := in.eval(e.Right, scope)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(bool)
		if !ok {
			return nil, in.errorf(diagnostics.ErrR001, e.Right, "operator %s needs boolean, got %s", e.Operator, typeName(right))
		}
		return rb, nil
	}

	right, err := in.eval(e.Right, scope)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "==":
		return natives.Equal(left, right), nil
	case "!=":
		return !natives.Equal(left, right), nil
	case "+":
		_, ls := left.(string)
		_, rs := right.(string)
		if ls || rs {
			return natives.Stringify(left) + natives.Stringify(right), nil
		}
	}

	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		return nil, in.errorf(diagnostics.ErrR001, e, "operator %s cannot be applied to %s and %s", e.Operator, typeName(left), typeName(right))
	}
	switch e.Operator {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, in.errorf(diagnostics.ErrR001, e, "division by zero")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return nil, in.errorf(diagnostics.ErrR001, e, "division by zero")
		}
		return math.Mod(l, r), nil
	case "<":
		return l < r, nil
	case ">":
		return l > r, nil
	case "<=":
		return l <= r, nil
	case ">=":
		return l >= r, nil
	}
	return nil, in.errorf(diagnostics.ErrR001, e, "unknown operator %s", e.Operator)
}

func (in *Interpreter) evalAssignment(e *ast.AssignmentExpression, scope ScopeID) (Value, error) {
	switch t := e.Target.(type) {
	case *ast.Identifier:
		v, err := in.eval(e.Value, scope)
		if err != nil {
			return nil, err
		}
		if !in.env.Update(scope, t.Value, v) {
			return nil, in.errorf(diagnostics.ErrR001, t, "undefined name %s", t.Value)
		}
		return v, nil
	case *ast.MemberExpression:
		obj, err := in.evalReceiver(t.Object, scope)
		if err != nil {
			return nil, err
		}
		v, err := in.eval(e.Value, scope)
		if err != nil {
			return nil, err
		}
		return v, in.setMember(obj, t.Property, v)
	case *ast.IndexExpression:
		obj, err := in.eval(t.Object, scope)
		if err != nil {
			return nil, err
		}
		idx, err := in.eval(t.Index, scope)
		if err != nil {
			return nil, err
		}
		v, err := in.eval(e.Value, scope)
		if err != nil {
			return nil, err
		}
		if _, err := in.callMethod(obj, config.IndexSetMethod, []Value{idx, v}, e); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, in.errorf(diagnostics.ErrR001, e.Target, "invalid assignment target")
}

// evalReceiver evaluates the object of a member access; super reads as
// this.
func (in *Interpreter) evalReceiver(object ast.Expression, scope ScopeID) (Value, error) {
	if _, ok := object.(*ast.SuperExpression); ok {
		frame := in.current()
		if frame == nil || frame.this == nil {
			return nil, in.errorf(diagnostics.ErrR001, object, "super is only available in instance members")
		}
		return frame.this, nil
	}
	return in.eval(object, scope)
}

func (in *Interpreter) setMember(obj Value, name *ast.Identifier, v Value) error {
	switch o := obj.(type) {
	case nil:
		return in.errorf(diagnostics.ErrR004, name, "cannot set %s on null", name.Value)
	case *Instance:
		o.Fields[name.Value] = coerce(v, o.Class.fieldType(name.Value))
		return nil
	case *ClassValue:
		owner, ok := o.Class.StaticOwner(name.Value)
		if !ok {
			return in.errorf(diagnostics.ErrR002, name, "%s has no static field %s", o.Class.Name, name.Value)
		}
		owner.Statics[name.Value] = v
		return nil
	}
	return in.errorf(diagnostics.ErrR002, name, "cannot set %s on %s", name.Value, typeName(obj))
}

func (in *Interpreter) evalMember(e *ast.MemberExpression, scope ScopeID) (Value, error) {
	obj, err := in.evalReceiver(e.Object, scope)
	if err != nil {
		return nil, err
	}
	return in.getMember(obj, e.Property)
}

// getMember reads a field, or a method as a bound value.
func (in *Interpreter) getMember(obj Value, name *ast.Identifier) (Value, error) {
	switch o := obj.(type) {
	case nil:
		return nil, in.errorf(diagnostics.ErrR004, name, "cannot read %s of null", name.Value)
	case *Instance:
		if v, ok := o.Fields[name.Value]; ok {
			return v, nil
		}
		if o.Class.hasInstanceField(name.Value) {
			return nil, nil
		}
	case *ClassValue:
		if owner, ok := o.Class.StaticOwner(name.Value); ok {
			return owner.Statics[name.Value], nil
		}
	}
	if in.hasMethod(obj, name.Value) {
		return &BoundMethod{Receiver: obj, Name: name.Value}, nil
	}
	return nil, in.errorf(diagnostics.ErrR002, name, "%s has no member %s", typeName(obj), name.Value)
}

func (in *Interpreter) evalNew(e *ast.NewExpression, scope ScopeID) (Value, error) {
	name, _ := ast.TypeName(e.Type)
	def, err := in.classDef(name, e.Type)
	if err != nil {
		return nil, err
	}
	args, err := in.evalArgs(e.Args, scope)
	if err != nil {
		return nil, err
	}
	return in.instantiate(def, args, e)
}

func (in *Interpreter) evalArray(e *ast.ArrayLiteral, scope ScopeID) (Value, error) {
	items, err := in.evalArgs(e.Elements, scope)
	if err != nil {
		return nil, err
	}
	def, err := in.classDef(config.ArrayClassName, e)
	if err != nil {
		return nil, err
	}
	return &Instance{Class: def, Fields: make(map[string]Value), Native: natives.NewArray(items...)}, nil
}

// fieldType is the annotation of the instance field name along the chain.
func (c *ClassDefinition) fieldType(name string) ast.TypeNode {
	for _, cls := range c.Chain() {
		for _, f := range cls.Fields {
			if f.Name == name && !f.IsStatic() {
				return f.Decl.Type
			}
		}
	}
	return nil
}

func (c *ClassDefinition) hasInstanceField(name string) bool {
	for _, cls := range c.Chain() {
		for _, f := range cls.Fields {
			if f.Name == name && !f.IsStatic() {
				return true
			}
		}
	}
	return false
}
