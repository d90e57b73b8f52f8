package evaluator

import (
	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/config"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/natives"
	"github.com/funvibe/clasp/internal/vdom"
)

// evalVDom builds an element. A tag naming a class with render() is a
// component: it is instantiated with the attributes bound as fields and
// its render() result returned. Any failure on that path falls back to a
// plain node.
func (in *Interpreter) evalVDom(e *ast.VDomElement, scope ScopeID) (Value, error) {
	names := make([]string, 0, len(e.Attributes))
	attrs := make(map[string]Value, len(e.Attributes))
	for _, attr := range e.Attributes {
		var v Value = true
		if attr.Value != nil {
			var err error
			if v, err = in.eval(attr.Value, scope); err != nil {
				return nil, err
			}
		}
		names = append(names, attr.Name)
		attrs[attr.Name] = v
	}

	v, ok, err := in.renderComponent(e, names, attrs)
	if err != nil {
		return nil, err
	}
	if ok {
		return v, nil
	}

	node := vdom.NewNode(e.Tag)
	for name, v := range attrs {
		node.Props[name] = propValue(v)
	}
	for _, child := range e.Children {
		switch c := child.(type) {
		case *ast.VDomText:
			node.AddText(c.Text)
		case *ast.VDomElement:
			v, err := in.evalVDom(c, scope)
			if err != nil {
				return nil, err
			}
			appendChild(node, v)
		case *ast.VDomExpression:
			v, err := in.eval(c.Expr, scope)
			if err != nil {
				return nil, err
			}
			appendChild(node, v)
		}
	}
	return in.wrapNode(node, e)
}

// renderComponent reports ok=false when the tag is not a usable component.
// Only cancellation escapes as an error.
func (in *Interpreter) renderComponent(e *ast.VDomElement, names []string, attrs map[string]Value) (Value, bool, error) {
	if _, ok := in.decls[e.Tag].(*ast.ClassDeclaration); !ok {
		return nil, false, nil
	}
	result, err := func() (Value, error) {
		def, err := in.classDef(e.Tag, e)
		if err != nil {
			return nil, err
		}
		if _, ok := def.FindMethod(config.RenderMethodName); !ok {
			return nil, in.errorf(diagnostics.ErrR002, e, "%s has no %s()", e.Tag, config.RenderMethodName)
		}
		inst, err := in.instantiate(def, nil, e)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			inst.Fields[name] = attrs[name]
		}
		return in.callMethod(inst, config.RenderMethodName, nil, e)
	}()
	if err != nil {
		if de, ok := diagnostics.As(err); ok && de.Code == diagnostics.ErrR006 {
			return nil, false, err
		}
		in.logger.Debug("component fallback", zapName(e.Tag))
		return nil, false, nil
	}
	return result, true, nil
}

func propValue(v Value) any {
	switch v.(type) {
	case nil, float64, string, bool:
		return v
	}
	return natives.Stringify(v)
}

func appendChild(node *vdom.Node, v Value) {
	switch x := v.(type) {
	case nil, voidValue:
	case *Instance:
		switch host := x.Native.(type) {
		case *natives.VNode:
			node.AddChild(host.Node)
		case *natives.Array:
			for _, item := range host.Items() {
				appendChild(node, item)
			}
		default:
			node.AddText(natives.Stringify(x))
		}
	case *natives.VNode:
		node.AddChild(x.Node)
	default:
		node.AddText(natives.Stringify(v))
	}
}

// wrapNode returns the node as a VNode instance, or the bare host value
// when no VNode class is declared.
func (in *Interpreter) wrapNode(node *vdom.Node, e *ast.VDomElement) (Value, error) {
	host := &natives.VNode{Node: node}
	if _, ok := in.decls[config.VNodeClassName].(*ast.ClassDeclaration); !ok {
		return host, nil
	}
	def, err := in.classDef(config.VNodeClassName, e)
	if err != nil {
		return nil, err
	}
	return &Instance{Class: def, Fields: make(map[string]Value), Native: host}, nil
}

// NodeOf returns the tree behind a vdom result.
func NodeOf(v Value) (*vdom.Node, bool) {
	switch x := v.(type) {
	case *natives.VNode:
		return x.Node, true
	case *Instance:
		if host, ok := x.Native.(*natives.VNode); ok {
			return host.Node, true
		}
	}
	return nil, false
}
