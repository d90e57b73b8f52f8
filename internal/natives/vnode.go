package natives

import "github.com/funvibe/clasp/internal/vdom"

// VNode is the host value behind the VNode class.
type VNode struct {
	Node *vdom.Node
}

func (v *VNode) Tag() string         { return v.Node.Tag }
func (v *VNode) ChildCount() float64 { return float64(len(v.Node.Children)) }
func (v *VNode) Render() string      { return vdom.Render(v.Node) }
func (v *VNode) String() string      { return vdom.Render(v.Node) }
