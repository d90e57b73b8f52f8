package vdom

import (
	"fmt"
	"sort"
)

// Node is a plain element: the tree handed to UI hosts. Children are
// *Node or string.
type Node struct {
	Tag      string         `json:"tag"`
	Props    map[string]any `json:"props"`
	Children []any          `json:"children"`
}

func NewNode(tag string) *Node {
	return &Node{Tag: tag, Props: make(map[string]any)}
}

// AddText appends text, joining it to a preceding text child with a single
// space.
func (n *Node) AddText(text string) {
	if text == "" {
		return
	}
	if last := len(n.Children) - 1; last >= 0 {
		if prev, ok := n.Children[last].(string); ok {
			n.Children[last] = prev + " " + text
			return
		}
	}
	n.Children = append(n.Children, text)
}

func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// PropNames returns the property names in sorted order.
func (n *Node) PropNames() []string {
	names := make([]string, 0, len(n.Props))
	for name := range n.Props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (n *Node) String() string {
	return fmt.Sprintf("<%s>(%d children)", n.Tag, len(n.Children))
}
