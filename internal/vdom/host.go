package vdom

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"
)

// Host consumes trees produced by vdom expressions.
type Host interface {
	Mount(root *Node) error
}

// HTMLHost writes trees as HTML markup.
type HTMLHost struct {
	W io.Writer
}

func (h *HTMLHost) Mount(root *Node) error {
	_, err := io.WriteString(h.W, Render(root)+"\n")
	return err
}

// JSONHost writes one JSON document per tree, for external renderers.
type JSONHost struct {
	W io.Writer
}

func (h *JSONHost) Mount(root *Node) error {
	return json.NewEncoder(h.W).Encode(root)
}

// Render returns the HTML markup of n. Attributes are sorted and escaped;
// false and null attributes are omitted, true renders as a bare name.
func Render(n *Node) string {
	var b strings.Builder
	render(&b, n)
	return b.String()
}

func render(b *strings.Builder, n *Node) {
	b.WriteString("<" + n.Tag)
	for _, name := range n.PropNames() {
		switch v := n.Props[name].(type) {
		case nil:
		case bool:
			if v {
				b.WriteString(" " + name)
			}
		default:
			fmt.Fprintf(b, " %s=\"%s\"", name, html.EscapeString(formatProp(v)))
		}
	}
	b.WriteString(">")
	for _, child := range n.Children {
		switch c := child.(type) {
		case *Node:
			render(b, c)
		case string:
			b.WriteString(html.EscapeString(c))
		}
	}
	b.WriteString("</" + n.Tag + ">")
}

func formatProp(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}
