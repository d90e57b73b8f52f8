package vdom

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestRender(t *testing.T) {
	root := NewNode("div")
	root.Props["id"] = "main"
	root.Props["class"] = `a "b"`
	root.Props["hidden"] = false
	root.Props["disabled"] = true
	root.Props["width"] = 10.0
	root.AddText("Hello")
	root.AddText("world")
	span := NewNode("span")
	span.AddText("<x>")
	root.AddChild(span)

	want := `<div class="a &#34;b&#34;" disabled id="main" width="10">Hello world<span>&lt;x&gt;</span></div>`
	if got := Render(root); got != want {
		t.Errorf("Render:\n got %s\nwant %s", got, want)
	}
	if len(root.Children) != 2 {
		t.Errorf("adjacent text should be joined, got %d children", len(root.Children))
	}
}

func TestHosts(t *testing.T) {
	root := NewNode("p")
	root.AddText("hi")

	var html bytes.Buffer
	if err := (&HTMLHost{W: &html}).Mount(root); err != nil {
		t.Fatal(err)
	}
	if html.String() != "<p>hi</p>\n" {
		t.Errorf("unexpected html %q", html.String())
	}

	var out bytes.Buffer
	if err := (&JSONHost{W: &out}).Mount(root); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["tag"] != "p" || decoded["children"].([]any)[0] != "hi" {
		t.Errorf("unexpected json %s", out.String())
	}
}
