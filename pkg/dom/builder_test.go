package dom

import (
	"testing"

	"vellum/pkg/html"
)

func TestBuilder_BasicTree(t *testing.T) {
	root := NodeElement("div").
		WithID("header").
		WithClass("highlight").
		WithChild(NodeElement("span").WithChild(NodeText("hello"))).
		Build()

	if root.TagName != "div" {
		t.Fatalf("expected tag div, got %s", root.TagName)
	}
	if id, _ := root.GetAttribute("id"); id != "header" {
		t.Errorf("expected id=header, got %q", id)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(root.Children))
	}
	span := root.Children[0]
	if span.TagName != "span" {
		t.Errorf("expected span, got %s", span.TagName)
	}
	if span.Children[0].Text != "hello" {
		t.Errorf("expected text 'hello', got %q", span.Children[0].Text)
	}
	if span.Children[0].Parent != span {
		t.Error("text node should have span as parent")
	}
}

func TestBuilder_WithCallback(t *testing.T) {
	fired := false
	root := NodeElement("button").
		WithCallback("click", func(n *html.Node, e html.Event) bool {
			fired = true
			return false
		}).
		Build()

	if len(root.Callbacks["click"]) != 1 {
		t.Fatalf("expected 1 click callback, got %d", len(root.Callbacks["click"]))
	}
	root.Callbacks["click"][0](root, html.Event{Filter: "click"})
	if !fired {
		t.Error("callback should have fired")
	}
}

func TestValidateTree_DuplicateHitTag(t *testing.T) {
	a := NodeElement("div").WithHitTag("dup").Build()
	b := NodeElement("div").WithHitTag("dup").Build()
	a.AddChild(b)

	if err := ValidateTree(a); err == nil {
		t.Fatal("expected duplicate hit-test tag to be rejected")
	}
}

func TestValidateTree_OK(t *testing.T) {
	root := NodeElement("div").
		WithHitTag("a").
		WithChild(NodeElement("span").WithHitTag("b")).
		Build()

	if err := ValidateTree(root); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
