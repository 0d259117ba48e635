// Package dom implements the builder API external collaborators (the
// XML/HTML-subset loader, language bindings) use to construct a document
// tree. The builder is authoritative; a loader is one possible frontend
// over it. The underlying tree type is pkg/html.Node — this package adds
// no parallel node representation, only a fluent construction surface
// and the cycle/uniqueness invariants that raw tree mutation wouldn't
// enforce on its own.
package dom

import (
	"vellum/pkg/diag"
	"vellum/pkg/html"
)

// Builder constructs a single node and its subtree. Call methods to set
// attributes, then Build to obtain the finished *html.Node. with_child
// in the external-interface terms is Child/Children here.
type Builder struct {
	node *html.Node
}

// NodeElement starts a builder for an element node with the given tag.
func NodeElement(tag string) *Builder {
	return &Builder{node: &html.Node{
		Type:       html.ElementNode,
		TagName:    tag,
		Attributes: make(map[string]string),
	}}
}

// NodeText starts a builder for a text node.
func NodeText(text string) *Builder {
	return &Builder{node: &html.Node{Type: html.TextNode, Text: text}}
}

// WithID sets the node's id attribute.
func (b *Builder) WithID(id string) *Builder {
	b.node.Attributes["id"] = id
	return b
}

// WithClass appends a class to the node's class attribute.
func (b *Builder) WithClass(class string) *Builder {
	existing := b.node.Attributes["class"]
	if existing == "" {
		b.node.Attributes["class"] = class
	} else {
		b.node.Attributes["class"] = existing + " " + class
	}
	return b
}

// WithAttribute sets an arbitrary attribute.
func (b *Builder) WithAttribute(name, value string) *Builder {
	b.node.Attributes[name] = value
	return b
}

// WithHitTag sets the node's hit-test tag.
func (b *Builder) WithHitTag(tag string) *Builder {
	b.node.HitTag = tag
	return b
}

// WithCallback registers an event listener for filter.
func (b *Builder) WithCallback(filter html.EventFilter, fn html.Callback) *Builder {
	b.node.AddCallback(filter, fn)
	return b
}

// WithChild appends child's built node as a child of this node.
func (b *Builder) WithChild(child *Builder) *Builder {
	b.node.AddChild(child.Build())
	return b
}

// WithChildren appends each child's built node in order.
func (b *Builder) WithChildren(children ...*Builder) *Builder {
	for _, c := range children {
		b.WithChild(c)
	}
	return b
}

// Build returns the constructed node.
func (b *Builder) Build() *html.Node {
	return b.node
}

// ValidateTree checks the invariants a builder-constructed tree must
// hold before it is handed to the cascade/layout pipeline: every node
// has at most one parent (guaranteed by construction), no cycles, and
// hit-test tags are unique across the document.
func ValidateTree(root *html.Node) *diag.Error {
	seen := make(map[*html.Node]bool)
	tags := make(map[string]bool)
	var walk func(n *html.Node) *diag.Error
	walk = func(n *html.Node) *diag.Error {
		if seen[n] {
			return diag.New(diag.InvariantViolation, "dom", "cycle detected in node tree", nil)
		}
		seen[n] = true
		if n.HitTag != "" {
			if tags[n.HitTag] {
				return diag.New(diag.InvariantViolation, "dom", "duplicate hit-test tag "+quote(n.HitTag), nil)
			}
			tags[n.HitTag] = true
		}
		for _, child := range n.Children {
			if child.Parent != n {
				return diag.New(diag.InvariantViolation, "dom", "child with mismatched parent pointer", nil)
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root)
}

func quote(s string) string { return "\"" + s + "\"" }
