package html

import (
	"sort"
	"strings"
)

type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node // Phase 2: Support proper tree structure

	// HitTag is the node's hit-test tag. Unique per document; a node with
	// an empty tag is non-interactive for hit-testing purposes.
	HitTag string

	// Callbacks holds event listeners registered through the builder,
	// keyed by the filter they listen for. Dispatched by pkg/coordinator
	// to the target first, then to each ancestor (no capture phase).
	Callbacks map[EventFilter][]Callback
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// NodeKind refines NodeType with the element-level distinctions the
// builder API and layout solver care about: image and canvas nodes are
// replaced content, iframe nodes host a nested document.
type NodeKind int

const (
	KindElement NodeKind = iota
	KindText
	KindImage
	KindIFrame
	KindCanvas
)

// Kind derives the node's NodeKind from its Type and TagName.
func (n *Node) Kind() NodeKind {
	if n.Type == TextNode {
		return KindText
	}
	switch n.TagName {
	case "img":
		return KindImage
	case "iframe":
		return KindIFrame
	case "canvas":
		return KindCanvas
	}
	return KindElement
}

// EventFilter names the kind of event a callback listens for (e.g.
// "click", "mouseenter", "focus", "keydown").
type EventFilter string

// Event is the payload delivered to a node callback. Fields are
// populated according to Filter; irrelevant fields are left zero.
type Event struct {
	Filter    EventFilter
	X, Y      float64
	Key       string
	Modifiers int
	Text      string
}

// Callback is a node event listener. Returning true suppresses the
// built-in default action (prevent_default semantics).
type Callback func(*Node, Event) bool

// AddCallback registers fn to be invoked when an event matching filter
// reaches this node during dispatch.
func (n *Node) AddCallback(filter EventFilter, fn Callback) {
	if n.Callbacks == nil {
		n.Callbacks = make(map[EventFilter][]Callback)
	}
	n.Callbacks[filter] = append(n.Callbacks[filter], fn)
}

// IDs returns the node's id attribute as a single-element slice, or nil
// if it has none. The data model treats id as a string identifier set;
// HTML only ever contributes at most one.
func (n *Node) IDs() []string {
	if id, ok := n.GetAttribute("id"); ok && id != "" {
		return []string{id}
	}
	return nil
}

// Classes returns the node's whitespace-separated class attribute split
// into individual class names.
func (n *Node) Classes() []string {
	class, ok := n.GetAttribute("class")
	if !ok || class == "" {
		return nil
	}
	return strings.Fields(class)
}

type Document struct {
	Root        *Node
	Stylesheets []string // Phase 3: CSS from <style> tags
	Scripts     []string // JavaScript from <script> tags
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  "document",
			Children: make([]*Node, 0),
		},
		Stylesheets: make([]string, 0),
		Scripts:     make([]string, 0),
	}
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

// AddChild adds a child node and sets up the parent relationship
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	textNode := &Node{
		Type:   TextNode,
		Text:   text,
		Parent: n,
	}
	n.Children = append(n.Children, textNode)
}

// RemoveChild removes the given child from this node's children list,
// clears its parent pointer, and returns the removed child.
// Returns nil if child is not found.
func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return child
		}
	}
	return nil
}

// InsertBefore inserts newChild before refChild in this node's children.
// If refChild is nil, appends newChild at the end.
// If newChild already has a parent, it is removed from that parent first.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	// Remove from old parent if re-parenting
	if newChild.Parent != nil {
		newChild.Parent.RemoveChild(newChild)
	}

	if refChild == nil {
		n.AddChild(newChild)
		return newChild
	}

	for i, c := range n.Children {
		if c == refChild {
			// Insert at position i
			n.Children = append(n.Children, nil)
			copy(n.Children[i+1:], n.Children[i:])
			n.Children[i] = newChild
			newChild.Parent = n
			return newChild
		}
	}

	// refChild not found — append
	n.AddChild(newChild)
	return newChild
}

// CloneNode returns a copy of the node. If deep is true, all descendants
// are cloned recursively. The clone has no parent.
func (n *Node) CloneNode(deep bool) *Node {
	clone := &Node{
		Type:      n.Type,
		TagName:   n.TagName,
		Text:      n.Text,
		HitTag:    n.HitTag,
		Callbacks: n.Callbacks,
	}
	if n.Attributes != nil {
		clone.Attributes = make(map[string]string, len(n.Attributes))
		for k, v := range n.Attributes {
			clone.Attributes[k] = v
		}
	}
	if deep {
		clone.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			childClone := child.CloneNode(true)
			childClone.Parent = clone
			clone.Children[i] = childClone
		}
	} else {
		clone.Children = make([]*Node, 0)
	}
	return clone
}

// Contains returns true if other is a descendant of n (or n itself).
func (n *Node) Contains(other *Node) bool {
	if n == other {
		return true
	}
	for _, child := range n.Children {
		if child.Contains(other) {
			return true
		}
	}
	return false
}

// IndexInParent returns the index of this node among its parent's children,
// or -1 if it has no parent.
func (n *Node) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Serialize returns the innerHTML of this node — the serialized HTML of
// all child nodes, but not the node's own tags.
func (n *Node) Serialize() string {
	var sb strings.Builder
	for _, child := range n.Children {
		serializeNode(&sb, child)
	}
	return sb.String()
}

// SerializeOuter returns the outerHTML of this node — the node's own tags
// plus all descendants.
func (n *Node) SerializeOuter() string {
	var sb strings.Builder
	serializeNode(&sb, n)
	return sb.String()
}

func serializeNode(sb *strings.Builder, n *Node) {
	if n.Type == TextNode {
		sb.WriteString(escapeHTML(n.Text))
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.TagName)

	// Sort attributes for deterministic output
	if len(n.Attributes) > 0 {
		keys := make([]string, 0, len(n.Attributes))
		for k := range n.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteByte(' ')
			sb.WriteString(k)
			sb.WriteString(`="`)
			sb.WriteString(escapeAttr(n.Attributes[k]))
			sb.WriteByte('"')
		}
	}

	if isVoidElement(n.TagName) {
		sb.WriteString(">")
		return
	}

	sb.WriteByte('>')
	for _, child := range n.Children {
		serializeNode(sb, child)
	}
	sb.WriteString("</")
	sb.WriteString(n.TagName)
	sb.WriteByte('>')
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func isVoidElement(tag string) bool {
	switch tag {
	case "br", "hr", "img", "input", "meta", "link", "area", "base",
		"col", "embed", "param", "source", "track", "wbr":
		return true
	}
	return false
}
