package platform

import (
	"hash/fnv"
	"io"
)

// MenuNode is one entry of a MenuTree, per spec §6: "a recursive structure
// of StringItem(label, accelerator?, callback?, children[]), Separator,
// BreakLine", grounded on azul-desktop's MenuItem enum
// (shell/appkit/menu.rs's recursive_construct_menu walks exactly these
// three variants).
type MenuNode interface {
	menuNode()
}

// StringItem is a labeled, optionally accelerated, optionally leaf/branch
// menu entry. A non-empty Children makes it a submenu rather than a
// clickable command, matching menu.rs's "if mi.children.is_empty()" split.
type StringItem struct {
	Label       string
	Accelerator string
	Callback    func()
	Children    []MenuNode
}

func (StringItem) menuNode() {}

// Separator is a horizontal divider between menu items.
type Separator struct{}

func (Separator) menuNode() {}

// BreakLine forces the next item onto a new column on platforms that
// support multi-column native menus.
type BreakLine struct{}

func (BreakLine) menuNode() {}

// MenuTree is the root of a native menu, rebuilt by the host whenever
// Hash() changes from the last value it saw, per spec §6: "Hash of the
// tree determines whether the host must rebuild its native menu."
type MenuTree struct {
	Items []MenuNode
}

// Hash computes a structural hash of the tree (labels, accelerators, and
// shape, not callback identity — two trees with equivalent labels/shape
// but different closures hash equal, since the host only needs to know
// whether the *visible* menu changed).
func (t MenuTree) Hash() uint64 {
	h := fnv.New64a()
	hashNodes(h, t.Items)
	return h.Sum64()
}

func hashNodes(h io.Writer, nodes []MenuNode) {
	for _, n := range nodes {
		switch v := n.(type) {
		case StringItem:
			h.Write([]byte{'S'})
			h.Write([]byte(v.Label))
			h.Write([]byte{0})
			h.Write([]byte(v.Accelerator))
			h.Write([]byte{0})
			hashNodes(h, v.Children)
		case Separator:
			h.Write([]byte{'-'})
		case BreakLine:
			h.Write([]byte{'|'})
		}
	}
}
