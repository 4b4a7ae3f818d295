// Package cstwalk drives a pre-order traversal over an external
// parser's concrete syntax tree, dispatching each leaf to the
// segmenter/arena pipeline by node-type name. The driver depends only
// on the narrow Cursor interface below, not on any specific parser
// library, so the concrete tree-sitter adapter (cursor_treesitter.go)
// is swappable for a test double.
package cstwalk

// Node is the minimal shape the driver needs from a CST node: its byte
// span, its type name, and how many children it has.
type Node struct {
	StartByte  uint32
	EndByte    uint32
	Type       string
	ChildCount int
}

// Cursor is the external parser's traversal contract: descend to the
// first child, move to the next sibling, ascend to the parent, and
// read the node currently under the cursor. Implementations follow
// tree-sitter's cursor semantics (GotoFirstChild/GotoNextSibling return
// false when there is nowhere to move, leaving the cursor unmoved).
type Cursor interface {
	GotoFirstChild() bool
	GotoNextSibling() bool
	GotoParent() bool
	Node() Node
}

// Visitor receives one callback per leaf node encountered, along with
// its nesting depth modulo 8. skipThrough, if nonzero, is a byte
// offset the driver should silently skip to before resuming
// dispatch (set by the arena's symbol eater to suppress a leaf that
// was already absorbed into the previous token).
type Visitor interface {
	VisitLeaf(n Node, depth uint8) (skipThrough uint32)
}

// Walk performs a pre-order traversal starting at the cursor's current
// position, calling v.VisitLeaf for every zero-child node not already
// skipped by a prior absorption.
func Walk(c Cursor, v Visitor) {
	depth := uint8(0)
	var skipUntil uint32

	for {
		n := c.Node()
		if n.ChildCount == 0 {
			if n.StartByte >= skipUntil {
				if through := v.VisitLeaf(n, depth%8); through > skipUntil {
					skipUntil = through
				}
			}
		}

		if n.ChildCount > 0 && c.GotoFirstChild() {
			depth++
			continue
		}

		for {
			if c.GotoNextSibling() {
				break
			}
			if !c.GotoParent() {
				return
			}
			depth--
		}
	}
}
