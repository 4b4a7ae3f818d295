package cstwalk

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// TreeSitterCursor adapts a *sitter.TreeCursor to the Cursor interface.
type TreeSitterCursor struct {
	tc *sitter.TreeCursor
}

// NewTreeSitterCursor wraps tc for use with Walk.
func NewTreeSitterCursor(tc *sitter.TreeCursor) *TreeSitterCursor {
	return &TreeSitterCursor{tc: tc}
}

func (c *TreeSitterCursor) GotoFirstChild() bool { return c.tc.GotoFirstChild() }
func (c *TreeSitterCursor) GotoNextSibling() bool { return c.tc.GotoNextSibling() }
func (c *TreeSitterCursor) GotoParent() bool      { return c.tc.GotoParent() }

func (c *TreeSitterCursor) Node() Node {
	n := c.tc.Node()
	return Node{
		StartByte:  n.StartByte(),
		EndByte:    n.EndByte(),
		Type:       n.GrammarName(),
		ChildCount: int(n.ChildCount()),
	}
}
