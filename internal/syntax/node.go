// Package syntax turns Solidity source text into an immutable tree of typed
// nodes. The node surface mirrors tree-sitter: a node has a grammar kind, a
// byte range into the source and 0-based row/column points. Trees are built
// once by a Parser and never mutated afterwards.
package syntax

// Point is a 0-based row/column position in the source.
type Point struct {
	Row    uint32
	Column uint32
}

// Node is one typed node of a parsed tree.
type Node struct {
	kind       string
	startByte  uint32
	endByte    uint32
	startPoint Point
	endPoint   Point
	children   []*Node
}

// Type returns the grammar kind of the node, e.g. "function_definition" or
// "assignment_expression".
func (n *Node) Type() string { return n.kind }

func (n *Node) StartByte() uint32 { return n.startByte }
func (n *Node) EndByte() uint32   { return n.endByte }

// StartPoint returns the 0-based position of the node's first byte.
func (n *Node) StartPoint() Point { return n.startPoint }
func (n *Node) EndPoint() Point   { return n.endPoint }

func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th direct child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns the direct children in source order. The returned slice
// must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Content returns the source text covered by the node's byte range.
func (n *Node) Content(source []byte) string {
	if int(n.startByte) > len(source) || int(n.endByte) > len(source) {
		return ""
	}
	return string(source[n.startByte:n.endByte])
}

// Walk visits n and every descendant depth-first in source order. Traversal
// stops early when visit returns false for a node's subtree.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, c := range n.children {
		Walk(c, visit)
	}
}

// Tree is the parse result for one source file.
type Tree struct {
	root *Node
}

// RootNode returns the source_file node at the top of the tree.
func (t *Tree) RootNode() *Node { return t.root }
