package dom

import (
	"github.com/antchfx/xpath"
	"golang.org/x/exp/slices"
)

// nav walks the arena for the xpath evaluator. A position is a node plus an
// optional attribute index; attr < 0 means the node itself.
type nav struct {
	doc  *Document
	root NodeID
	cur  NodeID
	attr int
}

var _ xpath.NodeNavigator = (*nav)(nil)

func (d *Document) navigator(ctx NodeID) *nav {
	return &nav{doc: d, root: 0, cur: ctx, attr: -1}
}

func (n *nav) node() *node { return &n.doc.nodes[n.cur] }

func (n *nav) NodeType() xpath.NodeType {
	if n.attr >= 0 {
		return xpath.AttributeNode
	}
	switch n.node().kind {
	case ElementNode:
		return xpath.ElementNode
	case TextNode:
		return xpath.TextNode
	case CommentNode, DoctypeNode:
		return xpath.CommentNode
	default:
		return xpath.RootNode
	}
}

func (n *nav) LocalName() string {
	if n.attr >= 0 {
		return n.node().attrs[n.attr].Key
	}
	if n.node().kind == ElementNode {
		return n.node().data
	}
	return ""
}

func (n *nav) Prefix() string { return "" }

func (n *nav) Value() string {
	if n.attr >= 0 {
		return n.node().attrs[n.attr].Val
	}
	switch n.node().kind {
	case TextNode, CommentNode:
		return n.node().data
	default:
		return n.doc.element(n.cur).Text()
	}
}

func (n *nav) Copy() xpath.NodeNavigator {
	c := *n
	return &c
}

func (n *nav) MoveToRoot() {
	n.cur, n.attr = n.root, -1
}

func (n *nav) MoveToParent() bool {
	if n.attr >= 0 {
		n.attr = -1
		return true
	}
	p := n.node().parent
	if p == None {
		return false
	}
	n.cur = p
	return true
}

func (n *nav) MoveToNextAttribute() bool {
	nd := n.node()
	if nd.kind != ElementNode || n.attr+1 >= len(nd.attrs) {
		return false
	}
	n.attr++
	return true
}

func (n *nav) MoveToChild() bool {
	if n.attr >= 0 {
		return false
	}
	children := n.node().children
	if len(children) == 0 {
		return false
	}
	n.cur = children[0]
	return true
}

// MoveToFirst moves to the first sibling of the current node.
func (n *nav) MoveToFirst() bool {
	if n.attr >= 0 {
		return false
	}
	p := n.node().parent
	if p == None {
		return false
	}
	n.cur = n.doc.nodes[p].children[0]
	return true
}

func (n *nav) MoveToNext() bool {
	return n.moveSibling(1)
}

func (n *nav) MoveToPrevious() bool {
	return n.moveSibling(-1)
}

func (n *nav) moveSibling(delta int) bool {
	if n.attr >= 0 {
		return false
	}
	p := n.node().parent
	if p == None {
		return false
	}
	siblings := n.doc.nodes[p].children
	i := slices.Index(siblings, n.cur) + delta
	if i < 0 || i >= len(siblings) {
		return false
	}
	n.cur = siblings[i]
	return true
}

func (n *nav) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*nav)
	if !ok || o.doc != n.doc {
		return false
	}
	n.cur, n.attr = o.cur, o.attr
	return true
}
