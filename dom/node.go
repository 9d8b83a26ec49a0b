// Package dom holds markup node trees in a per-document arena and answers
// CSS and XPath queries over them. Selector parsing and translation live in
// the css package; golang.org/x/net/html supplies parsing and serialization
// of markup text; github.com/antchfx/xpath evaluates the translated
// expressions.
package dom

import (
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/net/html"
)

// NodeID addresses a node inside its document's arena. IDs are stable for
// the lifetime of the document; 0 is the document node itself.
type NodeID int32

// None marks the absence of a node.
const None NodeID = -1

type Kind uint8

const (
	DocumentNode Kind = iota
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
)

// node is one arena slot. children are in document order; parent is a
// non-owning back reference.
type node struct {
	kind     Kind
	data     string // tag name for elements, text otherwise
	attrs    []html.Attribute
	parent   NodeID
	children []NodeID
}

// Document owns an arena of nodes. Handles into it stay valid across
// mutation; nodes are only ever added, never removed or moved.
type Document struct {
	nodes []node
}

func NewDocument() *Document {
	return &Document{nodes: []node{{kind: DocumentNode, parent: None}}}
}

func (d *Document) alloc(kind Kind, data string, attrs []html.Attribute, parent NodeID) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, node{kind: kind, data: data, attrs: attrs, parent: parent})
	if parent != None {
		d.nodes[parent].children = append(d.nodes[parent].children, id)
	}
	return id
}

// Element is a handle to one node: the owning document plus an arena index.
type Element struct {
	doc *Document
	id  NodeID
}

// Root returns the handle of the document node.
func (d *Document) Root() *Element { return &Element{d, 0} }

func (d *Document) element(id NodeID) *Element {
	if id == None {
		return nil
	}
	return &Element{d, id}
}

func (d *Document) elements(ids []NodeID) []*Element {
	es := make([]*Element, len(ids))
	for i, id := range ids {
		es[i] = &Element{d, id}
	}
	return es
}

func (e *Element) node() *node { return &e.doc.nodes[e.id] }

// NodeID returns the raw arena index of the handle.
func (e *Element) NodeID() NodeID { return e.id }

func (e *Element) Kind() Kind { return e.node().kind }

// TagName returns the lowercase tag name, or "" for non-element nodes.
func (e *Element) TagName() string {
	if e.node().kind != ElementNode {
		return ""
	}
	return e.node().data
}

func (e *Element) GetAttribute(name string) (string, bool) {
	for _, a := range e.node().attrs {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) HasAttribute(name string) bool {
	_, ok := e.GetAttribute(name)
	return ok
}

func (e *Element) SetAttribute(name, value string) {
	n := e.node()
	for i := range n.attrs {
		if n.attrs[i].Key == name {
			n.attrs[i].Val = value
			return
		}
	}
	n.attrs = append(n.attrs, html.Attribute{Key: name, Val: value})
}

func (e *Element) RemoveAttribute(name string) {
	n := e.node()
	n.attrs = slices.DeleteFunc(n.attrs, func(a html.Attribute) bool {
		return a.Key == name
	})
}

// Attributes returns a copy of the attribute map.
func (e *Element) Attributes() map[string]string {
	m := make(map[string]string, len(e.node().attrs))
	for _, a := range e.node().attrs {
		m[a.Key] = a.Val
	}
	return m
}

// Classes returns the whitespace-separated class attribute tokens.
func (e *Element) Classes() []string {
	class, _ := e.GetAttribute("class")
	return strings.Fields(class)
}

func (e *Element) Parent() *Element {
	return e.doc.element(e.node().parent)
}

// ChildNodes returns all child nodes in document order.
func (e *Element) ChildNodes() []*Element {
	return e.doc.elements(e.node().children)
}

// Children returns the element children in document order.
func (e *Element) Children() []*Element {
	es := []*Element{}
	for _, id := range e.node().children {
		if e.doc.nodes[id].kind == ElementNode {
			es = append(es, &Element{e.doc, id})
		}
	}
	return es
}

func (e *Element) FirstElementChild() *Element {
	for _, id := range e.node().children {
		if e.doc.nodes[id].kind == ElementNode {
			return &Element{e.doc, id}
		}
	}
	return nil
}

// NextElementSibling returns the immediately following element sibling.
func (e *Element) NextElementSibling() *Element {
	siblings := e.followingSiblingIDs()
	for _, id := range siblings {
		if e.doc.nodes[id].kind == ElementNode {
			return &Element{e.doc, id}
		}
	}
	return nil
}

// FollowingElementSiblings returns all following element siblings in
// document order.
func (e *Element) FollowingElementSiblings() []*Element {
	es := []*Element{}
	for _, id := range e.followingSiblingIDs() {
		if e.doc.nodes[id].kind == ElementNode {
			es = append(es, &Element{e.doc, id})
		}
	}
	return es
}

func (e *Element) followingSiblingIDs() []NodeID {
	p := e.node().parent
	if p == None {
		return nil
	}
	siblings := e.doc.nodes[p].children
	i := slices.Index(siblings, e.id)
	return siblings[i+1:]
}

// CreateElement allocates a detached element in the arena. Attach it with
// AppendChild.
func (d *Document) CreateElement(tag string, attrs ...html.Attribute) *Element {
	return d.element(d.alloc(ElementNode, strings.ToLower(tag), attrs, None))
}

// CreateTextNode allocates a detached text node.
func (d *Document) CreateTextNode(text string) *Element {
	return d.element(d.alloc(TextNode, text, nil, None))
}

// AppendChild inserts a structural deep copy of child as the last child of
// e and returns the handle of the copy. The source subtree is never aliased,
// whether it comes from this document or another one. The copy is attached
// only after the source walk is complete, so appending a node into its own
// descendant copies the tree as it was before the insertion.
func (e *Element) AppendChild(child *Element) *Element {
	cp := e.doc.copySubtree(child.doc, child.id)
	e.doc.nodes[cp].parent = e.id
	e.doc.nodes[e.id].children = append(e.doc.nodes[e.id].children, cp)
	return e.doc.element(cp)
}

func (d *Document) copySubtree(src *Document, id NodeID) NodeID {
	n := src.nodes[id]
	cp := d.alloc(n.kind, n.data, slices.Clone(n.attrs), None)
	for _, c := range n.children {
		cc := d.copySubtree(src, c)
		d.nodes[cc].parent = cp
		d.nodes[cp].children = append(d.nodes[cp].children, cc)
	}
	return cp
}
