package dom

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// export rebuilds an x/net/html subtree from the arena for serialization.
func (d *Document) export(id NodeID, withChildren bool) *html.Node {
	n := d.nodes[id]
	out := &html.Node{Data: n.data, Attr: slices.Clone(n.attrs)}
	switch n.kind {
	case DocumentNode:
		out.Type = html.DocumentNode
	case ElementNode:
		out.Type = html.ElementNode
		out.DataAtom = atom.Lookup([]byte(n.data))
	case TextNode:
		out.Type = html.TextNode
	case CommentNode:
		out.Type = html.CommentNode
	case DoctypeNode:
		out.Type = html.DoctypeNode
	}
	if withChildren {
		for _, c := range n.children {
			out.AppendChild(d.export(c, true))
		}
	}
	return out
}

func render(n *html.Node) string {
	var out strings.Builder
	if n.Type == html.DocumentNode {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&out, c); err != nil {
				panic(fmt.Sprintf("could not render html: %s", err))
			}
		}
		return out.String()
	}
	if err := html.Render(&out, n); err != nil {
		panic(fmt.Sprintf("could not render html: %s", err))
	}
	return out.String()
}

// OuterHTML serializes the node including its descendants.
func (e *Element) OuterHTML() string {
	if e == nil {
		return ""
	}
	return render(e.doc.export(e.id, true))
}

// InnerHTML serializes the node's children.
func (e *Element) InnerHTML() string {
	if e == nil {
		return ""
	}
	var out strings.Builder
	for _, c := range e.node().children {
		out.WriteString(render(e.doc.export(c, true)))
	}
	return out.String()
}

// shallowHTML serializes the node without its descendants.
func (e *Element) shallowHTML() string {
	return render(e.doc.export(e.id, false))
}

// HTML serializes the whole document.
func (d *Document) HTML() string {
	return d.Root().OuterHTML()
}

// Text returns the concatenated text content of the node's subtree.
func (e *Element) Text() string {
	if e == nil {
		return ""
	}
	var out strings.Builder
	e.doc.appendText(&out, e.id)
	return out.String()
}

func (d *Document) appendText(out *strings.Builder, id NodeID) {
	switch n := d.nodes[id]; n.kind {
	case TextNode:
		out.WriteString(n.data)
	case CommentNode, DoctypeNode:
	default:
		for _, c := range n.children {
			d.appendText(out, c)
		}
	}
}
