package dom

import (
	"io"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads a full markup document and imports it into a fresh arena.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	d := NewDocument()
	d.importHTML(root, 0)
	return d, nil
}

// MustParse is Parse that panics on error.
func MustParse(r io.Reader) *Document {
	d, err := Parse(r)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseFragment imports body-context markup without the html/head/body
// scaffolding a full parse would add.
func ParseFragment(markup string) (*Document, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	ns, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, err
	}
	d := NewDocument()
	for _, n := range ns {
		d.importHTML(n, 0)
	}
	return d, nil
}

// importHTML copies an x/net/html subtree into the arena under parent. The
// html document node itself is transparent; its children attach directly.
func (d *Document) importHTML(n *html.Node, parent NodeID) {
	var kind Kind
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			d.importHTML(c, parent)
		}
		return
	case html.ElementNode:
		kind = ElementNode
	case html.TextNode:
		kind = TextNode
	case html.CommentNode:
		kind = CommentNode
	case html.DoctypeNode:
		kind = DoctypeNode
	default:
		return
	}
	id := d.alloc(kind, n.Data, slices.Clone(n.Attr), parent)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.importHTML(c, id)
	}
}
