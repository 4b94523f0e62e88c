package model

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewElement creates a detached element node for the given atom.
func NewElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

// NewText creates a detached text node.
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// NewBlock creates an empty block of the given kind. Lists get one empty
// item so that the caret has somewhere to go.
func NewBlock(kind BlockKind) *html.Node {
	tag := kind.Tag()
	if tag == 0 || kind == Gallery {
		return nil
	}
	el := NewElement(tag)
	if kind.IsList() {
		el.AppendChild(NewElement(atom.Li))
	}
	return el
}

// Placeholder is the empty paragraph inserted into empty documents.
func Placeholder() *html.Node {
	return NewElement(atom.P)
}

// GetAttr returns the value of the attribute with the given key.
func GetAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key && a.Namespace == "" {
			return a.Val
		}
	}
	return ""
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key && a.Namespace == "" {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key || a.Namespace != "" {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}

// CloneNode returns a deep, detached copy of n.
func CloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(CloneNode(child))
	}
	return c
}

// Rename changes the tag of an element in place, keeping its children.
func Rename(n *html.Node, a atom.Atom) {
	n.DataAtom = a
	n.Data = a.String()
}

// MoveChildren detaches all children of src and appends them to dst.
func MoveChildren(dst, src *html.Node) {
	for src.FirstChild != nil {
		child := src.FirstChild
		src.RemoveChild(child)
		dst.AppendChild(child)
	}
}

// ReplaceNode puts n where old is, detaching old.
func ReplaceNode(old, n *html.Node) {
	if old.Parent == nil {
		return
	}
	old.Parent.InsertBefore(n, old)
	old.Parent.RemoveChild(old)
}

// InsertAfter inserts n as the next sibling of ref.
func InsertAfter(ref, n *html.Node) {
	if ref.Parent == nil {
		return
	}
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// Render serializes the children of n to HTML.
func Render(n *html.Node) string {
	var buf bytes.Buffer
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(&buf, child); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

// RenderNode serializes n itself to HTML.
func RenderNode(n *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

// ParseFragment parses an HTML fragment in the context of a div container
// and returns that container.
func ParseFragment(fragment string) (*html.Node, error) {
	root := NewElement(atom.Div)
	nodes, err := html.ParseFragment(strings.NewReader(fragment), root)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// Decorate applies the display attributes of gallery blocks, which are lost
// when a document goes through the sanitizer.
func Decorate(doc *Document) {
	for _, block := range doc.Blocks() {
		if Classify(block) == Gallery {
			layout, _ := MatchMarker(firstItemText(block))
			decorateGallery(block, layout)
		}
	}
}

// DisplayHTML renders a copy of the document for reading: galleries are
// decorated and every image is wrapped in a link to its source.
func (d *Document) DisplayHTML() string {
	c := d.Clone()
	Decorate(c)
	var imgs []*html.Node
	walk(c.Root, func(n *html.Node) {
		if TagAtom(n) == atom.Img && TagAtom(n.Parent) != atom.A {
			imgs = append(imgs, n)
		}
	})
	for _, img := range imgs {
		link := NewElement(atom.A,
			html.Attribute{Key: "class", Val: "imagelink"},
			html.Attribute{Key: "href", Val: GetAttr(img, "src")},
		)
		ReplaceNode(img, link)
		link.AppendChild(img)
	}
	return Render(c.Root)
}

func walk(n *html.Node, fn func(*html.Node)) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		fn(child)
		walk(child, fn)
	}
}
