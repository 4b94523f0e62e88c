// Package builder has helpers to write documents in tests, like
// Doc(P("Hello ", Em("world"))).
package builder

import (
	"fmt"

	"github.com/helmgast/lore-editor/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attrs sets attributes on the node being built.
type Attrs map[string]string

type NodeBuilder func(args ...interface{}) *html.Node

func takeArgs(n *html.Node, args []interface{}) {
	for _, arg := range args {
		switch a := arg.(type) {
		case string:
			if a != "" {
				n.AppendChild(model.NewText(a))
			}
		case *html.Node:
			n.AppendChild(a)
		case Attrs:
			for k, v := range a {
				model.SetAttr(n, k, v)
			}
		case []*html.Node:
			for _, child := range a {
				n.AppendChild(child)
			}
		default:
			panic(fmt.Sprintf("builder: unexpected argument %T", arg))
		}
	}
	model.Normalize(n)
}

func element(a atom.Atom, attrs ...html.Attribute) NodeBuilder {
	return func(args ...interface{}) *html.Node {
		n := model.NewElement(a, attrs...)
		takeArgs(n, args)
		return n
	}
}

var (
	P          = element(atom.P)
	H2         = element(atom.H2)
	H3         = element(atom.H3)
	H4         = element(atom.H4)
	Blockquote = element(atom.Blockquote)
	Ul         = element(atom.Ul)
	Ol         = element(atom.Ol)
	Li         = element(atom.Li)
	Em         = element(atom.Em)
	Strong     = element(atom.Strong)
	Div        = element(atom.Div)
)

// Doc builds a document from blocks.
func Doc(blocks ...interface{}) *model.Document {
	root := model.NewElement(atom.Div)
	takeArgs(root, blocks)
	return model.NewDocument(root)
}

// A builds a link to href.
func A(href string, args ...interface{}) *html.Node {
	n := model.NewElement(atom.A, html.Attribute{Key: "href", Val: href})
	takeArgs(n, args)
	return n
}

// Img builds an image. An optional second argument is the alt text.
func Img(src string, alt ...string) *html.Node {
	ref := model.ImageRef{Src: src}
	if len(alt) > 0 {
		ref.Alt = alt[0]
	}
	return ref.Node()
}

// Gallery builds a gallery block of the given layout.
func Gallery(layout model.Layout, srcs ...string) *html.Node {
	refs := make([]model.ImageRef, len(srcs))
	for i, src := range srcs {
		refs[i] = model.ImageRef{Src: src}
	}
	n, err := model.BuildGallery(layout, refs)
	if err != nil {
		panic(err)
	}
	return n
}
