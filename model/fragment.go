package model

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// A Fragment is a sequence of sibling inline nodes, typically the content of
// a textblock.
//
// Sizes and offsets count runes of text, plus one for every image, which
// matches how a caret moves through the content.
type Fragment []*html.Node

// ChildrenOf collects the children of n.
func ChildrenOf(n *html.Node) Fragment {
	var f Fragment
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		f = append(f, child)
	}
	return f
}

// NodeSize is the caret size of a single node.
func NodeSize(n *html.Node) int {
	switch n.Type {
	case html.TextNode:
		return utf8.RuneCountInString(n.Data)
	case html.ElementNode:
		if TagAtom(n) == atom.Img {
			return 1
		}
		return ChildrenOf(n).Size()
	}
	return 0
}

// Size of the fragment.
func (f Fragment) Size() int {
	size := 0
	for _, n := range f {
		size += NodeSize(n)
	}
	return size
}

// TextContent concatenates the text of the fragment.
func (f Fragment) TextContent() string {
	var sb strings.Builder
	for _, n := range f {
		writeText(&sb, n)
	}
	return sb.String()
}

// HasImage reports whether the fragment contains an image anywhere.
func (f Fragment) HasImage() bool {
	for _, n := range f {
		if TagAtom(n) == atom.Img || ChildrenOf(n).HasImage() {
			return true
		}
	}
	return false
}

// Cut returns a detached deep copy of the content between from and to.
// Inline wrappers (em, strong, a) that are only partially covered are
// copied with the covered part of their content.
func (f Fragment) Cut(from, to int) Fragment {
	var result Fragment
	pos := 0
	for _, n := range f {
		size := NodeSize(n)
		end := pos + size
		if end < from || (end == from && size > 0) {
			pos = end
			continue
		}
		if pos >= to {
			break
		}
		switch {
		case n.Type == html.TextNode:
			start := max(from-pos, 0)
			stop := min(to-pos, size)
			if stop > start {
				result = append(result, NewText(runeSlice(n.Data, start, stop)))
			}
		case TagAtom(n) == atom.Img:
			if from <= pos && end <= to {
				result = append(result, CloneNode(n))
			}
		case n.Type == html.ElementNode:
			inner := ChildrenOf(n).Cut(from-pos, to-pos)
			if len(inner) > 0 {
				wrapper := &html.Node{Type: n.Type, DataAtom: n.DataAtom, Data: n.Data}
				wrapper.Attr = append(wrapper.Attr, n.Attr...)
				for _, c := range inner {
					wrapper.AppendChild(c)
				}
				result = append(result, wrapper)
			}
		}
		pos = end
	}
	return result
}

// Detach removes every node of the fragment from its parent.
func (f Fragment) Detach() Fragment {
	for _, n := range f {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
	return f
}

// AppendTo appends the (detached) fragment to parent.
func (f Fragment) AppendTo(parent *html.Node) {
	for _, n := range f {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		parent.AppendChild(n)
	}
}

// TextContent returns the concatenated text below n.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	writeText(&sb, n)
	return sb.String()
}

// IsEmpty is true when n holds no visible text and no image.
func IsEmpty(n *html.Node) bool {
	if TagAtom(n) == atom.Img {
		return false
	}
	f := ChildrenOf(n)
	return strings.TrimSpace(f.TextContent()) == "" && !f.HasImage()
}

func writeText(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		writeText(sb, child)
	}
}

func runeSlice(s string, from, to int) string {
	r := []rune(s)
	return string(r[from:to])
}
