package model

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SplitInline splits the inline content of a textblock at offset. The block
// keeps the content before the offset, and the content after it is returned
// as a detached fragment.
func SplitInline(block *html.Node, offset int) Fragment {
	content := ChildrenOf(block)
	size := content.Size()
	if offset >= size {
		return nil
	}
	if offset < 0 {
		offset = 0
	}
	before := content.Cut(0, offset)
	after := content.Cut(offset, size)
	SetContent(block, before)
	return after
}

// SetContent replaces all children of n with the fragment.
func SetContent(n *html.Node, f Fragment) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	f.AppendTo(n)
	Normalize(n)
}

// AppendInline moves the fragment to the end of block, joining text at the
// seam. It returns the offset at which the appended content starts.
func AppendInline(block *html.Node, f Fragment) int {
	at := ChildrenOf(block).Size()
	f.AppendTo(block)
	Normalize(block)
	return at
}

// ReplaceRange replaces the content between from and to of a textblock with
// the given fragment.
func ReplaceRange(block *html.Node, from, to int, f Fragment) {
	content := ChildrenOf(block)
	size := content.Size()
	result := content.Cut(0, from)
	result = append(result, f...)
	result = append(result, content.Cut(to, size)...)
	SetContent(block, result)
}

// Normalize merges adjacent text nodes and drops empty ones below n.
func Normalize(n *html.Node) {
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		switch child.Type {
		case html.TextNode:
			if child.Data == "" {
				n.RemoveChild(child)
			} else if prev := child.PrevSibling; prev != nil && prev.Type == html.TextNode {
				prev.Data += child.Data
				n.RemoveChild(child)
			}
		case html.ElementNode:
			Normalize(child)
			if prev := child.PrevSibling; prev != nil && canJoin(prev, child) {
				MoveChildren(prev, child)
				n.RemoveChild(child)
				Normalize(prev)
			}
		}
		child = next
	}
}

// canJoin is true for two adjacent inline wrappers with the same markup, as
// left behind by splitting and re-joining content.
func canJoin(a, b *html.Node) bool {
	if a.Type != html.ElementNode || b.Type != html.ElementNode || TagAtom(a) != TagAtom(b) {
		return false
	}
	switch TagAtom(a) {
	case atom.Em, atom.Strong, atom.A:
	default:
		return false
	}
	if len(a.Attr) != len(b.Attr) {
		return false
	}
	for i := range a.Attr {
		if a.Attr[i] != b.Attr[i] {
			return false
		}
	}
	return true
}
