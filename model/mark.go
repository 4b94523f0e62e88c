package model

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MarkType is the kind of inline formatting an element applies.
type MarkType int

const (
	MarkStrong MarkType = iota + 1
	MarkEm
	MarkLink
)

func (t MarkType) String() string {
	switch t {
	case MarkStrong:
		return "strong"
	case MarkEm:
		return "em"
	case MarkLink:
		return "link"
	}
	return ""
}

// Tag is the element used to render the mark.
func (t MarkType) Tag() atom.Atom {
	switch t {
	case MarkStrong:
		return atom.Strong
	case MarkEm:
		return atom.Em
	case MarkLink:
		return atom.A
	}
	return 0
}

// A Mark is a piece of inline formatting, such as emphasis or a link. Links
// carry their target.
type Mark struct {
	Type MarkType
	Href string
}

// MarkOf returns the mark an element applies, if any.
func MarkOf(n *html.Node) (Mark, bool) {
	switch TagAtom(n) {
	case atom.Strong, atom.B:
		return Mark{Type: MarkStrong}, true
	case atom.Em, atom.I:
		return Mark{Type: MarkEm}, true
	case atom.A:
		return Mark{Type: MarkLink, Href: GetAttr(n, "href")}, true
	}
	return Mark{}, false
}

// Element creates an empty element rendering the mark.
func (m Mark) Element() *html.Node {
	el := NewElement(m.Type.Tag())
	if m.Type == MarkLink {
		SetAttr(el, "href", m.Href)
	}
	return el
}

// Eq tests whether two marks have the same type and attributes.
func (m Mark) Eq(other Mark) bool {
	return m.Type == other.Type && m.Href == other.Href
}

// IsInSet tests whether this mark is in the given set.
func (m Mark) IsInSet(set []Mark) bool {
	for _, other := range set {
		if m.Eq(other) {
			return true
		}
	}
	return false
}

// HasType tests whether the set holds a mark of type t.
func HasType(set []Mark, t MarkType) bool {
	for _, m := range set {
		if m.Type == t {
			return true
		}
	}
	return false
}

// MarksAt collects the marks applied along a caret path (innermost first).
func MarksAt(path []*html.Node) []Mark {
	var set []Mark
	for _, n := range path {
		if m, ok := MarkOf(n); ok && !m.IsInSet(set) {
			set = append(set, m)
		}
	}
	return set
}

// Formats summarizes the formatting around the caret, as shown by the state
// of toolbar buttons.
type Formats struct {
	Bold   bool
	Italic bool
	Quote  bool
	Link   bool
	URL    string
}

// FormatsAt computes the formats along a caret path.
func FormatsAt(path []*html.Node) Formats {
	var f Formats
	for _, m := range MarksAt(path) {
		switch m.Type {
		case MarkStrong:
			f.Bold = true
		case MarkEm:
			f.Italic = true
		case MarkLink:
			if !f.Link {
				f.Link = true
				f.URL = m.Href
			}
		}
	}
	for _, n := range path {
		if TagAtom(n) == atom.Blockquote {
			f.Quote = true
		}
	}
	return f
}
