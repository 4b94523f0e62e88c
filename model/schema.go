package model

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BlockKind is the semantic type of a block. The kind of a DOM element is
// determined by its tag name, see Classify.
type BlockKind int

const (
	// Unknown is the kind of any element outside the whitelist.
	Unknown BlockKind = iota
	Paragraph
	Heading2
	Heading3
	Heading4
	Quote
	BulletList
	OrderedList
	ListItem
	Gallery
)

var kindNames = map[BlockKind]string{
	Unknown:     "unknown",
	Paragraph:   "paragraph",
	Heading2:    "heading-2",
	Heading3:    "heading-3",
	Heading4:    "heading-4",
	Quote:       "quote",
	BulletList:  "unordered-list",
	OrderedList: "ordered-list",
	ListItem:    "list-item",
	Gallery:     "gallery",
}

func (k BlockKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[Unknown]
}

// ParseBlockKind returns the kind with the given name, as produced by String.
func ParseBlockKind(name string) BlockKind {
	for k, n := range kindNames {
		if n == name {
			return k
		}
	}
	return Unknown
}

// IsTextblock is true for kinds that directly hold inline content.
func (k BlockKind) IsTextblock() bool {
	switch k {
	case Paragraph, Heading2, Heading3, Heading4, Quote, ListItem:
		return true
	}
	return false
}

// IsList is true for the list kinds (a gallery is not a list).
func (k BlockKind) IsList() bool {
	return k == BulletList || k == OrderedList
}

// Level returns the heading level, or 0 for non-heading kinds.
func (k BlockKind) Level() int {
	switch k {
	case Heading2:
		return 2
	case Heading3:
		return 3
	case Heading4:
		return 4
	}
	return 0
}

// Tag is the element a block of this kind is represented with. Galleries are
// unordered lists.
func (k BlockKind) Tag() atom.Atom {
	switch k {
	case Paragraph:
		return atom.P
	case Heading2:
		return atom.H2
	case Heading3:
		return atom.H3
	case Heading4:
		return atom.H4
	case Quote:
		return atom.Blockquote
	case BulletList, Gallery:
		return atom.Ul
	case OrderedList:
		return atom.Ol
	case ListItem:
		return atom.Li
	}
	return 0
}

var blockTags = map[atom.Atom]BlockKind{
	atom.P:          Paragraph,
	atom.H2:         Heading2,
	atom.H3:         Heading3,
	atom.H4:         Heading4,
	atom.Blockquote: Quote,
	atom.Ul:         BulletList,
	atom.Ol:         OrderedList,
	atom.Li:         ListItem,
}

// AllowedTags is the whitelist of tags a sanitized document may contain.
var AllowedTags = []string{
	"p", "h2", "h3", "h4", "blockquote", "ul", "ol", "li",
	"em", "strong", "a", "img",
}

// TagAliases maps tags that are rewritten to a whitelisted equivalent
// instead of being unwrapped.
var TagAliases = map[string]string{
	"div": "p",
	"h1":  "h2",
	"b":   "strong",
	"i":   "em",
}

// TagAtom returns the atom of an element, looking the lowercased tag name up
// when the node was built without one.
func TagAtom(n *html.Node) atom.Atom {
	if n == nil || n.Type != html.ElementNode {
		return 0
	}
	if n.DataAtom != 0 {
		return n.DataAtom
	}
	return atom.Lookup([]byte(strings.ToLower(n.Data)))
}

// Classify returns the block kind of the given node.
func Classify(n *html.Node) BlockKind {
	kind, ok := blockTags[TagAtom(n)]
	if !ok {
		return Unknown
	}
	if kind == BulletList && IsGalleryList(n) {
		return Gallery
	}
	return kind
}

// IsAllowed reports whether the node is an element from the whitelist.
func IsAllowed(n *html.Node) bool {
	a := TagAtom(n)
	if a == 0 {
		return false
	}
	for _, tag := range AllowedTags {
		if a.String() == tag {
			return true
		}
	}
	return false
}

// IsInline reports whether n is a text node or an inline whitelisted element.
func IsInline(n *html.Node) bool {
	if n.Type == html.TextNode {
		return true
	}
	switch TagAtom(n) {
	case atom.Em, atom.Strong, atom.A, atom.Img:
		return true
	}
	return false
}
