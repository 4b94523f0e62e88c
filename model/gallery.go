package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Layout is the layout variant of a gallery block.
type Layout string

const (
	LayoutCenter Layout = "center"
	LayoutWide   Layout = "wide"
	LayoutSide   Layout = "side"
	LayoutCard   Layout = "card"
)

// Layouts lists the valid layout variants.
var Layouts = []Layout{LayoutCenter, LayoutWide, LayoutSide, LayoutCard}

// ErrEmptyGallery is returned when a gallery would hold no image.
var ErrEmptyGallery = errors.New("gallery has no images")

// ErrNotGallery is returned when decomposing a node that is not a gallery.
var ErrNotGallery = errors.New("not a gallery block")

// markerRegexp matches the text of the first item of a gallery list. The
// exporter writes exactly this, so both sides must change together.
var markerRegexp = regexp.MustCompile(`^gallery-(center|wide|side|card)$`)

// ParseLayout accepts a variant name with or without the "gallery-" prefix.
// Unrecognized names fall back to LayoutCenter.
func ParseLayout(name string) Layout {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "gallery-")
	for _, l := range Layouts {
		if string(l) == name {
			return l
		}
	}
	return LayoutCenter
}

// Marker is the text of the hidden first item of a gallery list.
func (l Layout) Marker() string {
	return "gallery-" + string(l)
}

// MatchMarker tests whether text is a gallery marker and returns its layout.
func MatchMarker(text string) (Layout, bool) {
	m := markerRegexp.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return LayoutCenter, false
	}
	return Layout(m[1]), true
}

// VariantPattern matches the css class an image may carry, written as
// `![alt|variant](src)` in Markdown.
var VariantPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// SplitAlt splits `alt|variant` on the last bar. Text after the bar that is
// not a valid variant stays part of the alt text.
func SplitAlt(text string) (alt, variant string) {
	i := strings.LastIndex(text, "|")
	if i < 0 || !VariantPattern.MatchString(text[i+1:]) {
		return text, ""
	}
	return text[:i], text[i+1:]
}

// ImageRef references an image by URL, with optional alt text and css class
// variant.
type ImageRef struct {
	Src     string
	Alt     string
	Variant string
}

// Node builds an img element for the reference.
func (r ImageRef) Node() *html.Node {
	img := NewElement(atom.Img, html.Attribute{Key: "src", Val: r.Src})
	if r.Alt != "" {
		SetAttr(img, "alt", r.Alt)
	}
	if r.Variant != "" {
		SetAttr(img, "class", r.Variant)
	}
	return img
}

// ImageRefOf extracts the reference of the first image in n (n itself, or an
// image wrapped in a link).
func ImageRefOf(n *html.Node) (ImageRef, bool) {
	img := findImage(n)
	if img == nil {
		return ImageRef{}, false
	}
	return ImageRef{
		Src:     GetAttr(img, "src"),
		Alt:     GetAttr(img, "alt"),
		Variant: GetAttr(img, "class"),
	}, true
}

func findImage(n *html.Node) *html.Node {
	if TagAtom(n) == atom.Img {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if img := findImage(child); img != nil {
			return img
		}
	}
	return nil
}

// IsGalleryList reports whether n is a list whose first item is a gallery
// marker.
func IsGalleryList(n *html.Node) bool {
	if TagAtom(n) != atom.Ul {
		return false
	}
	_, ok := MatchMarker(firstItemText(n))
	return ok
}

func firstItemText(list *html.Node) string {
	for child := list.FirstChild; child != nil; child = child.NextSibling {
		if TagAtom(child) == atom.Li {
			return TextContent(child)
		}
	}
	return ""
}

// BuildGallery creates a gallery block. An invalid layout is replaced by
// LayoutCenter.
func BuildGallery(layout Layout, refs []ImageRef) (*html.Node, error) {
	var valid []ImageRef
	for _, r := range refs {
		if r.Src != "" {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return nil, ErrEmptyGallery
	}
	layout = ParseLayout(string(layout))
	ul := NewElement(atom.Ul)
	marker := NewElement(atom.Li)
	marker.AppendChild(NewText(layout.Marker()))
	ul.AppendChild(marker)
	for _, r := range valid {
		li := NewElement(atom.Li)
		li.AppendChild(r.Node())
		ul.AppendChild(li)
	}
	decorateGallery(ul, layout)
	return ul, nil
}

// DecomposeGallery returns the layout and image references of a gallery
// block. Items without an image are skipped.
func DecomposeGallery(n *html.Node) (Layout, []ImageRef, error) {
	if !IsGalleryList(n) {
		return LayoutCenter, nil, ErrNotGallery
	}
	layout, _ := MatchMarker(firstItemText(n))
	var refs []ImageRef
	first := true
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if TagAtom(child) != atom.Li {
			continue
		}
		if first {
			first = false
			continue
		}
		if ref, ok := ImageRefOf(child); ok && ref.Src != "" {
			refs = append(refs, ref)
		}
	}
	if len(refs) == 0 {
		return layout, nil, fmt.Errorf("decompose %s: %w", layout.Marker(), ErrEmptyGallery)
	}
	return layout, refs, nil
}

// SetLayout rewrites the marker of a gallery block.
func SetLayout(n *html.Node, layout Layout) error {
	if !IsGalleryList(n) {
		return ErrNotGallery
	}
	layout = ParseLayout(string(layout))
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if TagAtom(child) == atom.Li {
			SetContent(child, Fragment{NewText(layout.Marker())})
			break
		}
	}
	decorateGallery(n, layout)
	return nil
}

func decorateGallery(ul *html.Node, layout Layout) {
	SetAttr(ul, "class", "gallery "+layout.Marker())
	SetAttr(ul, "contenteditable", "false")
	first := true
	for li := ul.FirstChild; li != nil; li = li.NextSibling {
		if TagAtom(li) != atom.Li {
			continue
		}
		if first {
			SetAttr(li, "class", "hide")
			first = false
			continue
		}
		SetAttr(li, "class", "gallery-item")
		if ref, ok := ImageRefOf(li); ok && ref.Alt != "" {
			SetAttr(li, "title", ref.Alt)
		}
	}
}
