package model

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// BlockSummary is the structural content of a block that survives a
// Markdown round-trip.
type BlockSummary struct {
	Kind   BlockKind
	Text   string
	Items  []string
	Layout Layout
	Images []string
}

var spaceRegexp = regexp.MustCompile(`\s+`)

// NormalizeSpace collapses whitespace runs and trims.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(spaceRegexp.ReplaceAllString(s, " "))
}

// Summarize reduces a document to its block summaries.
func Summarize(d *Document) []BlockSummary {
	var result []BlockSummary
	for _, b := range d.Blocks() {
		s := BlockSummary{Kind: Classify(b)}
		switch s.Kind {
		case BulletList, OrderedList:
			for li := b.FirstChild; li != nil; li = li.NextSibling {
				if li.Type == html.ElementNode {
					s.Items = append(s.Items, NormalizeSpace(TextContent(li)))
				}
			}
		case Gallery:
			layout, refs, _ := DecomposeGallery(b)
			s.Layout = layout
			for _, r := range refs {
				s.Images = append(s.Images, r.Src)
			}
		default:
			s.Text = NormalizeSpace(TextContent(b))
		}
		result = append(result, s)
	}
	return result
}

// Equivalent reports whether two documents have the same sequence of block
// kinds with the same text, modulo whitespace.
func Equivalent(a, b *Document) bool {
	sa, sb := Summarize(a), Summarize(b)
	if len(sa) != len(sb) {
		return false
	}
	for i := range sa {
		if !sa[i].eq(sb[i]) {
			return false
		}
	}
	return true
}

func (s BlockSummary) eq(o BlockSummary) bool {
	if s.Kind != o.Kind || s.Text != o.Text || s.Layout != o.Layout {
		return false
	}
	return equalStrings(s.Items, o.Items) && equalStrings(s.Images, o.Images)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FindDiffStart returns the index of the first block whose markup differs
// between the two documents, or -1 when they are identical.
func FindDiffStart(a, b *Document) int {
	ba, bb := a.Blocks(), b.Blocks()
	for i := 0; ; i++ {
		if i == len(ba) || i == len(bb) {
			if len(ba) == len(bb) {
				return -1
			}
			return i
		}
		if ba[i] == bb[i] {
			continue
		}
		if RenderNode(ba[i]) != RenderNode(bb[i]) {
			return i
		}
	}
}

// FindDiffEnd returns, for each document, the index just past the last block
// that differs, or ok=false when they are identical.
func FindDiffEnd(a, b *Document) (endA, endB int, ok bool) {
	ba, bb := a.Blocks(), b.Blocks()
	ia, ib := len(ba), len(bb)
	for {
		if ia == 0 || ib == 0 {
			if ia == ib {
				return 0, 0, false
			}
			return ia, ib, true
		}
		ia--
		ib--
		if ba[ia] != bb[ib] && RenderNode(ba[ia]) != RenderNode(bb[ib]) {
			return ia + 1, ib + 1, true
		}
	}
}
