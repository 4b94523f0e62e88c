// Package selection tracks the caret of an editor. The host owns the real
// selection and exposes it through a Selector; the Tracker turns it into a
// Selection resolved against the document, and keeps the last known range so
// that it can be restored after the focus went elsewhere.
package selection

import (
	"github.com/helmgast/lore-editor/model"
	"golang.org/x/net/html"
)

// Rect is a bounding rectangle in client coordinates.
type Rect struct {
	Top    float64
	Left   float64
	Right  float64
	Bottom float64
}

// Range is a pair of DOM boundaries, like a browser range. Offsets are
// character offsets in text nodes and child indexes in elements.
type Range struct {
	StartContainer *html.Node
	StartOffset    int
	EndContainer   *html.Node
	EndOffset      int
	// Rect bounds the selected content.
	Rect Rect
}

// Caret is a collapsed range at (node, offset).
func Caret(node *html.Node, offset int) Range {
	return Range{StartContainer: node, StartOffset: offset, EndContainer: node, EndOffset: offset}
}

// Collapsed is true when both boundaries are the same.
func (r Range) Collapsed() bool {
	return r.StartContainer == r.EndContainer && r.StartOffset == r.EndOffset
}

// A Selector gives access to the selection of the host.
type Selector interface {
	// Range returns the current range, or false when there is none.
	Range() (Range, bool)
	// Select replaces the current range.
	Select(r Range)
}

// Manual is a Selector whose range is set by hand. It serves headless hosts
// and tests.
type Manual struct {
	r  Range
	ok bool
}

// Range is a method of the Selector interface.
func (m *Manual) Range() (Range, bool) {
	return m.r, m.ok
}

// Select is a method of the Selector interface.
func (m *Manual) Select(r Range) {
	m.r = r
	m.ok = r.StartContainer != nil
}

// Clear removes the range.
func (m *Manual) Clear() {
	m.r = Range{}
	m.ok = false
}

// Selection is the current range, resolved against the editor root.
type Selection struct {
	Range
	Collapsed bool
	// InEditor is true when both boundaries are inside the editor.
	InEditor bool
	// Path goes from the start container up to, but not including, the root.
	// It is empty when the selection is outside the editor.
	Path []*html.Node
	// Pos resolves the start boundary. It is nil outside the editor.
	Pos *model.ResolvedPos
}

// Tracker reports the selection of one editor.
type Tracker struct {
	root     *html.Node
	selector Selector
	saved    *Range
}

// NewTracker creates a tracker for the editor rooted at root.
func NewTracker(root *html.Node, selector Selector) *Tracker {
	return &Tracker{root: root, selector: selector}
}

// Current returns the selection, or false when the host has no range.
func (t *Tracker) Current() (*Selection, bool) {
	r, ok := t.selector.Range()
	if !ok || r.StartContainer == nil {
		return nil, false
	}
	sel := &Selection{Range: r, Collapsed: r.Collapsed()}
	pos, inside := model.Resolve(t.root, r.StartContainer, r.StartOffset)
	if inside && t.contains(r.EndContainer) {
		sel.InEditor = true
		sel.Pos = pos
		sel.Path = pos.Path
	}
	return sel, true
}

// Save remembers the current range, if there is one. It reports whether a
// range was saved; the previous one is kept otherwise.
func (t *Tracker) Save() bool {
	r, ok := t.selector.Range()
	if !ok || r.StartContainer == nil {
		return false
	}
	t.saved = &r
	return true
}

// Saved returns the remembered range.
func (t *Tracker) Saved() (Range, bool) {
	if t.saved == nil {
		return Range{}, false
	}
	return *t.saved, true
}

// Restore selects the remembered range again. Nothing happens when there is
// none, or when its nodes are no longer in the editor.
func (t *Tracker) Restore() bool {
	if t.saved == nil {
		return false
	}
	if !t.contains(t.saved.StartContainer) || !t.contains(t.saved.EndContainer) {
		return false
	}
	t.selector.Select(*t.saved)
	return true
}

// SelectEnd collapses the selection at the end of the content of n.
func (t *Tracker) SelectEnd(n *html.Node) {
	if last := lastText(n); last != nil {
		t.selector.Select(Caret(last, model.NodeSize(last)))
		return
	}
	t.selector.Select(Caret(n, len(model.ChildrenOf(n))))
}

// SelectPosition collapses the selection at a document position.
func (t *Tracker) SelectPosition(doc *model.Document, pos model.Position) {
	node, offset := doc.Locate(pos)
	t.selector.Select(Caret(node, offset))
}

// contains is true for the root and the nodes attached below it.
func (t *Tracker) contains(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == t.root {
			return true
		}
	}
	return false
}

func lastText(n *html.Node) *html.Node {
	for child := n.LastChild; child != nil; child = child.PrevSibling {
		if child.Type == html.TextNode {
			return child
		}
		if found := lastText(child); found != nil {
			return found
		}
	}
	return nil
}
