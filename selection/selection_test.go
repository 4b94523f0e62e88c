package selection

import (
	"testing"

	"github.com/helmgast/lore-editor/model"
	"github.com/helmgast/lore-editor/test/builder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

var (
	doc = builder.Doc
	p   = builder.P
	h2  = builder.H2
	ul  = builder.Ul
	li  = builder.Li
	em  = builder.Em
)

func TestCurrent(t *testing.T) {
	d := doc(h2("title"), p("one ", em("two")))
	m := &Manual{}
	tracker := NewTracker(d.Root, m)

	// no range
	_, ok := tracker.Current()
	assert.False(t, ok)

	// a caret in a paragraph
	two := d.Block(1).LastChild.FirstChild
	m.Select(Caret(two, 1))
	sel, ok := tracker.Current()
	require.True(t, ok)
	assert.True(t, sel.Collapsed)
	assert.True(t, sel.InEditor)
	require.Len(t, sel.Path, 3)
	assert.Equal(t, two, sel.Path[0])
	assert.Equal(t, d.Block(1), sel.Path[2])
	assert.Equal(t, model.Paragraph, sel.Pos.Kind())
	assert.Equal(t, model.At(1, 5), sel.Pos.Position())

	// a range across blocks
	title := d.Block(0).FirstChild
	m.Select(Range{StartContainer: title, StartOffset: 2, EndContainer: two, EndOffset: 3})
	sel, ok = tracker.Current()
	require.True(t, ok)
	assert.False(t, sel.Collapsed)
	assert.True(t, sel.InEditor)
	assert.Equal(t, model.Heading2, sel.Pos.Kind())

	// a range outside the editor
	outside := model.NewText("elsewhere")
	m.Select(Caret(outside, 0))
	sel, ok = tracker.Current()
	require.True(t, ok)
	assert.False(t, sel.InEditor)
	assert.Nil(t, sel.Pos)
	assert.Empty(t, sel.Path)

	// a range ending outside the editor
	m.Select(Range{StartContainer: title, EndContainer: outside})
	sel, _ = tracker.Current()
	assert.False(t, sel.InEditor)
}

func TestSaveRestore(t *testing.T) {
	d := doc(p("abc"), p("def"))
	m := &Manual{}
	tracker := NewTracker(d.Root, m)

	// nothing to restore
	assert.False(t, tracker.Restore())

	abc := d.Block(0).FirstChild
	m.Select(Caret(abc, 2))
	assert.True(t, tracker.Save())

	// a lost selection does not overwrite the saved one
	m.Clear()
	assert.False(t, tracker.Save())
	saved, ok := tracker.Saved()
	require.True(t, ok)
	assert.Equal(t, abc, saved.StartContainer)

	assert.True(t, tracker.Restore())
	r, ok := m.Range()
	require.True(t, ok)
	assert.Equal(t, Caret(abc, 2), r)

	// a detached node is not restored
	m.Clear()
	d.RemoveBlock(0)
	assert.False(t, tracker.Restore())
	_, ok = m.Range()
	assert.False(t, ok)
}

func TestSelectEnd(t *testing.T) {
	d := doc(p("a", em("bc")), ul(li()))
	m := &Manual{}
	tracker := NewTracker(d.Root, m)

	tracker.SelectEnd(d.Block(0))
	r, _ := m.Range()
	assert.Equal(t, Caret(d.Block(0).LastChild.FirstChild, 2), r)

	item := d.Block(1).FirstChild
	tracker.SelectEnd(item)
	r, _ = m.Range()
	assert.Equal(t, Caret(item, 0), r)
}

func TestSelectPosition(t *testing.T) {
	d := doc(p("abc"), ul(li("x"), li("yz")))
	m := &Manual{}
	tracker := NewTracker(d.Root, m)

	tracker.SelectPosition(d, model.AtItem(1, 1, 1))
	sel, ok := tracker.Current()
	require.True(t, ok)
	assert.Equal(t, model.ListItem, sel.Pos.Kind())
	assert.Equal(t, model.AtItem(1, 1, 1), sel.Pos.Position())
	assert.Equal(t, html.TextNode, sel.StartContainer.Type)
}
