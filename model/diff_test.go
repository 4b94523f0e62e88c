package model_test

import (
	"testing"

	. "github.com/helmgast/lore-editor/model"
	"github.com/stretchr/testify/assert"
)

func TestFindDiffStart(t *testing.T) {
	start := func(a, b *Document, expected int) {
		t.Helper()
		assert.Equal(t, expected, FindDiffStart(a, b))
	}

	// returns -1 for identical documents
	start(
		doc(p("a", em("b")), p("hello"), blockquote("bye")),
		doc(p("a", em("b")), p("hello"), blockquote("bye")),
		-1,
	)

	// notices when one document is longer
	start(
		doc(p("a", em("b")), p("hello")),
		doc(p("a", em("b")), p("hello"), p("oops")),
		2,
	)

	// notices when one document is shorter
	start(
		doc(p("a", em("b")), p("hello"), p("oops")),
		doc(p("a", em("b")), p("hello")),
		2,
	)

	// notices differing marks
	start(doc(p("a", em("b"))), doc(p("a", strong("b"))), 0)

	// notices a different block type
	start(doc(p("x"), p("y")), doc(p("x"), h2("y")), 1)

	// notices a changed gallery layout
	start(
		doc(p("x"), gallery(LayoutWide, "a.png")),
		doc(p("x"), gallery(LayoutSide, "a.png")),
		1,
	)
}

func TestFindDiffEnd(t *testing.T) {
	endA, endB, ok := FindDiffEnd(doc(p("a"), p("b"), p("c")), doc(p("a"), p("x"), p("c")))
	assert.True(t, ok)
	assert.Equal(t, 2, endA)
	assert.Equal(t, 2, endB)

	_, _, ok = FindDiffEnd(doc(p("a")), doc(p("a")))
	assert.False(t, ok)

	endA, endB, ok = FindDiffEnd(doc(p("b")), doc(p("a"), p("b")))
	assert.True(t, ok)
	assert.Equal(t, 0, endA)
	assert.Equal(t, 1, endB)
}

func TestEquivalent(t *testing.T) {
	assert.True(t, Equivalent(
		doc(p("hello  ", em("world")), ul(li("a"), li("b"))),
		doc(p("hello world"), ul(li(" a"), li("b "))),
	))
	assert.False(t, Equivalent(doc(p("a")), doc(h2("a"))))
	assert.False(t, Equivalent(doc(ul(li("a"))), doc(ul(li("a"), li("b")))))
	assert.False(t, Equivalent(
		doc(gallery(LayoutWide, "a.png")),
		doc(gallery(LayoutWide, "b.png")),
	))
	assert.Equal(t, []BlockSummary{
		{Kind: Paragraph, Text: "x y"},
		{Kind: Gallery, Layout: LayoutCard, Images: []string{"a.png", "b.png"}},
	}, Summarize(doc(p(" x\n y"), gallery(LayoutCard, "a.png", "b.png"))))
}
