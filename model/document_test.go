package model_test

import (
	"testing"

	. "github.com/helmgast/lore-editor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"
)

func TestDocumentNeverEmpty(t *testing.T) {
	d := doc()
	assert.Equal(t, 1, d.BlockCount())
	assert.Equal(t, "<p></p>", d.HTML())

	d = doc(p("x"))
	d.RemoveBlock(0)
	assert.True(t, d.EnsureNotEmpty())
	assert.False(t, d.EnsureNotEmpty())
	assert.Equal(t, Paragraph, d.Kind(0))
}

func TestParseDocument(t *testing.T) {
	d, err := ParseDocument("<p>one</p><h2>two</h2>")
	require.NoError(t, err)
	assert.Equal(t, `paragraph("one"), heading-2("two")`, d.String())

	d, err = ParseDocument("")
	require.NoError(t, err)
	assert.Equal(t, `paragraph("")`, d.String())
}

func TestDocumentBlocks(t *testing.T) {
	d := doc(p("a"), h2("b"))
	d.InsertBlock(1, blockquote("q"))
	d.InsertBlock(9, p("end"))
	assert.Equal(t, `paragraph("a"), quote("q"), heading-2("b"), paragraph("end")`, d.String())

	d.ReplaceBlock(0, h3("c"))
	assert.Equal(t, Heading3, d.Kind(0))
	assert.Equal(t, 2, d.IndexOf(d.Block(2)))
	assert.Equal(t, -1, d.IndexOf(p()))
	assert.Nil(t, d.Block(-1))
	assert.Equal(t, Unknown, d.Kind(42))

	c := d.Clone()
	c.RemoveBlock(0)
	assert.Equal(t, 4, d.BlockCount())
	assert.Equal(t, 3, c.BlockCount())
}

func TestDocumentString(t *testing.T) {
	d := doc(ul(li("a"), li("b")), gallery(LayoutWide, "x.png", "y.png"))
	assert.Equal(t,
		`unordered-list(list-item("a"), list-item("b")), gallery[wide](x.png, y.png)`,
		d.String())
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, doc().WordCount())
	assert.Equal(t, 0, doc(p("   ")).WordCount())
	assert.Equal(t, 5, doc(p("one ", em("two")), ul(li("three"), li("four five"))).WordCount())
	assert.Equal(t, "one two\nthree\nfour five", doc(p("one ", em("two")), ul(li("three"), li("four five"))).TextContent())
}

func TestNewBlock(t *testing.T) {
	assert.Equal(t, "<p></p>", RenderNode(NewBlock(Paragraph)))
	assert.Equal(t, "<ol><li></li></ol>", RenderNode(NewBlock(OrderedList)))
	assert.Nil(t, NewBlock(Gallery))
	assert.Nil(t, NewBlock(Unknown))
}

func TestDisplayHTML(t *testing.T) {
	d := doc(p(img("a.png")), gallery(LayoutCard, "b.png"))
	assert.Equal(t,
		`<p><a class="imagelink" href="a.png"><img src="a.png"/></a></p>`+
			`<ul class="gallery gallery-card" contenteditable="false"><li class="hide">gallery-card</li>`+
			`<li class="gallery-item"><a class="imagelink" href="b.png"><img src="b.png"/></a></li></ul>`,
		d.DisplayHTML())
	// the document itself is untouched
	assert.Equal(t, atom.Img, d.Block(0).FirstChild.DataAtom)
}
