package model_test

import (
	"testing"

	. "github.com/helmgast/lore-editor/model"
	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

func TestSplitInline(t *testing.T) {
	split := func(block *html.Node, offset int, before, after string) {
		t.Helper()
		rest := SplitInline(block, offset)
		assert.Equal(t, before, Render(block))
		holder := p()
		rest.AppendTo(holder)
		assert.Equal(t, after, Render(holder))
	}

	// splits text
	split(p("hello"), 2, "he", "llo")

	// splits inside a mark, keeping the mark on both sides
	split(p("a", em("bcd"), "e"), 2, "a<em>b</em>", "<em>cd</em>e")

	// keeps a link on both sides
	split(p(a("http://x", "link")), 2, `<a href="http://x">li</a>`, `<a href="http://x">nk</a>`)

	// splits around an image
	split(p("a", img("x.png"), "b"), 1, "a", `<img src="x.png"/>b`)

	// at the end nothing moves
	split(p("abc"), 3, "abc", "")

	// at the start everything moves
	split(p("abc"), 0, "", "abc")
}

func TestAppendInline(t *testing.T) {
	block := p("one ", em("two"))
	at := AppendInline(block, Fragment{NewText("three")})
	assert.Equal(t, 7, at)
	assert.Equal(t, "one <em>two</em>three", Render(block))

	// joins identical marks at the seam
	block = p(em("a"))
	AppendInline(block, ChildrenOf(p(em("b"), "c")))
	assert.Equal(t, "<em>ab</em>c", Render(block))
}

func TestReplaceRange(t *testing.T) {
	block := p("hello world")
	ReplaceRange(block, 0, 5, Fragment{strong("bye")})
	assert.Equal(t, "<strong>bye</strong> world", Render(block))

	block = p("ab", em("cd"), "ef")
	ReplaceRange(block, 1, 5, nil)
	assert.Equal(t, "af", Render(block))
}

func TestFragmentCut(t *testing.T) {
	f := ChildrenOf(p("ab", em("cd"), img("x.png"), "é"))
	assert.Equal(t, 6, f.Size())
	assert.Equal(t, "abcdé", f.TextContent())
	assert.True(t, f.HasImage())

	cut := func(from, to int, expected string) {
		t.Helper()
		holder := p()
		f.Cut(from, to).AppendTo(holder)
		assert.Equal(t, expected, Render(holder))
	}
	cut(0, 6, `ab<em>cd</em><img src="x.png"/>é`)
	cut(1, 3, "b<em>c</em>")
	cut(4, 6, `<img src="x.png"/>é`)
	cut(5, 6, "é")
	cut(2, 2, "")

	// cutting copies
	assert.Equal(t, 6, f.Size())
}

func TestNormalize(t *testing.T) {
	block := p()
	block.AppendChild(NewText("a"))
	block.AppendChild(NewText(""))
	block.AppendChild(NewText("b"))
	block.AppendChild(strong("c"))
	block.AppendChild(strong("d"))
	block.AppendChild(a("http://x", "e"))
	block.AppendChild(a("http://y", "f"))
	Normalize(block)
	assert.Equal(t, `ab<strong>cd</strong><a href="http://x">e</a><a href="http://y">f</a>`, Render(block))
}
