package model_test

import (
	"testing"

	. "github.com/helmgast/lore-editor/model"
	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html/atom"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, Paragraph, Classify(p("x")))
	assert.Equal(t, Heading2, Classify(h2("x")))
	assert.Equal(t, Heading3, Classify(h3("x")))
	assert.Equal(t, Heading4, Classify(h4("x")))
	assert.Equal(t, Quote, Classify(blockquote("x")))
	assert.Equal(t, BulletList, Classify(ul(li("x"))))
	assert.Equal(t, OrderedList, Classify(ol(li("x"))))
	assert.Equal(t, ListItem, Classify(li("x")))
	assert.Equal(t, Gallery, Classify(gallery(LayoutWide, "a.png")))
	assert.Equal(t, Unknown, Classify(NewElement(atom.Table)))
	assert.Equal(t, Unknown, Classify(NewText("x")))

	// a list whose first item merely looks like a marker stays a list
	assert.Equal(t, BulletList, Classify(ul(li("gallery-huge"), li("x"))))
	// ordered lists are never galleries
	assert.Equal(t, OrderedList, Classify(ol(li("gallery-wide"), li(img("a.png")))))
}

func TestBlockKindNames(t *testing.T) {
	for _, k := range []BlockKind{Paragraph, Heading2, Heading3, Heading4, Quote, BulletList, OrderedList, ListItem, Gallery} {
		assert.Equal(t, k, ParseBlockKind(k.String()))
	}
	assert.Equal(t, "heading-2", Heading2.String())
	assert.Equal(t, Unknown, ParseBlockKind("table"))
	assert.Equal(t, 3, Heading3.Level())
	assert.Equal(t, 0, Quote.Level())
	assert.True(t, Quote.IsTextblock())
	assert.False(t, BulletList.IsTextblock())
	assert.False(t, Gallery.IsList())
	assert.Equal(t, atom.Ul, Gallery.Tag())
}

func TestIsAllowed(t *testing.T) {
	assert.True(t, IsAllowed(p()))
	assert.True(t, IsAllowed(img("a.png")))
	assert.False(t, IsAllowed(NewElement(atom.Span)))
	assert.False(t, IsAllowed(NewText("x")))
	assert.True(t, IsInline(NewText("x")))
	assert.True(t, IsInline(a("http://x")))
	assert.False(t, IsInline(p()))
}
