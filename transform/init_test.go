package transform

import (
	"testing"

	"github.com/helmgast/lore-editor/model"
	"github.com/helmgast/lore-editor/test/builder"
	"github.com/stretchr/testify/assert"
)

var (
	doc        = builder.Doc
	p          = builder.P
	h2         = builder.H2
	h3         = builder.H3
	blockquote = builder.Blockquote
	ul         = builder.Ul
	ol         = builder.Ol
	li         = builder.Li
	em         = builder.Em
	strong     = builder.Strong
	a          = builder.A
	img        = builder.Img
	gallery    = builder.Gallery
)

// testApply applies an action and checks the resulting document and caret.
func testApply(t *testing.T, before *model.Document, pos model.Position, action Action, after *model.Document, caret model.Position) Result {
	t.Helper()
	result := action.Apply(before, pos)
	if assert.Empty(t, result.Failed, "%s", action) {
		assert.Equal(t, after.HTML(), before.HTML(), "%s", action)
		assert.Equal(t, caret, result.Caret, "%s", action)
	}
	return result
}

// testFail applies an action that must fail without touching the document.
func testFail(t *testing.T, before *model.Document, pos model.Position, action Action) {
	t.Helper()
	html := before.HTML()
	result := action.Apply(before, pos)
	assert.NotEmpty(t, result.Failed, "%s", action)
	assert.Equal(t, html, before.HTML(), "%s", action)
}
