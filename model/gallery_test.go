package model_test

import (
	"testing"

	. "github.com/helmgast/lore-editor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	assert.Equal(t, LayoutWide, ParseLayout("wide"))
	assert.Equal(t, LayoutSide, ParseLayout("gallery-side"))
	assert.Equal(t, LayoutCard, ParseLayout(" Card "))
	assert.Equal(t, LayoutCenter, ParseLayout("huge"))
	assert.Equal(t, "gallery-card", LayoutCard.Marker())

	layout, ok := MatchMarker("gallery-wide")
	assert.True(t, ok)
	assert.Equal(t, LayoutWide, layout)
	_, ok = MatchMarker("gallery-wide please")
	assert.False(t, ok)
}

func TestBuildGallery(t *testing.T) {
	n, err := BuildGallery(LayoutSide, []ImageRef{
		{Src: "a.png", Alt: "First"},
		{Src: ""},
		{Src: "b.png", Variant: "portrait"},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`<ul class="gallery gallery-side" contenteditable="false">`+
			`<li class="hide">gallery-side</li>`+
			`<li class="gallery-item" title="First"><img src="a.png" alt="First"/></li>`+
			`<li class="gallery-item"><img src="b.png" class="portrait"/></li></ul>`,
		RenderNode(n))

	_, err = BuildGallery(LayoutSide, []ImageRef{{Alt: "no source"}})
	assert.ErrorIs(t, err, ErrEmptyGallery)
}

func TestDecomposeGallery(t *testing.T) {
	layout, refs, err := DecomposeGallery(ul(li("gallery-card"), li(img("a.png", "A")), li("no image"), li(a("a.png", img("b.png")))))
	require.NoError(t, err)
	assert.Equal(t, LayoutCard, layout)
	assert.Equal(t, []ImageRef{{Src: "a.png", Alt: "A"}, {Src: "b.png"}}, refs)

	_, _, err = DecomposeGallery(ul(li("gallery-card"), li("nothing")))
	assert.ErrorIs(t, err, ErrEmptyGallery)

	_, _, err = DecomposeGallery(p("x"))
	assert.ErrorIs(t, err, ErrNotGallery)
}

func TestSetLayout(t *testing.T) {
	n := gallery(LayoutCenter, "a.png")
	require.NoError(t, SetLayout(n, LayoutWide))
	layout, _, err := DecomposeGallery(n)
	require.NoError(t, err)
	assert.Equal(t, LayoutWide, layout)
	assert.Equal(t, "gallery gallery-wide", GetAttr(n, "class"))

	assert.ErrorIs(t, SetLayout(p(), LayoutWide), ErrNotGallery)
}
