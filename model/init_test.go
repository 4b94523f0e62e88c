package model_test

import (
	"github.com/helmgast/lore-editor/test/builder"
)

var (
	doc        = builder.Doc
	blockquote = builder.Blockquote
	h2         = builder.H2
	h3         = builder.H3
	h4         = builder.H4
	p          = builder.P
	em         = builder.Em
	strong     = builder.Strong
	a          = builder.A
	ul         = builder.Ul
	ol         = builder.Ol
	li         = builder.Li
	img        = builder.Img
	gallery    = builder.Gallery
)
