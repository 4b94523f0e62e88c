package transform

import "github.com/helmgast/lore-editor/model"

// Hints are the default labels announcing the kind of a new, empty block.
var Hints = map[model.BlockKind]string{
	model.Paragraph:   "Paragraph",
	model.Heading2:    "Section title",
	model.Heading3:    "Sub-section title",
	model.Quote:       "Quote",
	model.BulletList:  "List",
	model.OrderedList: "List",
}
