package transform

import (
	"fmt"

	"github.com/helmgast/lore-editor/model"
)

// SetLayoutStep changes the layout variant of the gallery at the caret.
type SetLayoutStep struct {
	Layout model.Layout
}

// NewSetLayoutStep is a constructor for SetLayoutStep
func NewSetLayoutStep(layout model.Layout) *SetLayoutStep {
	return &SetLayoutStep{Layout: layout}
}

func (s *SetLayoutStep) String() string { return fmt.Sprintf("set-layout(%s)", s.Layout) }

// Apply is a method of the Action interface.
func (s *SetLayoutStep) Apply(doc *model.Document, pos model.Position) Result {
	block := doc.Block(pos.Block)
	if block == nil {
		return Fail("No block at given position")
	}
	if err := model.SetLayout(block, s.Layout); err != nil {
		return Fail(err.Error())
	}
	return OK(model.At(pos.Block, 0))
}
