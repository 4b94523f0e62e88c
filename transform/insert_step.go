package transform

import (
	"fmt"

	"github.com/helmgast/lore-editor/model"
)

// InsertImageStep inserts an inline image at the caret.
type InsertImageStep struct {
	Image model.ImageRef
}

// NewInsertImageStep is the constructor for InsertImageStep.
func NewInsertImageStep(image model.ImageRef) *InsertImageStep {
	return &InsertImageStep{Image: image}
}

func (s *InsertImageStep) String() string { return "insert-image" }

// Apply is a method of the Action interface.
func (s *InsertImageStep) Apply(doc *model.Document, pos model.Position) Result {
	if s.Image.Src == "" {
		return Fail("Image has no source")
	}
	tb, failed := textblockAt(doc, pos)
	if tb == nil {
		return Fail(failed)
	}
	at := min(max(pos.Offset, 0), model.ChildrenOf(tb).Size())
	model.ReplaceRange(tb, at, at, model.Fragment{s.Image.Node()})
	pos.Offset = at + 1
	return OK(pos)
}

// InsertGalleryStep inserts a gallery after the block holding the caret, or
// in place of it when that block is an empty paragraph. The caret goes to
// the block after the gallery, which is created if needed.
type InsertGalleryStep struct {
	Layout model.Layout
	Images []model.ImageRef
}

// NewInsertGalleryStep is the constructor for InsertGalleryStep.
func NewInsertGalleryStep(layout model.Layout, images []model.ImageRef) *InsertGalleryStep {
	return &InsertGalleryStep{Layout: layout, Images: images}
}

func (s *InsertGalleryStep) String() string {
	return fmt.Sprintf("insert-gallery(%s, %d)", s.Layout, len(s.Images))
}

// Apply is a method of the Action interface.
func (s *InsertGalleryStep) Apply(doc *model.Document, pos model.Position) Result {
	gallery, err := model.BuildGallery(s.Layout, s.Images)
	if err != nil {
		return Fail(err.Error())
	}
	block := doc.Block(pos.Block)
	if block == nil {
		return Fail("No block at given position")
	}
	index := pos.Block + 1
	if model.Classify(block) == model.Paragraph && model.IsEmpty(block) {
		doc.ReplaceBlock(pos.Block, gallery)
		index = pos.Block
	} else {
		doc.InsertBlock(index, gallery)
	}
	if !model.Classify(doc.Block(index + 1)).IsTextblock() {
		doc.InsertBlock(index+1, model.Placeholder())
	}
	return OK(model.At(index+1, 0))
}
