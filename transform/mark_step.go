package transform

import (
	"fmt"

	"github.com/helmgast/lore-editor/model"
	"golang.org/x/net/html"
)

// textblockAt finds the textblock a position points into, refusing
// galleries.
func textblockAt(doc *model.Document, pos model.Position) (*html.Node, string) {
	if model.Classify(doc.Block(pos.Block)) == model.Gallery {
		return nil, "Cannot format a gallery"
	}
	tb := doc.Textblock(pos)
	if tb == nil || !model.Classify(tb).IsTextblock() {
		return nil, "No textblock at given position"
	}
	return tb, ""
}

func clampRange(from, to, size int) (int, int) {
	if from > to {
		from, to = to, from
	}
	return max(from, 0), min(to, size)
}

// stripMark unwraps every element applying a mark of type t.
func stripMark(f model.Fragment, t model.MarkType) model.Fragment {
	var out model.Fragment
	for _, n := range f {
		if m, ok := model.MarkOf(n); ok && m.Type == t {
			out = append(out, stripMark(model.ChildrenOf(n), t)...)
			continue
		}
		if n.Type == html.ElementNode {
			inner := stripMark(model.ChildrenOf(n), t)
			model.ChildrenOf(n).Detach()
			inner.AppendTo(n)
		}
		out = append(out, n)
	}
	return out
}

// AddMarkStep adds a mark to the inline content between two offsets of the
// textblock holding the caret. Marks of the same type inside the range are
// replaced, so a link over a link takes the new target.
type AddMarkStep struct {
	From int
	To   int
	Mark model.Mark
}

// NewAddMarkStep is the constructor for AddMarkStep.
func NewAddMarkStep(from, to int, mark model.Mark) *AddMarkStep {
	return &AddMarkStep{From: from, To: to, Mark: mark}
}

func (s *AddMarkStep) String() string {
	return fmt.Sprintf("add-mark(%s, %d, %d)", s.Mark.Type, s.From, s.To)
}

// Apply is a method of the Action interface.
func (s *AddMarkStep) Apply(doc *model.Document, pos model.Position) Result {
	tb, failed := textblockAt(doc, pos)
	if tb == nil {
		return Fail(failed)
	}
	content := model.ChildrenOf(tb)
	from, to := clampRange(s.From, s.To, content.Size())
	pos.Offset = to
	if from >= to {
		return OK(pos)
	}
	wrapper := s.Mark.Element()
	stripMark(content.Cut(from, to), s.Mark.Type).AppendTo(wrapper)
	model.ReplaceRange(tb, from, to, model.Fragment{wrapper})
	return OK(pos)
}

// RemoveMarkStep removes marks of a type from the inline content between two
// offsets of the textblock holding the caret.
type RemoveMarkStep struct {
	From int
	To   int
	Type model.MarkType
}

// NewRemoveMarkStep is the constructor for RemoveMarkStep.
func NewRemoveMarkStep(from, to int, t model.MarkType) *RemoveMarkStep {
	return &RemoveMarkStep{From: from, To: to, Type: t}
}

func (s *RemoveMarkStep) String() string {
	return fmt.Sprintf("remove-mark(%s, %d, %d)", s.Type, s.From, s.To)
}

// Apply is a method of the Action interface.
func (s *RemoveMarkStep) Apply(doc *model.Document, pos model.Position) Result {
	tb, failed := textblockAt(doc, pos)
	if tb == nil {
		return Fail(failed)
	}
	content := model.ChildrenOf(tb)
	from, to := clampRange(s.From, s.To, content.Size())
	pos.Offset = to
	if from >= to {
		return OK(pos)
	}
	model.ReplaceRange(tb, from, to, stripMark(content.Cut(from, to), s.Type))
	return OK(pos)
}
