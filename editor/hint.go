package editor

import (
	"github.com/helmgast/lore-editor/model"
	"github.com/helmgast/lore-editor/transform"
)

// Hint is the label shown next to a new, empty block to tell its kind.
type Hint struct {
	Label   string
	Kind    model.BlockKind
	Pos     model.Position
	Visible bool
}

// Hint returns the current hint. It is not visible when there is nothing to
// show.
func (e *Editor) Hint() Hint {
	return e.hint
}

func (e *Editor) showHint(res transform.Result) {
	if res.Hint == model.Unknown {
		return
	}
	label := e.opts.hintLabel(res.Hint)
	if label == "" {
		return
	}
	tb := e.doc.Textblock(res.Caret)
	if tb == nil || !model.IsEmpty(tb) {
		return
	}
	e.hint = Hint{Label: label, Kind: res.Hint, Pos: res.Caret, Visible: true}
}

func (e *Editor) hideHint() {
	e.hint = Hint{}
}

// checkHint hides the hint once its block has content or is gone.
func (e *Editor) checkHint() {
	if !e.hint.Visible {
		return
	}
	if tb := e.doc.Textblock(e.hint.Pos); tb == nil || !model.IsEmpty(tb) {
		e.hideHint()
	}
}
