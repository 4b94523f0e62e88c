// Package transform implements the block commands of the editor as values.
// A key press is first turned into an Action by Decide, and a single Apply
// per action then rewrites the document, so that deciding what to do can be
// tested without touching a document.
package transform

import "github.com/helmgast/lore-editor/model"

// An Action is an atomic change of a document, decided from the caret
// position. It generally applies only to the document it was decided for,
// since the position it is applied at only makes sense for that document.
type Action interface {
	// Apply performs the action at the caret position pos, mutating doc in
	// place. The result either indicates failure or holds the new caret
	// position.
	Apply(doc *model.Document, pos model.Position) Result

	String() string
}

// Result is the result of applying an action.
type Result struct {
	// Caret is where the caret goes after the action.
	Caret model.Position
	// Hint is the kind of the block created or converted by the action, or
	// model.Unknown when there is nothing to announce.
	Hint model.BlockKind
	// Native tells the host to run its default handling of the event.
	Native bool
	// Failed holds a message when the action could not be applied. The
	// document is then left untouched.
	Failed string
}

// OK creates a successful result.
func OK(caret model.Position) Result {
	return Result{Caret: caret}
}

// Fail creates a failed result.
func Fail(message string) Result {
	return Result{Failed: message}
}

// WithHint sets the hint of a successful result.
func (r Result) WithHint(kind model.BlockKind) Result {
	if r.Failed == "" {
		r.Hint = kind
	}
	return r
}

// Passthrough leaves the event to the host.
type Passthrough struct{}

// Apply is a method of the Action interface.
func (Passthrough) Apply(doc *model.Document, pos model.Position) Result {
	return Result{Caret: pos, Native: true}
}

func (Passthrough) String() string { return "passthrough" }

// Ignore swallows the event without changing the document.
type Ignore struct{}

// Apply is a method of the Action interface.
func (Ignore) Apply(doc *model.Document, pos model.Position) Result {
	return OK(pos)
}

func (Ignore) String() string { return "ignore" }
