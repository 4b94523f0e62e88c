package transform

import "github.com/helmgast/lore-editor/model"

// Key is a key that may trigger a block command.
type Key int

const (
	KeyOther Key = iota
	KeyEnter
	KeyBackspace
	KeyTab
	KeyDash
	KeyDelete
)

var keyNames = map[Key]string{
	KeyOther:     "other",
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyDash:      "dash",
	KeyDelete:    "delete",
}

func (k Key) String() string {
	return keyNames[k]
}

// KeyFromCode maps a browser key code. Browsers disagree on the code of the
// dash key, so all of them are accepted.
func KeyFromCode(code int) Key {
	switch code {
	case 13:
		return KeyEnter
	case 8:
		return KeyBackspace
	case 9:
		return KeyTab
	case 189, 173, 45:
		return KeyDash
	case 46:
		return KeyDelete
	}
	return KeyOther
}

// IsModifier is true for the codes of shift, control, alt and meta. They do
// not count as an edit.
func IsModifier(code int) bool {
	switch code {
	case 16, 17, 18, 224:
		return true
	}
	return false
}

// State is what Decide knows about the caret.
type State struct {
	Kind      model.BlockKind
	AtStart   bool
	AtEnd     bool
	Empty     bool
	Collapsed bool
}

// StateOf describes a resolved caret.
func StateOf(r *model.ResolvedPos, collapsed bool) State {
	return State{
		Kind:      r.Kind(),
		AtStart:   r.AtStart(),
		AtEnd:     r.AtEnd(),
		Empty:     r.Empty(),
		Collapsed: collapsed,
	}
}

type handler func(s State) Action

// emptyAtStart picks the action for an empty block with the caret at its
// start, and otherwise falls through to the other action.
func emptyAtStart(then, otherwise Action) handler {
	return func(s State) Action {
		if s.Empty && s.AtStart {
			return then
		}
		return otherwise
	}
}

func atStart(then Action) handler {
	return func(s State) Action {
		if s.AtStart {
			return then
		}
		return Passthrough{}
	}
}

func atEnd(then Action) handler {
	return func(s State) Action {
		if s.AtEnd {
			return then
		}
		return Passthrough{}
	}
}

var (
	toParagraph   = Transform{To: model.Paragraph}
	deleteForward = atEnd(Merge{Dir: Forward})
	closeHeading  = map[Key]handler{
		KeyEnter:     emptyAtStart(Ignore{}, Split{To: model.Paragraph}),
		KeyBackspace: atStart(toParagraph),
		KeyDelete:    deleteForward,
	}
)

// table holds the transitions. A missing entry passes the key through.
var table = map[model.BlockKind]map[Key]handler{
	model.Paragraph: {
		KeyEnter:     emptyAtStart(Transform{To: model.Heading2}, Split{To: model.Paragraph}),
		KeyBackspace: atStart(Merge{Dir: Backward}),
		KeyTab:       emptyAtStart(Transform{To: model.Quote}, Passthrough{}),
		KeyDash:      emptyAtStart(Transform{To: model.BulletList}, Passthrough{}),
		KeyDelete:    deleteForward,
	},
	model.Heading2: {
		KeyEnter:     emptyAtStart(Transform{To: model.Heading3}, Split{To: model.Paragraph}),
		KeyBackspace: atStart(toParagraph),
		KeyDelete:    deleteForward,
	},
	model.Heading3: closeHeading,
	model.Heading4: closeHeading,
	model.Quote:    closeHeading,
	model.ListItem: {
		KeyEnter:     emptyAtStart(Split{To: model.Paragraph}, Split{To: model.ListItem}),
		KeyBackspace: atStart(toParagraph),
	},
}

// Decide returns the action for a key pressed in the given state. Anything
// not covered by the transition table, including every non-collapsed
// selection, passes through.
func Decide(key Key, s State) Action {
	if !s.Collapsed {
		return Passthrough{}
	}
	handlers, ok := table[s.Kind]
	if !ok {
		return Passthrough{}
	}
	h, ok := handlers[key]
	if !ok {
		return Passthrough{}
	}
	return h(s)
}
