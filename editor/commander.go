package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/helmgast/lore-editor/model"
	"github.com/helmgast/lore-editor/selection"
	"github.com/helmgast/lore-editor/transform"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrUnsupportedCommand is returned for commands the built-in commander
// does not know.
var ErrUnsupportedCommand = errors.New("unsupported command")

// docCommander runs formatting commands on the document itself, for hosts
// without a native editing engine.
type docCommander struct {
	e *Editor
}

// Exec is a method of the toolbar.Commander interface.
func (c *docCommander) Exec(command, arg string) error {
	switch command {
	case "bold":
		return c.toggleMark(model.MarkStrong)
	case "italic":
		return c.toggleMark(model.MarkEm)
	case "createLink":
		if arg == "" {
			return fmt.Errorf("%s: missing target", command)
		}
		return c.addMark(model.Mark{Type: model.MarkLink, Href: arg})
	case "unlink":
		return c.unlink()
	case "formatBlock":
		kind := blockKindOf(arg)
		if kind == model.Unknown || kind == model.ListItem {
			return fmt.Errorf("%s %q: %w", command, arg, ErrUnsupportedCommand)
		}
		return c.e.apply(transform.Transform{To: kind})
	case "insertimage":
		if arg == "" {
			return fmt.Errorf("%s: missing source", command)
		}
		return c.e.apply(transform.NewInsertImageStep(model.ImageRef{Src: arg}))
	}
	return fmt.Errorf("%s: %w", command, ErrUnsupportedCommand)
}

// State is a method of the toolbar.Commander interface.
func (c *docCommander) State(command string) bool {
	sel, ok := c.e.tracker.Current()
	if !ok || !sel.InEditor {
		return false
	}
	f := model.FormatsAt(sel.Path)
	switch command {
	case "bold":
		return f.Bold
	case "italic":
		return f.Italic
	case "createLink", "unlink":
		return f.Link
	case "blockquote":
		return f.Quote
	}
	return false
}

// blockKindOf reads the argument of formatBlock, a tag name with or without
// angle brackets.
func blockKindOf(arg string) model.BlockKind {
	tag := strings.Trim(strings.ToLower(strings.TrimSpace(arg)), "<>")
	if alias, ok := model.TagAliases[tag]; ok {
		tag = alias
	}
	a := atom.Lookup([]byte(tag))
	if a == 0 {
		return model.Unknown
	}
	return model.Classify(model.NewElement(a))
}

// span is a selection inside a single textblock.
type span struct {
	sel  *selection.Selection
	pos  model.Position
	from int
	to   int
}

func (c *docCommander) span() (*span, error) {
	sel, ok := c.e.tracker.Current()
	if !ok || !sel.InEditor {
		return nil, ErrNoSelection
	}
	end, ok := model.Resolve(c.e.doc.Root, sel.EndContainer, sel.EndOffset)
	if !ok || end.Textblock != sel.Pos.Textblock {
		return nil, errors.New("selection spans several blocks")
	}
	return &span{sel: sel, pos: sel.Pos.Position(), from: sel.Pos.Offset, to: end.Offset}, nil
}

// reselect selects the span again once its content changed.
func (c *docCommander) reselect(s *span) {
	start := s.pos
	start.Offset = min(s.from, s.to)
	end := s.pos
	end.Offset = max(s.from, s.to)
	startNode, startOffset := c.e.doc.Locate(start)
	endNode, endOffset := c.e.doc.Locate(end)
	c.e.selector.Select(selection.Range{
		StartContainer: startNode,
		StartOffset:    startOffset,
		EndContainer:   endNode,
		EndOffset:      endOffset,
		Rect:           s.sel.Rect,
	})
}

func (c *docCommander) run(s *span, action transform.Action) error {
	res := action.Apply(c.e.doc, s.pos)
	if res.Failed != "" {
		return fmt.Errorf("%s: %s", action, res.Failed)
	}
	c.reselect(s)
	return nil
}

func (c *docCommander) addMark(mark model.Mark) error {
	s, err := c.span()
	if err != nil {
		return err
	}
	return c.run(s, transform.NewAddMarkStep(s.from, s.to, mark))
}

// toggleMark removes a mark active at the start of the selection, and adds
// it otherwise.
func (c *docCommander) toggleMark(t model.MarkType) error {
	s, err := c.span()
	if err != nil {
		return err
	}
	if model.HasType(model.MarksAt(s.sel.Path), t) {
		return c.run(s, transform.NewRemoveMarkStep(s.from, s.to, t))
	}
	return c.run(s, transform.NewAddMarkStep(s.from, s.to, model.Mark{Type: t}))
}

// unlink removes the links of the selection, or the link around a caret.
func (c *docCommander) unlink() error {
	s, err := c.span()
	if err != nil {
		return err
	}
	if s.from != s.to {
		return c.run(s, transform.NewRemoveMarkStep(s.from, s.to, model.MarkLink))
	}
	for _, n := range s.sel.Path {
		if model.TagAtom(n) == atom.A {
			unwrap(n)
			model.Normalize(s.sel.Pos.Textblock)
			c.reselect(s)
			return nil
		}
	}
	return nil
}

// unwrap replaces an element by its children.
func unwrap(n *html.Node) {
	parent := n.Parent
	for n.FirstChild != nil {
		child := n.FirstChild
		n.RemoveChild(child)
		parent.InsertBefore(child, n)
	}
	parent.RemoveChild(n)
}
