// Package editor ties the pieces of a rich-text editor together for one
// container element. The host forwards its events (keys, mouse, scrolling,
// paste, composition) to an Editor, which keeps the document in shape and
// hands out Markdown on submit.
//
// An Editor is not safe for concurrent use: like a browser UI thread, the
// host must deliver one event at a time.
package editor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/helmgast/lore-editor/markdown"
	"github.com/helmgast/lore-editor/model"
	"github.com/helmgast/lore-editor/sanitize"
	"github.com/helmgast/lore-editor/selection"
	"github.com/helmgast/lore-editor/toolbar"
	"github.com/helmgast/lore-editor/transform"
	"golang.org/x/net/html"
)

// MarkdownCommand is the custom toolbar command switching to raw Markdown.
const MarkdownCommand = "markdown"

// ErrNoSelection is returned by commands that need a caret in the editor.
var ErrNoSelection = errors.New("no selection in the editor")

// FormField is the hidden form input receiving the Markdown.
type FormField struct {
	Value string
}

// KeyEvent is a key press as reported by the host.
type KeyEvent struct {
	Code int
	// Key names the key for hot keys, such as "b" or "tab".
	Key   string
	Ctrl  bool
	Alt   bool
	Meta  bool
	Shift bool
}

// Combo is the key combination of the event, like "ctrl+shift+z".
func (ev KeyEvent) Combo() string {
	var parts []string
	for _, mod := range []struct {
		on   bool
		name string
	}{{ev.Ctrl, "ctrl"}, {ev.Alt, "alt"}, {ev.Meta, "meta"}, {ev.Shift, "shift"}} {
		if mod.on {
			parts = append(parts, mod.name)
		}
	}
	return toolbar.Combo(strings.Join(append(parts, ev.Key), "+"))
}

// Editor is the editing context of one container element.
type Editor struct {
	opts      Options
	log       *slog.Logger
	now       func() time.Time
	doc       *model.Document
	snapshot  *model.Document
	sanitizer *sanitize.Sanitizer
	selector  selection.Selector
	tracker   *selection.Tracker
	toolbar   *toolbar.Controller
	commander toolbar.Commander
	field     *FormField
	bounds    selection.Rect
	hint      Hint
	onChange  func(doc *model.Document)
	onError   func(reason, detail string)
}

// New attaches an editor to a container element and fills it with the
// imported Markdown. Whatever the container held before is replaced.
func New(container *html.Node, text string, opts ...Option) *Editor {
	e := &Editor{
		opts:      DefaultOptions(),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		sanitizer: sanitize.New(),
		selector:  &selection.Manual{},
		field:     &FormField{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.commander == nil {
		e.commander = &docCommander{e: e}
	}
	e.doc = &model.Document{Root: container}
	e.tracker = selection.NewTracker(container, e.selector)
	e.toolbar = toolbar.New(e.commander, toolbar.Config{
		Offset:         e.opts.ToolbarOffset,
		FadeDelay:      e.opts.FadeDelay,
		ScrollCooldown: e.opts.ScrollCooldown,
	})
	e.toolbar.Register(MarkdownCommand, &toolbar.CustomCommand{Activate: e.toggleMarkdown})
	e.load(text)
	return e
}

// load replaces the content of the document by imported Markdown.
func (e *Editor) load(text string) {
	imported := markdown.Import(text)
	if err := e.sanitizer.SanitizeNode(imported.Root); err != nil {
		e.log.Error("Failed to sanitize imported document", "error", err)
	}
	model.Decorate(imported)
	for e.doc.Root.FirstChild != nil {
		e.doc.Root.RemoveChild(e.doc.Root.FirstChild)
	}
	model.MoveChildren(e.doc.Root, imported.Root)
	e.doc.EnsureNotEmpty()
	e.snapshot = e.doc.Clone()
	e.hint = Hint{}
}

// Document returns the live document.
func (e *Editor) Document() *model.Document {
	return e.doc
}

// Toolbar returns the toolbar controller.
func (e *Editor) Toolbar() *toolbar.Controller {
	return e.toolbar
}

// Tracker returns the selection tracker.
func (e *Editor) Tracker() *selection.Tracker {
	return e.tracker
}

// Markdown exports a cleaned copy of the document.
func (e *Editor) Markdown() string {
	clean := e.doc.Clone()
	if err := e.sanitizer.SanitizeNode(clean.Root); err != nil {
		e.log.Error("Failed to sanitize document", "error", err)
	}
	return markdown.Export(clean)
}

// WordCount counts the words of the document.
func (e *Editor) WordCount() int {
	return e.doc.WordCount()
}

// ActiveBlock classifies the textblock holding the caret.
func (e *Editor) ActiveBlock() model.BlockKind {
	sel, ok := e.tracker.Current()
	if !ok || !sel.InEditor {
		return model.Unknown
	}
	return sel.Pos.Kind()
}

// Submit writes the Markdown into the form field and returns it. While the
// Markdown command is active, the field holds the text being edited and is
// left alone.
func (e *Editor) Submit() string {
	if cmd, ok := e.toolbar.Custom(MarkdownCommand); ok && cmd.Active {
		return e.field.Value
	}
	if err := e.sanitizer.SanitizeNode(e.doc.Root); err != nil {
		e.log.Error("Failed to sanitize document", "error", err)
	}
	model.Decorate(e.doc)
	e.field.Value = markdown.Export(e.doc)
	e.log.Debug("Submitted document", "words", e.WordCount())
	return e.field.Value
}

// toggleMarkdown switches between rich and raw Markdown editing. The field
// receives the Markdown when switching to raw editing, and is imported back
// when leaving it.
func (e *Editor) toggleMarkdown(active bool) {
	if active {
		e.field.Value = e.Markdown()
		return
	}
	before := e.snapshot
	e.load(e.field.Value)
	e.snapshot = before
	e.notifyChange()
}

// KeyDown handles a key press. It returns true when the editor handled the
// key, and the host must then prevent its default behavior.
func (e *Editor) KeyDown(ev KeyEvent) bool {
	if !transform.IsModifier(ev.Code) {
		e.hideHint()
	}
	if ev.Ctrl || ev.Meta || ev.Alt || ev.Shift {
		if command, ok := e.opts.HotKeys.Lookup(ev.Combo()); ok {
			if err := e.ToolbarCommand(command); err != nil {
				e.log.Warn("Hot key failed", "combo", ev.Combo(), "command", command, "error", err)
			}
			return true
		}
	}
	key := transform.KeyFromCode(ev.Code)
	if key == transform.KeyOther {
		return false
	}
	sel, ok := e.tracker.Current()
	if !ok || !sel.InEditor {
		return false
	}
	state := transform.StateOf(sel.Pos, sel.Collapsed)
	if state.Kind == model.Unknown {
		e.log.Warn("Cannot classify block", "tag", sel.Pos.Block.Data, "key", key)
		return false
	}
	action := transform.Decide(key, state)
	res := action.Apply(e.doc, sel.Pos.Position())
	switch {
	case res.Failed != "":
		e.log.Warn("Command failed", "action", action.String(), "reason", res.Failed)
		return false
	case res.Native:
		return false
	}
	e.doc.EnsureNotEmpty()
	e.tracker.SelectPosition(e.doc, res.Caret)
	e.showHint(res)
	e.log.Debug("Applied command", "key", key, "action", action.String())
	return true
}

// KeyUp finishes a key press: the selection is saved, the toolbar follows
// it, and changes are reported.
func (e *Editor) KeyUp(code int) {
	e.tracker.Save()
	e.updateToolbar()
	e.checkHint()
	e.notifyChange()
}

// MouseDown hides the hint, unless the click goes to the toolbar.
func (e *Editor) MouseDown(fromToolbar bool) {
	if !fromToolbar {
		e.hideHint()
	}
}

// MouseUp saves the selection made with the mouse. Clicks on the toolbar
// leave the saved selection alone, since they steal the focus.
func (e *Editor) MouseUp(fromToolbar bool) {
	if fromToolbar {
		return
	}
	e.tracker.Save()
	e.updateToolbar()
}

// CompositionStart suspends toolbar updates while an input method composes.
func (e *Editor) CompositionStart() {
	e.toolbar.SetComposing(true)
}

// CompositionEnd resumes toolbar updates.
func (e *Editor) CompositionEnd() {
	e.toolbar.SetComposing(false)
	e.tracker.Save()
	e.updateToolbar()
	e.notifyChange()
}

// Scroll repositions the toolbar, throttled. bounds is the new editor
// rectangle.
func (e *Editor) Scroll(bounds selection.Rect) bool {
	e.bounds = bounds
	sel, _ := e.tracker.Current()
	return e.toolbar.Scroll(sel, bounds, e.now())
}

// Resize repositions the toolbar.
func (e *Editor) Resize(bounds selection.Rect) {
	e.bounds = bounds
	sel, _ := e.tracker.Current()
	e.toolbar.Resize(sel, bounds, e.now())
}

// Paste cleans the document after the host inserted pasted content. The
// caret stays in the same block when it still exists.
func (e *Editor) Paste() {
	var pos *model.Position
	if sel, ok := e.tracker.Current(); ok && sel.InEditor {
		p := sel.Pos.Position()
		pos = &p
	}
	if err := e.sanitizer.SanitizeNode(e.doc.Root); err != nil {
		e.log.Error("Failed to sanitize pasted content", "error", err)
		return
	}
	model.Decorate(e.doc)
	if pos != nil {
		if e.doc.Textblock(*pos) == nil {
			*pos = model.At(e.doc.BlockCount()-1, 0)
		}
		e.tracker.SelectPosition(e.doc, *pos)
	}
	e.notifyChange()
}

// ToolbarCommand runs a toolbar button: the editing selection comes back,
// the command runs, and the resulting selection is saved.
func (e *Editor) ToolbarCommand(command string) error {
	e.tracker.Restore()
	err := e.toolbar.Toggle(command)
	e.tracker.Save()
	e.updateToolbar()
	e.notifyChange()
	return err
}

// ApplyURL links the saved selection to url, or unlinks it when url is
// empty. A url without scheme gets the configured one.
func (e *Editor) ApplyURL(url string) error {
	e.tracker.Restore()
	if err := e.toolbar.Toggle("unlink"); err != nil {
		return err
	}
	url = strings.TrimSpace(url)
	if url != "" {
		if !strings.Contains(url, ":") {
			url = e.opts.LinkScheme + url
		}
		if err := e.toolbar.Exec("createLink", url); err != nil {
			return err
		}
	}
	e.tracker.Save()
	e.notifyChange()
	return nil
}

// InsertGallery inserts a gallery after the block holding the caret.
func (e *Editor) InsertGallery(layout model.Layout, images []model.ImageRef) error {
	if _, err := model.BuildGallery(layout, images); err != nil {
		return fmt.Errorf("insert gallery: %w", err)
	}
	if err := e.apply(transform.NewInsertGalleryStep(layout, images)); err != nil {
		return err
	}
	e.notifyChange()
	return nil
}

// SetGalleryLayout changes the layout of the gallery at index block.
func (e *Editor) SetGalleryLayout(block int, layout model.Layout) error {
	if e.doc.Kind(block) != model.Gallery {
		return fmt.Errorf("set layout of block %d: %w", block, model.ErrNotGallery)
	}
	res := transform.NewSetLayoutStep(layout).Apply(e.doc, model.At(block, 0))
	if res.Failed != "" {
		return fmt.Errorf("set layout of block %d: %s", block, res.Failed)
	}
	e.notifyChange()
	return nil
}

// caret returns the position of the caret: the current one, the saved one,
// or the end of the document.
func (e *Editor) caret() model.Position {
	if sel, ok := e.tracker.Current(); ok && sel.InEditor {
		return sel.Pos.Position()
	}
	if e.tracker.Restore() {
		if sel, ok := e.tracker.Current(); ok && sel.InEditor {
			return sel.Pos.Position()
		}
	}
	return transform.EndOf(e.doc, e.doc.BlockCount()-1)
}

// apply runs an action at the caret and moves the caret.
func (e *Editor) apply(action transform.Action) error {
	res := action.Apply(e.doc, e.caret())
	if res.Failed != "" {
		e.log.Warn("Command failed", "action", action.String(), "reason", res.Failed)
		return fmt.Errorf("%s: %s", action, res.Failed)
	}
	e.doc.EnsureNotEmpty()
	e.tracker.SelectPosition(e.doc, res.Caret)
	e.tracker.Save()
	return nil
}

func (e *Editor) updateToolbar() {
	sel, ok := e.tracker.Current()
	if !ok {
		sel = nil
	}
	e.toolbar.Update(sel, e.bounds, e.now())
}

// notifyChange reports a change of the document since the last report.
func (e *Editor) notifyChange() {
	at := model.FindDiffStart(e.snapshot, e.doc)
	if at < 0 {
		return
	}
	e.snapshot = e.doc.Clone()
	e.log.Debug("Document changed", "block", at)
	if e.onChange != nil {
		e.onChange(e.doc)
	}
}
