// Package toolbar controls the floating format toolbar of an editor: where
// it goes, whether it shows, and what its buttons do.
//
// The controller does not keep timers. Every event passes the current time,
// and the fading state ends the first time the controller is looked at after
// the fade delay.
package toolbar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/helmgast/lore-editor/selection"
)

const (
	// DefaultFadeDelay is how long the toolbar fades out.
	DefaultFadeDelay = 260 * time.Millisecond
	// DefaultScrollCooldown is the minimum time between two repositionings
	// caused by scrolling.
	DefaultScrollCooldown = 250 * time.Millisecond
	// Parked is the coordinate of a hidden toolbar.
	Parked = -999
)

// ErrEmptyCommand is returned when toggling a blank command.
var ErrEmptyCommand = errors.New("empty command")

// Visibility is the state of the toolbar.
type Visibility int

const (
	Hidden Visibility = iota
	Active
	Fading
)

func (v Visibility) String() string {
	switch v {
	case Active:
		return "active"
	case Fading:
		return "fading"
	}
	return "hidden"
}

// Point is the toolbar offset relative to the editor.
type Point struct {
	Top  float64
	Left float64
}

// Position computes where the toolbar goes for a selection: above it by
// offset, horizontally centered on it.
func Position(sel, editor selection.Rect, offset float64) Point {
	return Point{
		Top:  sel.Top - editor.Top - offset,
		Left: (sel.Left+sel.Right)/2 - editor.Left,
	}
}

// Config tunes a Controller.
type Config struct {
	Offset         float64
	FadeDelay      time.Duration
	ScrollCooldown time.Duration
}

// Commander runs the formatting commands built into the host, like
// execCommand in a browser.
type Commander interface {
	Exec(command, arg string) error
	// State reports whether the command applies at the selection.
	State(command string) bool
}

// CustomCommand is a toggle handled outside the Commander, such as the
// Markdown preview.
type CustomCommand struct {
	Active   bool
	Activate func(active bool)
}

// Controller drives the toolbar of one editor.
type Controller struct {
	cfg       Config
	commander Commander
	custom    map[string]*CustomCommand

	state      Visibility
	pos        Point
	fadeUntil  time.Time
	nextScroll time.Time
	composing  bool
}

// New creates a hidden toolbar. Zero durations take their default.
func New(commander Commander, cfg Config) *Controller {
	if cfg.FadeDelay <= 0 {
		cfg.FadeDelay = DefaultFadeDelay
	}
	if cfg.ScrollCooldown <= 0 {
		cfg.ScrollCooldown = DefaultScrollCooldown
	}
	return &Controller{
		cfg:       cfg,
		commander: commander,
		custom:    map[string]*CustomCommand{},
		pos:       Point{Top: Parked, Left: Parked},
	}
}

// State returns the visibility at time now.
func (c *Controller) State(now time.Time) Visibility {
	c.tick(now)
	return c.state
}

// Point returns the current toolbar position.
func (c *Controller) Point() Point {
	return c.pos
}

func (c *Controller) tick(now time.Time) {
	if c.state == Fading && !now.Before(c.fadeUntil) {
		c.state = Hidden
		c.pos = Point{Top: Parked, Left: Parked}
	}
}

// SetComposing suspends updates while an input method composes text.
func (c *Controller) SetComposing(composing bool) {
	c.composing = composing
}

// Update reacts to a selection change. A non-collapsed selection inside the
// editor shows the toolbar next to it; anything else fades a shown toolbar
// out.
func (c *Controller) Update(sel *selection.Selection, editor selection.Rect, now time.Time) Visibility {
	c.tick(now)
	if c.composing {
		return c.state
	}
	if sel != nil && sel.InEditor && !sel.Collapsed {
		c.state = Active
		c.pos = Position(sel.Rect, editor, c.cfg.Offset)
		return c.state
	}
	if c.state == Active {
		c.state = Fading
		c.fadeUntil = now.Add(c.cfg.FadeDelay)
	}
	return c.state
}

// Scroll repositions an active toolbar, at most once per cool-down. It
// reports whether a repositioning ran.
func (c *Controller) Scroll(sel *selection.Selection, editor selection.Rect, now time.Time) bool {
	if now.Before(c.nextScroll) {
		return false
	}
	c.nextScroll = now.Add(c.cfg.ScrollCooldown)
	c.reposition(sel, editor, now)
	return true
}

// Resize repositions an active toolbar.
func (c *Controller) Resize(sel *selection.Selection, editor selection.Rect, now time.Time) {
	c.reposition(sel, editor, now)
}

func (c *Controller) reposition(sel *selection.Selection, editor selection.Rect, now time.Time) {
	c.tick(now)
	if c.state == Active && sel != nil {
		c.pos = Position(sel.Rect, editor, c.cfg.Offset)
	}
}

// Register adds a custom command.
func (c *Controller) Register(name string, cmd *CustomCommand) {
	c.custom[name] = cmd
}

// Custom returns a registered custom command.
func (c *Controller) Custom(name string) (*CustomCommand, bool) {
	cmd, ok := c.custom[name]
	return cmd, ok
}

// Toggle runs a toolbar command, see Exec.
func (c *Controller) Toggle(commandWithArgs string) error {
	return c.Exec(commandWithArgs, "")
}

// Exec runs a command. The first word of commandWithArgs is the command and
// the rest, followed by value, its argument. A custom command flips its
// state and is told about it; other commands go to the Commander.
func (c *Controller) Exec(commandWithArgs, value string) error {
	fields := strings.Split(strings.TrimSpace(commandWithArgs), " ")
	name := fields[0]
	if name == "" {
		return ErrEmptyCommand
	}
	if cmd, ok := c.custom[name]; ok {
		cmd.Active = !cmd.Active
		if cmd.Activate != nil {
			cmd.Activate(cmd.Active)
		}
		return nil
	}
	arg := strings.Join(fields[1:], " ") + value
	if err := c.commander.Exec(name, arg); err != nil {
		return fmt.Errorf("toolbar %s: %w", name, err)
	}
	return nil
}

// States reports which of the commands are active, for button highlighting.
func (c *Controller) States(commands []string) map[string]bool {
	states := make(map[string]bool, len(commands))
	for _, name := range commands {
		if cmd, ok := c.custom[name]; ok {
			states[name] = cmd.Active
		} else {
			states[name] = c.commander.State(name)
		}
	}
	return states
}
