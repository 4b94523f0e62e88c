package editor

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/helmgast/lore-editor/model"
	"github.com/helmgast/lore-editor/selection"
	"github.com/helmgast/lore-editor/toolbar"
	"github.com/helmgast/lore-editor/transform"
	"gopkg.in/yaml.v3"
)

// Options are the settings of an editor that a host may keep in a YAML
// file.
type Options struct {
	// ToolbarOffset is the gap between the toolbar and the selection.
	ToolbarOffset  float64       `yaml:"toolbar_offset"`
	FadeDelay      time.Duration `yaml:"fade_delay"`
	ScrollCooldown time.Duration `yaml:"scroll_cooldown"`
	// Hints maps block kind names, like "heading-2", to hint labels.
	Hints   map[string]string `yaml:"hints"`
	HotKeys toolbar.HotKeys   `yaml:"hot_keys"`
	// ParallelReads bounds the files read at the same time.
	ParallelReads int `yaml:"parallel_reads"`
	// LinkScheme prefixes link targets typed without a scheme.
	LinkScheme string `yaml:"link_scheme"`
}

// DefaultOptions returns the settings used when nothing else is given.
func DefaultOptions() Options {
	hints := make(map[string]string, len(transform.Hints))
	for kind, label := range transform.Hints {
		hints[kind.String()] = label
	}
	hotKeys := make(toolbar.HotKeys, len(toolbar.DefaultHotKeys))
	for k, v := range toolbar.DefaultHotKeys {
		hotKeys[k] = v
	}
	return Options{
		ToolbarOffset:  45,
		FadeDelay:      toolbar.DefaultFadeDelay,
		ScrollCooldown: toolbar.DefaultScrollCooldown,
		Hints:          hints,
		HotKeys:        hotKeys,
		ParallelReads:  4,
		LinkScheme:     "http://",
	}
}

// LoadOptions reads options in YAML over the defaults. Maps are merged, so
// a file may change a single hint label.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	var loaded Options
	if err := yaml.NewDecoder(r).Decode(&loaded); err != nil && err != io.EOF {
		return opts, fmt.Errorf("failed to decode editor options: %w", err)
	}
	if loaded.ToolbarOffset != 0 {
		opts.ToolbarOffset = loaded.ToolbarOffset
	}
	if loaded.FadeDelay > 0 {
		opts.FadeDelay = loaded.FadeDelay
	}
	if loaded.ScrollCooldown > 0 {
		opts.ScrollCooldown = loaded.ScrollCooldown
	}
	for k, v := range loaded.Hints {
		if model.ParseBlockKind(k) == model.Unknown {
			return opts, fmt.Errorf("hint for unknown block kind %q", k)
		}
		opts.Hints[k] = v
	}
	for k, v := range loaded.HotKeys {
		opts.HotKeys[k] = v
	}
	if loaded.ParallelReads > 0 {
		opts.ParallelReads = loaded.ParallelReads
	}
	if loaded.LinkScheme != "" {
		opts.LinkScheme = loaded.LinkScheme
	}
	return opts, nil
}

// LoadOptionsFile reads options from a YAML file.
func LoadOptionsFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return DefaultOptions(), fmt.Errorf("failed to open editor options: %w", err)
	}
	defer f.Close()
	return LoadOptions(f)
}

// hintLabel returns the label announcing a new block of the given kind.
func (o Options) hintLabel(kind model.BlockKind) string {
	return o.Hints[kind.String()]
}

// An Option configures an Editor.
type Option func(e *Editor)

// WithOptions replaces the settings.
func WithOptions(opts Options) Option {
	return func(e *Editor) {
		e.opts = opts
	}
}

// WithLogger sets the logger. Editors log nothing by default.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.log = logger
	}
}

// WithSelector connects the selection of the host. By default the editor
// uses a selection.Manual.
func WithSelector(s selection.Selector) Option {
	return func(e *Editor) {
		e.selector = s
	}
}

// WithCommander replaces the built-in formatting commands by those of the
// host.
func WithCommander(c toolbar.Commander) Option {
	return func(e *Editor) {
		e.commander = c
	}
}

// WithFormField sets the hidden field receiving the Markdown on submit.
func WithFormField(f *FormField) Option {
	return func(e *Editor) {
		e.field = f
	}
}

// OnChange registers a callback run after an event changed the document.
func OnChange(fn func(doc *model.Document)) Option {
	return func(e *Editor) {
		e.onChange = fn
	}
}

// OnError registers a callback for file errors. The reason is one of
// ReasonFileReader or ReasonUnsupportedFileType.
func OnError(fn func(reason, detail string)) Option {
	return func(e *Editor) {
		e.onError = fn
	}
}

// WithClock sets the time source of the toolbar animations.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		e.now = now
	}
}
