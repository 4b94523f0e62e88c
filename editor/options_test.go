package editor

import (
	"strings"
	"testing"
	"time"

	"github.com/helmgast/lore-editor/model"
	"github.com/helmgast/lore-editor/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 260*time.Millisecond, opts.FadeDelay)
	assert.Equal(t, 250*time.Millisecond, opts.ScrollCooldown)
	assert.Equal(t, "Section title", opts.hintLabel(model.Heading2))
	assert.Equal(t, "", opts.hintLabel(model.Gallery))
}

func TestLoadOptions(t *testing.T) {
	opts, err := LoadOptions(strings.NewReader(`
fade_delay: 500ms
parallel_reads: 2
hints:
  heading-2: Title
hot_keys:
  ctrl+k meta+k: createLink
`))
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, opts.FadeDelay)
	assert.Equal(t, 250*time.Millisecond, opts.ScrollCooldown)
	assert.Equal(t, 2, opts.ParallelReads)
	assert.Equal(t, "Title", opts.Hints["heading-2"])
	assert.Equal(t, "Paragraph", opts.Hints["paragraph"])
	command, ok := opts.HotKeys.Lookup("meta+k")
	assert.True(t, ok)
	assert.Equal(t, "createLink", command)
	command, _ = opts.HotKeys.Lookup("ctrl+b")
	assert.Equal(t, "bold", command)

	// an empty file keeps the defaults
	opts, err = LoadOptions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)

	_, err = LoadOptions(strings.NewReader("hints:\n  table: Table\n"))
	assert.Error(t, err)
	_, err = LoadOptions(strings.NewReader("fade_delay: [1"))
	assert.Error(t, err)
}

func TestHintLabelOption(t *testing.T) {
	opts := DefaultOptions()
	opts.Hints["heading-2"] = "Title"
	e, m := newEditor(t, "", WithOptions(opts))
	m.Select(selection.Caret(e.Document().Block(0), 0))
	e.KeyDown(KeyEvent{Code: 13})
	assert.Equal(t, "Title", e.Hint().Label)
}
