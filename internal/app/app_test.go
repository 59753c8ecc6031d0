package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bethropolis/deck/internal/config"
	"github.com/bethropolis/deck/internal/model"
	"github.com/bethropolis/deck/internal/outline"
	"github.com/bethropolis/deck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, cfg *config.Config) (*App, *bytes.Buffer) {
	t.Helper()
	if cfg == nil {
		cfg = config.NewDefaultConfig()
		cfg.Themes.Dir = t.TempDir()
	}
	var out bytes.Buffer
	a, err := New(cfg, Deps{IDs: model.NewCounterSource("id"), Out: &out})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, &out
}

const script = `
# build a title slide
ADD_TEXT
TEXT_CONTENT:Hello deck
TEXT_BOLD

:begin drag
MOVE:5:5
MOVE:5:5
:end

ADD_SHAPE:star
:select-element #1
BRING_TO_FRONT
NOT_A_VERB
:select-slide #9
`

func TestRunScript(t *testing.T) {
	a, _ := newApp(t, nil)

	res, err := a.RunScript(context.Background(), strings.NewReader(script))
	require.NoError(t, err)
	assert.Equal(t, 12, res.Lines)
	assert.Equal(t, 7, res.Applied)
	assert.Equal(t, 1, res.NoOps)
	assert.Equal(t, 3, res.Commands)
	require.Len(t, res.Errors, 1)
	assert.ErrorIs(t, res.Errors[0].Err, ErrBadReference)
	assert.Equal(t, 16, res.Errors[0].Line)

	doc := a.Snapshot()
	s, _ := doc.Slide(doc.CurrentSlideID)
	require.Len(t, s.Elements, 2)
	assert.Equal(t, model.KindShape, s.Elements[0].Kind, "text brought to front")
	assert.Equal(t, "Hello deck", s.Elements[1].Text.Content)
	assert.Equal(t, 110.0, s.Elements[1].Position.X)

	// ADD_TEXT, TEXT_CONTENT, TEXT_BOLD, the drag, ADD_SHAPE, BRING_TO_FRONT.
	assert.Equal(t, 6, a.History().Past)
	assert.True(t, a.IsModified())
}

func TestRunScriptCancelled(t *testing.T) {
	a, _ := newApp(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.RunScript(ctx, strings.NewReader("ADD_TEXT\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCommands(t *testing.T) {
	a, out := newApp(t, nil)

	assert.ErrorIs(t, a.RunCommand(":nope"), ErrUnknownCommand)
	assert.ErrorIs(t, a.RunCommand(":select-slide"), ErrMissingArgument)
	assert.NoError(t, a.RunCommand(""))

	require.NoError(t, a.RunCommand(":undo"))
	assert.Equal(t, "Nothing to undo", a.StatusMessage())

	require.NoError(t, a.RunCommand(":theme"))
	assert.Equal(t, "No theme applied", a.StatusMessage())
	assert.Error(t, a.RunCommand(":theme neon"))
	require.NoError(t, a.RunCommand(":theme ocean"))
	assert.Equal(t, "ocean", a.ActiveTheme())
	require.NoError(t, a.RunCommand(":theme"))
	assert.Equal(t, "Current theme: ocean", a.StatusMessage())

	require.NoError(t, a.RunCommand(":themes"))
	assert.Contains(t, a.StatusMessage(), "iron_man")
	require.NoError(t, a.RunCommand(":templates"))
	assert.Contains(t, a.StatusMessage(), "TWO_COLUMN")

	require.NoError(t, a.RunCommand(":undo"))
	assert.Equal(t, "Undo (0 more)", a.StatusMessage())
	assert.Contains(t, out.String(), "Available themes:")
	assert.Contains(t, a.Commands(), "wc", "plugin commands are registered")
}

func TestSelectionCommands(t *testing.T) {
	a, _ := newApp(t, nil)
	for _, token := range []string{"ADD_TEXT", "ADD_TEXT", "ADD_EMPTY_SLIDE", "ADD_EMPTY_SLIDE"} {
		require.True(t, a.Dispatch(token))
	}
	doc := a.Snapshot()
	require.Len(t, doc.Slides, 3)

	require.NoError(t, a.RunCommand(":select-slides #2 #3"))
	assert.Equal(t, []string{doc.Slides[1].ID, doc.Slides[2].ID}, a.Selection().SlideIDs)

	require.NoError(t, a.RunCommand(":current-slide #1"))
	require.NoError(t, a.RunCommand(":select-elements #1 #2"))
	first := doc.Slides[0].Elements
	assert.Equal(t, []string{first[0].ID, first[1].ID}, a.Selection().ElementIDs)

	require.NoError(t, a.RunCommand(":remove-from-selection #1"))
	assert.Equal(t, []string{first[1].ID}, a.Selection().ElementIDs)
	require.NoError(t, a.RunCommand(":add-to-selection "+first[0].ID))
	assert.Len(t, a.Selection().ElementIDs, 2)
	require.NoError(t, a.RunCommand(":clear-selection"))
	assert.Empty(t, a.Selection().ElementIDs)

	assert.Equal(t, 4, a.History().Past, "selection is not history")

	_, err := a.Select("sideways", nil)
	assert.ErrorIs(t, err, ErrUnknownSelection)
}

func TestReorderSlidesCommand(t *testing.T) {
	a, _ := newApp(t, nil)
	require.True(t, a.Dispatch("ADD_EMPTY_SLIDE"))
	require.True(t, a.Dispatch("ADD_EMPTY_SLIDE"))
	ids := a.Snapshot().SlideIDs()
	require.Len(t, ids, 3)
	past := a.History().Past

	require.NoError(t, a.RunCommand(":reorder-slides #3 #1 #2"))
	assert.Equal(t, "Slides reordered", a.StatusMessage())
	assert.Equal(t, []string{ids[2], ids[0], ids[1]}, a.Snapshot().SlideIDs())
	assert.Equal(t, past+1, a.History().Past)

	require.NoError(t, a.RunCommand(":reorder-slides #1 #2 #3"))
	assert.Equal(t, "Slide order unchanged", a.StatusMessage())
	assert.Equal(t, past+1, a.History().Past)

	assert.ErrorIs(t, a.RunCommand(":reorder-slides #1 #2"), ErrBadReference)
	changed, err := a.ReorderSlides([]string{ids[0], ids[0], ids[1]})
	require.NoError(t, err)
	assert.False(t, changed, "repeated slide")

	require.True(t, a.Undo())
	assert.Equal(t, ids, a.Snapshot().SlideIDs())
}

func TestSaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talk.yaml")

	a, _ := newApp(t, nil)
	assert.Error(t, a.Save(context.Background(), ""), "no file name yet")
	require.True(t, a.Dispatch("PRESENTATION_TITLE:My talk"))
	require.True(t, a.Dispatch("ADD_TEXT"))
	require.NoError(t, a.RunCommand(":save "+path))
	assert.False(t, a.IsModified())
	assert.Equal(t, path, a.FilePath())
	assert.Equal(t, "Saved "+path, a.StatusMessage())

	b, _ := newApp(t, nil)
	require.NoError(t, b.Open(context.Background(), path))
	assert.Equal(t, "My talk", b.Snapshot().Title)
	assert.False(t, b.History().CanUndo, "opening starts a fresh history")
	assert.False(t, b.IsModified())

	fresh := filepath.Join(dir, "new.json")
	c, _ := newApp(t, nil)
	require.NoError(t, c.Open(context.Background(), fresh))
	assert.Equal(t, fresh, c.FilePath())
	require.NoError(t, c.Save(context.Background(), ""))
	_, err := os.Stat(fresh)
	assert.NoError(t, err)

	require.NoError(t, c.RunCommand(":open "+path))
	assert.Equal(t, "My talk", c.Snapshot().Title)
	assert.True(t, c.History().CanUndo, ":open is undoable")
}

func TestWordCountPlugin(t *testing.T) {
	a, _ := newApp(t, nil)
	require.True(t, a.Dispatch("ADD_TEXT"))
	require.True(t, a.Dispatch("TEXT_CONTENT:three little words"))
	require.True(t, a.Dispatch("ADD_SHAPE:ellipse"))

	require.NoError(t, a.RunCommand(":wc"))
	assert.Equal(t, "Deck: Slides: 1, Elements: 2, Words: 3", a.StatusMessage())
	require.NoError(t, a.RunCommand(":wc slide"))
	assert.Equal(t, "Slide: Slides: 1, Elements: 2, Words: 3", a.StatusMessage())
}

func TestAutosavePlugin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.json")
	cfg := config.NewDefaultConfig()
	cfg.Themes.Dir = t.TempDir()
	cfg.Plugins = map[string]map[string]any{
		"autosave": {"enabled": true, "interval": "10ms", "path": path},
	}
	a, _ := newApp(t, cfg)

	require.True(t, a.Dispatch("PRESENTATION_TITLE:Autosaved"))
	assert.Eventually(t, func() bool {
		doc, err := store.Load(context.Background(), path)
		return err == nil && doc.Title == "Autosaved"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAutosaveFlushesOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flush.yaml")
	cfg := config.NewDefaultConfig()
	cfg.Themes.Dir = t.TempDir()
	cfg.Plugins = map[string]map[string]any{
		"autosave": {"enabled": true, "interval": "1h", "path": path},
	}
	a, _ := newApp(t, cfg)
	require.True(t, a.Dispatch("PRESENTATION_TITLE:Flushed"))
	require.NoError(t, a.Close())

	doc, err := store.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Flushed", doc.Title)
}

func TestOutline(t *testing.T) {
	a, _ := newApp(t, nil)
	require.True(t, a.Dispatch("PRESENTATION_TITLE:Outline me"))
	md := a.Outline(outline.Options{})
	assert.True(t, strings.HasPrefix(md, "# Outline me"))
}
