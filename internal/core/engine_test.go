package core

import (
	"fmt"
	"math"
	"testing"

	"github.com/bethropolis/deck/internal/event"
	"github.com/bethropolis/deck/internal/metrics"
	"github.com/bethropolis/deck/internal/model"
	"github.com/bethropolis/deck/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...func(*Options)) *Engine {
	t.Helper()
	o := Options{Title: "Test deck", IDs: model.NewCounterSource("id")}
	for _, fn := range opts {
		fn(&o)
	}
	return New(o)
}

func mustDispatch(t *testing.T, e *Engine, tokens ...string) {
	t.Helper()
	for _, token := range tokens {
		require.True(t, e.Dispatch(token), "dispatch %s", token)
	}
}

func currentSlide(t *testing.T, e *Engine) model.Slide {
	t.Helper()
	snap := e.Snapshot()
	s, ok := snap.Slide(snap.CurrentSlideID)
	require.True(t, ok, "current slide %q", snap.CurrentSlideID)
	return s
}

func TestNewEngine(t *testing.T) {
	e := newEngine(t)
	snap := e.Snapshot()
	require.Len(t, snap.Slides, 1)
	assert.Equal(t, "Test deck", snap.Title)
	assert.Equal(t, snap.Slides[0].ID, snap.CurrentSlideID)
	assert.False(t, e.CanUndo())
	assert.NoError(t, model.Validate(snap))
}

func TestUndoInverseLaw(t *testing.T) {
	tokens := []string{
		"ADD_TEXT",
		"ADD_SHAPE:star",
		"ADD_IMAGE:https://example.com/a.png",
		"SLIDE_BACKGROUND:#123456",
		"DUPLICATE_SLIDE",
		"ADD_TITLE_SLIDE",
		"DESIGN_THEME:ocean",
		"PRESENTATION_TITLE:Renamed",
	}
	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			e := newEngine(t)
			mustDispatch(t, e, "ADD_TEXT")
			before := e.Snapshot()

			mustDispatch(t, e, token)
			after := e.Snapshot()
			require.False(t, before.Equal(after))

			require.True(t, e.Undo())
			assert.True(t, before.Equal(e.Snapshot()), "undo restores the previous state")

			require.True(t, e.Redo())
			assert.True(t, after.Equal(e.Snapshot()), "redo re-applies it")
		})
	}
}

func TestElementVerbsUseSelection(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "ADD_TEXT")
	textID := currentSlide(t, e).Elements[0].ID
	assert.Equal(t, []string{textID}, e.Selection().ElementIDs, "new elements are selected")

	mustDispatch(t, e,
		"TEXT_COLOR:red",
		"TEXT_SIZE:40",
		"TEXT_ALIGN_HORIZONTAL:center",
		"TEXT_ALIGN_VERTICAL:middle",
		"TEXT_LINE_HEIGHT:1.4",
		"TEXT_BOLD",
		"TEXT_FONT:Georgia",
		"TEXT_CONTENT:Hello: world",
		"TEXT_BACKGROUND:#eee",
		"TEXT_SHADOW:soft",
	)
	el, _ := currentSlide(t, e).Element(textID)
	assert.Equal(t, "#ff0000", el.Text.Color)
	assert.Equal(t, 40, el.Text.FontSize)
	assert.Equal(t, model.AlignCenter, el.Text.HorizontalAlign)
	assert.Equal(t, model.AlignMiddle, el.Text.VerticalAlign)
	assert.Equal(t, 1.4, el.Text.LineHeight)
	assert.True(t, el.Text.Bold)
	assert.Equal(t, "Georgia", el.Text.FontFamily)
	assert.Equal(t, "Hello: world", el.Text.Content)
	assert.Equal(t, "#eeeeee", el.Text.BackgroundColor)
	require.NotNil(t, el.Effects.Shadow)

	// Shape verbs on a text element do nothing and record nothing.
	n := e.HistoryLen()
	assert.False(t, e.Dispatch("SHAPE_FILL:#000000"))
	assert.Equal(t, n, e.HistoryLen())
}

func TestElementVerbWithoutSelectionIsNoOp(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "ADD_TEXT")
	e.ClearSelection()
	n := e.HistoryLen()
	assert.False(t, e.Dispatch("TEXT_COLOR:#ff0000"))
	assert.False(t, e.Dispatch("BRING_TO_FRONT"))
	assert.False(t, e.Dispatch("DELETE_SELECTED"))
	assert.Equal(t, n, e.HistoryLen())
}

func TestSelectionExemptFromHistory(t *testing.T) {
	e := newEngine(t)
	before := e.Snapshot()
	mustDispatch(t, e, "ADD_TEXT")
	require.Equal(t, 1, e.HistoryLen())

	slideID := before.Slides[0].ID
	elID := currentSlide(t, e).Elements[0].ID
	e.SelectSlide(slideID)
	e.SelectElement(elID)
	e.ClearSelection()
	e.SelectSlides([]string{slideID})
	e.ClearAllSelections()
	assert.Equal(t, 1, e.HistoryLen(), "selection never pushes history")

	require.True(t, e.Undo())
	assert.True(t, before.ContentEqual(e.Snapshot()), "undo reverts the mutation")
	assert.False(t, e.CanUndo())
}

func TestTransactionCoalescing(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "ADD_SHAPE:rectangle")
	before := e.Snapshot()
	n := e.HistoryLen()

	e.BeginTransaction("drag")
	mustDispatch(t, e, "MOVE:1:1", "MOVE:1:1", "MOVE:1:1")
	assert.Equal(t, n, e.HistoryLen(), "nothing recorded mid-transaction")
	require.True(t, e.EndTransaction())
	assert.Equal(t, n+1, e.HistoryLen())

	el := currentSlide(t, e).Elements[0]
	assert.Equal(t, types.Position{X: 203, Y: 203}, el.Position)

	require.True(t, e.Undo())
	assert.True(t, before.Equal(e.Snapshot()))
}

func TestEmptyTransactionRecordsNothing(t *testing.T) {
	e := newEngine(t)
	e.BeginTransaction("")
	e.Dispatch("TEXT_COLOR:#fff") // no selection: no-op
	assert.False(t, e.EndTransaction())
	assert.Equal(t, 0, e.HistoryLen())
	assert.False(t, e.EndTransaction(), "unbalanced end")
}

func TestNoOpSuppression(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "DESIGN_THEME:iron_man")
	n := e.HistoryLen()

	assert.False(t, e.Dispatch("SLIDE_BACKGROUND:#00ff00"), "locked background")
	assert.False(t, e.Dispatch("SLIDE_BACKGROUND_NONE"), "locked background")
	assert.False(t, e.Dispatch("DESIGN_THEME:iron_man"), "same theme again")
	assert.False(t, e.Dispatch("MOVE_SLIDE:0"), "same order")
	assert.False(t, e.Dispatch("NOT_A_VERB"))
	assert.False(t, e.Dispatch("TEXT_SIZE:huge"))
	assert.False(t, e.Dispatch(""))
	assert.Equal(t, n, e.HistoryLen())
}

func TestNonFiniteNumbersAreRejected(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "ADD_SHAPE:rectangle", "ADD_TEXT")
	n := e.HistoryLen()
	before := e.Snapshot()

	for _, token := range []string{
		"MOVE:NaN:0",
		"MOVE:+Inf:0",
		"MOVE:0:-Inf",
		"RESIZE:NaN:NaN",
		"RESIZE:10:Inf",
		"TEXT_LINE_HEIGHT:NaN",
		"TEXT_LINE_HEIGHT:Inf",
	} {
		assert.False(t, e.Dispatch(token), token)
	}
	assert.True(t, before.Equal(e.Snapshot()))
	assert.Equal(t, n, e.HistoryLen())

	// A move that overflows leaves the element in place.
	mustDispatch(t, e, "MOVE:1e308:0")
	n = e.HistoryLen()
	assert.False(t, e.Dispatch("MOVE:1e308:0"))
	assert.Equal(t, n, e.HistoryLen())

	// No-ops stay no-ops afterwards.
	assert.False(t, e.Dispatch("SHAPE_FILL:#ff0000"), "text element has no fill")
	e.BeginTransaction("empty")
	assert.False(t, e.EndTransaction())
	assert.Equal(t, n, e.HistoryLen())

	shape := model.NewShape("nan", model.ShapeStar)
	shape.Position.X = math.NaN()
	bad := model.Presentation{Slides: []model.Slide{{ID: "x", Elements: []model.Element{shape}}}}
	assert.ErrorIs(t, e.LoadDocument(bad), model.ErrNonFinite)
	assert.Equal(t, n, e.HistoryLen())
}

func TestReorderSlides(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "DUPLICATE_SLIDE", "DUPLICATE_SLIDE")
	original := e.Snapshot()
	ids := original.SlideIDs()
	require.Len(t, ids, 3)
	n := e.HistoryLen()

	assert.False(t, e.ReorderSlides(ids), "same order")
	assert.False(t, e.ReorderSlides(ids[:2]), "not every slide")
	assert.False(t, e.ReorderSlides([]string{ids[0], ids[0], ids[1]}), "repeated id")
	assert.False(t, e.ReorderSlides([]string{ids[0], ids[1], "missing"}))
	assert.Equal(t, n, e.HistoryLen())

	reversed := []string{ids[2], ids[1], ids[0]}
	require.True(t, e.ReorderSlides(reversed))
	assert.Equal(t, reversed, e.Snapshot().SlideIDs())
	assert.Equal(t, n+1, e.HistoryLen())

	assert.False(t, e.Dispatch("REORDER_SLIDES:"+ids[2]+","+ids[1]+","+ids[0]), "already in that order")
	assert.Equal(t, n+1, e.HistoryLen())

	require.True(t, e.Undo())
	assert.True(t, original.Equal(e.Snapshot()))
	require.True(t, e.Dispatch("REORDER_SLIDES:"+ids[1]+","+ids[0]+","+ids[2]))
	assert.Equal(t, []string{ids[1], ids[0], ids[2]}, e.Snapshot().SlideIDs())
}

type countingRecorder struct {
	metrics.Nop
	history map[string]int
}

func (r *countingRecorder) History(op string) { r.history[op]++ }

func TestHistoryMetricsCountRecordedSteps(t *testing.T) {
	rec := &countingRecorder{history: map[string]int{}}
	e := newEngine(t, func(o *Options) { o.Metrics = rec })

	mustDispatch(t, e, "ADD_TEXT")
	assert.Equal(t, 1, rec.history["record"])

	e.BeginTransaction("drag")
	mustDispatch(t, e, "MOVE:1:1", "MOVE:1:1")
	require.True(t, e.EndTransaction())
	assert.Equal(t, 1, rec.history["record"], "coalesced edits are not records")
	assert.Equal(t, 1, rec.history["commit"])

	require.True(t, e.Undo())
	assert.Equal(t, 1, rec.history["undo"])
}

func TestHistoryBound(t *testing.T) {
	const maxItems = 10
	e := newEngine(t, func(o *Options) { o.MaxHistory = maxItems })

	var titles []string
	for i := 0; i < maxItems+5; i++ {
		titles = append(titles, e.Snapshot().Title)
		mustDispatch(t, e, fmt.Sprintf("PRESENTATION_TITLE:v%d", i))
	}
	assert.Equal(t, maxItems, e.HistoryLen())

	// Undo walks back through exactly the most recent pre-mutation states.
	for i := len(titles) - 1; i >= len(titles)-maxItems; i-- {
		require.True(t, e.Undo())
		assert.Equal(t, titles[i], e.Snapshot().Title)
	}
	assert.False(t, e.Undo())
}

func TestZOrderThroughDispatch(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "ADD_TEXT", "ADD_TEXT", "ADD_TEXT")
	ids := currentSlide(t, e).ElementIDs()
	a, b, c := ids[0], ids[1], ids[2]

	require.True(t, e.SelectElement(b))
	mustDispatch(t, e, "BRING_TO_FRONT")
	assert.Equal(t, []string{a, c, b}, currentSlide(t, e).ElementIDs())

	require.True(t, e.SelectElement(c))
	mustDispatch(t, e, "SEND_TO_BACK")
	assert.Equal(t, []string{c, a, b}, currentSlide(t, e).ElementIDs())

	assert.False(t, e.Dispatch("SEND_TO_BACK"), "already at the back")
}

func TestDuplicateElementsThroughDispatch(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "ADD_TEXT")
	src := currentSlide(t, e).Elements[0]
	e.BeginTransaction("")
	mustDispatch(t, e, fmt.Sprintf("MOVE:%v:%v", 10-src.Position.X, 10-src.Position.Y))
	e.EndTransaction()

	mustDispatch(t, e, "DUPLICATE_ELEMENTS")
	s := currentSlide(t, e)
	require.Len(t, s.Elements, 2)
	assert.Equal(t, types.Position{X: 10, Y: 10}, s.Elements[0].Position)
	assert.Equal(t, types.Position{X: 25, Y: 25}, s.Elements[1].Position)
	assert.NotEqual(t, s.Elements[0].ID, s.Elements[1].ID)
	assert.Equal(t, []string{s.Elements[1].ID}, e.Selection().ElementIDs, "the copy is selected")
}

func TestIDUniqueness(t *testing.T) {
	e := newEngine(t)
	for i := 0; i < 5; i++ {
		mustDispatch(t, e, "ADD_TEXT", "ADD_SHAPE:ellipse", "DUPLICATE_ELEMENTS")
		e.Dispatch("COPY")
		mustDispatch(t, e, "PASTE", "DUPLICATE_SLIDE", "ADD_TWO_COLUMN_SLIDE")
	}
	snap := e.Snapshot()
	require.NoError(t, model.Validate(snap))

	seen := map[string]bool{}
	for _, s := range snap.Slides {
		assert.False(t, seen[s.ID], "slide id %s repeated", s.ID)
		seen[s.ID] = true
	}
}

func TestSlideLifecycle(t *testing.T) {
	e := newEngine(t)
	first := e.Selection().CurrentSlideID

	mustDispatch(t, e, "DUPLICATE_SLIDE")
	second := e.Selection().CurrentSlideID
	assert.NotEqual(t, first, second)
	assert.Equal(t, []string{first, second}, e.Snapshot().SlideIDs())

	mustDispatch(t, e, "MOVE_SLIDE:0")
	assert.Equal(t, []string{second, first}, e.Snapshot().SlideIDs())

	mustDispatch(t, e, "DELETE_SLIDE")
	snap := e.Snapshot()
	assert.Equal(t, []string{first}, snap.SlideIDs())
	assert.Equal(t, first, snap.CurrentSlideID, "falls back to the first remaining slide")

	mustDispatch(t, e, "DELETE_SLIDE")
	snap = e.Snapshot()
	assert.Empty(t, snap.Slides)
	assert.Empty(t, snap.CurrentSlideID)
	assert.False(t, e.Dispatch("ADD_TEXT"), "no slide to add to")

	mustDispatch(t, e, "ADD_EMPTY_SLIDE")
	assert.Len(t, e.Snapshot().Slides, 1)
	assert.NotEmpty(t, e.Snapshot().CurrentSlideID)
}

func TestDeleteSelectedSlides(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "ADD_EMPTY_SLIDE", "ADD_EMPTY_SLIDE")
	ids := e.Snapshot().SlideIDs()
	require.Len(t, ids, 3)

	require.True(t, e.SelectSlides(ids[1:]))
	mustDispatch(t, e, "DELETE_SELECTED")
	assert.Equal(t, ids[:1], e.Snapshot().SlideIDs())
	assert.Empty(t, e.Selection().SlideIDs)
}

func TestTemplateInheritsLockedTheme(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "DESIGN_THEME:midnight", "ADD_TITLE_SLIDE")

	s := currentSlide(t, e)
	assert.True(t, s.Background.Locked)
	th, _ := e.Themes().Get("midnight")
	assert.Equal(t, th.Background.Value, s.Background.Value)
	require.Len(t, s.Elements, 2)
	assert.NotEqual(t, "title", s.Elements[0].ID, "template ids are re-minted")

	assert.False(t, e.Dispatch("ADD_UNKNOWN_SLIDE"))
}

func TestTemplateInsertsAfterCurrent(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "ADD_EMPTY_SLIDE", "ADD_EMPTY_SLIDE")
	ids := e.Snapshot().SlideIDs()
	require.True(t, e.SelectSlide(ids[0]))
	mustDispatch(t, e, "ADD_QUOTE_SLIDE")

	got := e.Snapshot().SlideIDs()
	require.Len(t, got, 4)
	assert.Equal(t, ids[0], got[0])
	assert.Equal(t, e.Selection().CurrentSlideID, got[1])
}

func TestClipboardCutPaste(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "ADD_SHAPE:diamond")
	orig := currentSlide(t, e).Elements[0]

	assert.False(t, e.Dispatch("COPY"), "copy does not change the document")
	mustDispatch(t, e, "CUT")
	assert.Empty(t, currentSlide(t, e).Elements)

	mustDispatch(t, e, "PASTE")
	pasted := currentSlide(t, e).Elements
	require.Len(t, pasted, 1)
	assert.Equal(t, orig.Position, pasted[0].Position, "first paste after cut lands in place")
	assert.NotEqual(t, orig.ID, pasted[0].ID)
	assert.Equal(t, []string{pasted[0].ID}, e.Selection().ElementIDs)
}

func TestSnapshotIsIndependent(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "ADD_TEXT")
	snap := e.Snapshot()
	snap.Title = "hacked"
	snap.Slides[0].Elements[0].Text.Content = "hacked"
	snap.Slides = nil

	again := e.Snapshot()
	assert.Equal(t, "Test deck", again.Title)
	assert.Equal(t, "Text", again.Slides[0].Elements[0].Text.Content)
}

func TestLoadDocument(t *testing.T) {
	e := newEngine(t)
	original := e.Snapshot()

	doc := model.Presentation{
		Title:          "Loaded",
		Slides:         []model.Slide{{ID: "a"}, {ID: "b", Elements: []model.Element{model.NewText("t")}}},
		CurrentSlideID: "b",
	}
	require.NoError(t, e.LoadDocument(doc))
	snap := e.Snapshot()
	assert.Equal(t, "Loaded", snap.Title)
	assert.Equal(t, "b", snap.CurrentSlideID)
	assert.Equal(t, 1, e.HistoryLen(), "loading is undoable")

	doc.Slides[1].Elements[0].Text.Content = "changed by caller"
	assert.Equal(t, "Text", e.Snapshot().Slides[1].Elements[0].Text.Content)

	require.True(t, e.Undo())
	assert.True(t, original.Equal(e.Snapshot()))

	bad := model.Presentation{Slides: []model.Slide{{ID: "x"}, {ID: "x"}}}
	assert.ErrorIs(t, e.LoadDocument(bad), model.ErrDuplicateSlideID)
}

func TestUndoRedoThroughVerbs(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "ADD_TEXT")
	assert.True(t, e.Dispatch("UNDO"))
	assert.False(t, e.Dispatch("UNDO"))
	assert.True(t, e.Dispatch("REDO"))
	assert.Len(t, currentSlide(t, e).Elements, 1)
}

func TestNewMutationClearsRedo(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "ADD_TEXT")
	e.Undo()
	require.True(t, e.CanRedo())
	mustDispatch(t, e, "ADD_SHAPE:line")
	assert.False(t, e.CanRedo())
}

func TestUndoRefusedInsideTransaction(t *testing.T) {
	e := newEngine(t)
	mustDispatch(t, e, "ADD_TEXT")
	e.BeginTransaction("edit")
	assert.False(t, e.Undo())
	assert.Equal(t, 1, e.TransactionDepth())
	e.EndTransaction()
	assert.True(t, e.Undo())
}

func TestEvents(t *testing.T) {
	e := newEngine(t)
	var got []event.Type
	var tokens []string
	for _, typ := range []event.Type{
		event.TypeDocumentChanged, event.TypeSelectionChanged,
		event.TypeHistoryChanged, event.TypeThemeApplied, event.TypeDocumentLoaded,
	} {
		e.Events().Subscribe(typ, func(ev event.Event) bool {
			got = append(got, ev.Type)
			if d, ok := ev.Data.(event.DocumentChangedData); ok {
				tokens = append(tokens, d.Token)
			}
			return false
		})
	}

	mustDispatch(t, e, "ADD_TEXT")
	assert.Equal(t, []event.Type{event.TypeSelectionChanged, event.TypeDocumentChanged}, got)
	assert.Equal(t, []string{"ADD_TEXT"}, tokens)

	got = nil
	mustDispatch(t, e, "DESIGN_THEME:paper")
	assert.Equal(t, []event.Type{event.TypeDocumentChanged, event.TypeThemeApplied}, got)

	got = nil
	e.Undo()
	assert.Equal(t, []event.Type{event.TypeHistoryChanged}, got)

	got = nil
	e.Dispatch("NOPE")
	assert.Empty(t, got)
}

func TestStrictInvariantsPanics(t *testing.T) {
	e := newEngine(t, func(o *Options) {
		o.StrictInvariants = true
		o.IDs = model.IDSourceFunc(func() string { return "same" })
	})
	// The copy's slide id collides, so the insert is refused outright.
	assert.NotPanics(t, func() { assert.False(t, e.Dispatch("DUPLICATE_SLIDE")) })

	// Duplicated elements are appended unchecked and collide within the slide.
	mustDispatch(t, e, "ADD_TEXT")
	assert.Panics(t, func() { e.Dispatch("DUPLICATE_ELEMENTS") })
}
