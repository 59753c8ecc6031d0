// Package core holds the document engine: the single owned state object that
// ties the document, selection, history and action dispatch together. One
// Engine serves one open document.
//
// The engine is synchronous and not safe for concurrent use. Adapters that
// share an engine between goroutines must serialize calls themselves.
package core

import (
	"fmt"
	"slices"
	"time"

	"github.com/bethropolis/deck/internal/action"
	"github.com/bethropolis/deck/internal/core/clipboard"
	"github.com/bethropolis/deck/internal/core/history"
	"github.com/bethropolis/deck/internal/core/mutation"
	"github.com/bethropolis/deck/internal/core/selection"
	"github.com/bethropolis/deck/internal/event"
	"github.com/bethropolis/deck/internal/logger"
	"github.com/bethropolis/deck/internal/metrics"
	"github.com/bethropolis/deck/internal/model"
	"github.com/bethropolis/deck/internal/template"
	"github.com/bethropolis/deck/internal/theme"
)

const DefaultTitle = "Untitled presentation"

// Options configures a new Engine. Zero fields get defaults.
type Options struct {
	Title            string
	MaxHistory       int
	DuplicateOffset  float64
	StrictInvariants bool // panic when a mutation breaks a document invariant

	IDs       model.IDSource
	Themes    *theme.Manager
	Templates *template.Registry
	Clipboard *clipboard.Manager
	Events    *event.Manager
	Metrics   metrics.Recorder
}

// Engine owns one document and everything that edits it.
type Engine struct {
	// doc is the authoritative document. Its CurrentSlideID and
	// SelectedSlideIDs stay empty; the selection manager owns them and
	// Snapshot merges them back in.
	doc       model.Presentation
	selection *selection.Manager
	history   *history.Manager

	ids       model.IDSource
	themes    *theme.Manager
	templates *template.Registry
	clipboard *clipboard.Manager
	events    *event.Manager
	metrics   metrics.Recorder

	duplicateOffset float64
	strict          bool
}

// New creates an engine holding a fresh presentation with one empty slide.
// Creating the initial document is not an undoable step.
func New(opts Options) *Engine {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.DuplicateOffset == 0 {
		opts.DuplicateOffset = mutation.DefaultDuplicateOffset
	}
	if opts.IDs == nil {
		opts.IDs = model.UUIDSource{}
	}
	if opts.Themes == nil {
		opts.Themes, _ = theme.NewManager("")
	}
	if opts.Templates == nil {
		opts.Templates = template.NewRegistry()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.NewManager(false)
	}
	if opts.Events == nil {
		opts.Events = event.NewManager()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}

	e := &Engine{
		selection:       selection.NewManager(),
		history:         history.NewManager(opts.MaxHistory),
		ids:             opts.IDs,
		themes:          opts.Themes,
		templates:       opts.Templates,
		clipboard:       opts.Clipboard,
		events:          opts.Events,
		metrics:         opts.Metrics,
		duplicateOffset: opts.DuplicateOffset,
		strict:          opts.StrictInvariants,
	}

	doc := model.NewPresentation(opts.Title, e.ids)
	e.selection.SetCurrentSlide(doc.CurrentSlideID)
	doc.CurrentSlideID = ""
	e.doc = doc
	e.metrics.Slides(len(doc.Slides))
	logger.DebugTagf("engine", "engine: created '%s' with slide %s", opts.Title, e.selection.CurrentSlide())
	return e
}

// state captures the current document and selection for history.
func (e *Engine) state() history.Snapshot {
	return history.Snapshot{Document: e.doc, Selection: e.selection.State()}
}

// published returns the document with the navigation fields filled in from
// the selection. It shares structure with the engine and must not be
// written through; Snapshot returns an independent copy.
func (e *Engine) published() model.Presentation {
	sel := e.selection.State()
	p := e.doc
	p.CurrentSlideID = sel.CurrentSlideID
	p.SelectedSlideIDs = sel.SlideIDs
	return p
}

// Snapshot returns a deep copy of the document, including the current slide
// and slide selection. Changing it never affects the engine.
func (e *Engine) Snapshot() model.Presentation {
	return e.published().Clone()
}

// Selection returns a copy of the selection.
func (e *Engine) Selection() selection.State { return e.selection.State() }

func (e *Engine) CanUndo() bool { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// HistoryLen returns the number of undo steps available.
func (e *Engine) HistoryLen() int { return e.history.PastLen() }

// FutureLen returns the number of redo steps available.
func (e *Engine) FutureLen() int { return e.history.FutureLen() }

// TransactionDepth returns how many transactions are open.
func (e *Engine) TransactionDepth() int { return e.history.Depth() }

func (e *Engine) Events() *event.Manager        { return e.events }
func (e *Engine) Themes() *theme.Manager        { return e.themes }
func (e *Engine) Templates() *template.Registry { return e.templates }
func (e *Engine) Clipboard() *clipboard.Manager { return e.clipboard }
func (e *Engine) IDs() model.IDSource           { return e.ids }
func (e *Engine) DuplicateOffset() float64      { return e.duplicateOffset }
func (e *Engine) MaxHistory() int               { return e.history.MaxItems() }

// Dispatch parses an action token and executes it. Malformed tokens and
// unknown verbs are silent no-ops. It reports whether the document changed.
func (e *Engine) Dispatch(token string) bool {
	cmd, err := action.Parse(token)
	if err != nil {
		logger.DebugTagf("dispatch", "dispatch: ignoring '%s': %v", token, err)
		e.metrics.Dispatch("invalid", metrics.OutcomeRejected, 0)
		return false
	}
	return e.Execute(cmd)
}

// Execute applies a parsed command. It reports whether the document changed
// (for UNDO and REDO, whether history moved).
func (e *Engine) Execute(cmd action.Command) bool {
	start := time.Now()
	label := metricLabel(cmd)

	if h, ok := cmd.(action.History); ok {
		var moved bool
		if h.Op == action.HistoryRedo {
			moved = e.Redo()
		} else {
			moved = e.Undo()
		}
		e.metrics.Dispatch(label, outcome(moved), time.Since(start))
		return moved
	}

	before := e.state()
	next, follow := e.apply(cmd)
	changed := !next.Equal(e.doc)
	if changed {
		if e.history.Record(before) {
			e.metrics.History("record")
		}
		e.doc = next
		if follow != nil {
			follow()
		}
	}
	e.selection.Reconcile(e.doc)
	if changed {
		e.checkInvariants(cmd)
	}

	e.metrics.Dispatch(label, outcome(changed), time.Since(start))
	e.afterChange(before, changed)
	if changed {
		logger.DebugTagf("engine", "engine: applied %s", cmd)
		e.events.Dispatch(event.TypeDocumentChanged, event.DocumentChangedData{Token: cmd.String(), Document: e.published()})
		if t, ok := cmd.(action.ApplyTheme); ok {
			e.events.Dispatch(event.TypeThemeApplied, event.ThemeAppliedData{Theme: t.Theme})
		}
	} else {
		logger.DebugTagf("engine", "engine: %s changed nothing", cmd)
	}
	return changed
}

// ReorderSlides puts the slides in the order given by ids, a permutation of
// the current slide ids. It is recorded like any other mutation, so an order
// that matches the current one, or that is not a permutation, changes
// nothing and records nothing.
func (e *Engine) ReorderSlides(ids []string) bool {
	return e.Execute(action.ReorderSlides{IDs: slices.Clone(ids)})
}

// afterChange publishes selection and gauge updates common to every
// operation that may have moved state.
func (e *Engine) afterChange(before history.Snapshot, docChanged bool) {
	if docChanged {
		e.metrics.Slides(len(e.doc.Slides))
	}
	e.metrics.Depth(e.history.PastLen(), e.history.FutureLen())
	if sel := e.selection.State(); !sel.Equal(before.Selection) {
		e.events.Dispatch(event.TypeSelectionChanged, event.SelectionChangedData{Selection: sel})
	}
}

func (e *Engine) checkInvariants(cmd action.Command) {
	err := model.Validate(e.published())
	if err == nil {
		return
	}
	if e.strict {
		panic(fmt.Errorf("engine: invariant violated after %s: %w", cmd, err))
	}
	logger.Errorf("engine: invariant violated after %s: %v", cmd, err)
}

// restore installs a history snapshot as the current state.
func (e *Engine) restore(s history.Snapshot) {
	e.doc = s.Document
	e.selection.Restore(s.Selection)
	e.selection.Reconcile(e.doc)
}

// Undo steps back one history entry.
func (e *Engine) Undo() bool {
	before := e.state()
	prev, ok := e.history.Undo(before)
	if !ok {
		return false
	}
	e.restore(prev)
	e.historyMoved(before, event.HistoryUndo)
	return true
}

// Redo re-applies the most recently undone entry.
func (e *Engine) Redo() bool {
	before := e.state()
	next, ok := e.history.Redo(before)
	if !ok {
		return false
	}
	e.restore(next)
	e.historyMoved(before, event.HistoryRedo)
	return true
}

func (e *Engine) historyMoved(before history.Snapshot, op event.HistoryOp) {
	e.metrics.History(string(op))
	e.afterChange(before, true)
	e.events.Dispatch(event.TypeHistoryChanged, event.HistoryChangedData{
		Op:        op,
		PastLen:   e.history.PastLen(),
		FutureLen: e.history.FutureLen(),
		Document:  e.published(),
	})
}

// BeginTransaction opens (or nests) a transaction. Until the matching
// EndTransaction, mutations are applied but not recorded individually.
func (e *Engine) BeginTransaction(label string) {
	e.history.Begin(label, e.state())
}

// EndTransaction closes one transaction level. Closing the outermost level
// records a single undo step if the document changed since it opened. It
// reports whether a step was recorded.
func (e *Engine) EndTransaction() bool {
	if !e.history.End(e.state()) {
		return false
	}
	e.metrics.History("commit")
	e.metrics.Depth(e.history.PastLen(), e.history.FutureLen())
	e.events.Dispatch(event.TypeHistoryChanged, event.HistoryChangedData{
		Op:        event.HistoryCommit,
		PastLen:   e.history.PastLen(),
		FutureLen: e.history.FutureLen(),
		Document:  e.published(),
	})
	return true
}

// ClearHistory forgets every undo and redo step, e.g. after opening a file.
func (e *Engine) ClearHistory() {
	e.history.Clear()
	e.metrics.Depth(0, 0)
}

// LoadDocument replaces the whole document. It is an undoable step. The
// document's CurrentSlideID and SelectedSlideIDs seed the selection. An
// inconsistent document is rejected and the engine is left unchanged.
func (e *Engine) LoadDocument(p model.Presentation) error {
	if err := model.Validate(p); err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	before := e.state()
	doc := p.Clone()
	sel := selection.State{CurrentSlideID: doc.CurrentSlideID, SlideIDs: doc.SelectedSlideIDs}
	doc.CurrentSlideID, doc.SelectedSlideIDs = "", nil
	if sel.CurrentSlideID == "" && len(doc.Slides) > 0 {
		sel.CurrentSlideID = doc.Slides[0].ID
	}

	changed := !doc.Equal(e.doc)
	if changed {
		if e.history.Record(before) {
			e.metrics.History("record")
		}
		e.doc = doc
	}
	e.selection.Restore(sel)
	e.selection.Reconcile(e.doc)
	e.afterChange(before, changed)
	if changed {
		logger.Infof("engine: loaded '%s' (%d slides)", doc.Title, len(doc.Slides))
		e.events.Dispatch(event.TypeDocumentLoaded, event.DocumentLoadedData{Document: e.published()})
	}
	return nil
}

func outcome(changed bool) string {
	if changed {
		return metrics.OutcomeApplied
	}
	return metrics.OutcomeNoop
}

// metricLabel keeps the verb label bounded: every template verb shares one.
func metricLabel(cmd action.Command) string {
	if _, ok := cmd.(action.AddSlide); ok {
		return "ADD_<NAME>_SLIDE"
	}
	return string(cmd.Verb())
}
