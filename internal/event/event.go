package event

import (
	"github.com/bethropolis/deck/internal/core/selection"
	"github.com/bethropolis/deck/internal/model"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Engine events
	TypeDocumentChanged  // a command changed the document
	TypeDocumentLoaded   // the whole document was replaced
	TypeDocumentSaved    // a collaborator wrote the document somewhere
	TypeSelectionChanged // selection or current slide changed
	TypeHistoryChanged   // undo, redo or transaction commit moved history
	TypeThemeApplied     // a design theme was stamped on every slide

	// Application lifecycle
	TypeAppReady
	TypeAppQuit
)

var typeNames = map[Type]string{
	TypeUnknown:          "unknown",
	TypeDocumentChanged:  "document-changed",
	TypeDocumentLoaded:   "document-loaded",
	TypeDocumentSaved:    "document-saved",
	TypeSelectionChanged: "selection-changed",
	TypeHistoryChanged:   "history-changed",
	TypeThemeApplied:     "theme-applied",
	TypeAppReady:         "app-ready",
	TypeAppQuit:          "app-quit",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data any
}

// Documents carried in event data share structure with the engine's
// history. They are never modified in place, so holding on to them is safe,
// but handlers must not write through them.

// DocumentChangedData is sent after a command changed the document.
type DocumentChangedData struct {
	Token    string // the action token that caused the change
	Document model.Presentation
}

// DocumentLoadedData is sent after LoadDocument.
type DocumentLoadedData struct {
	Document model.Presentation
}

// DocumentSavedData is sent by whoever persisted the document.
type DocumentSavedData struct {
	Path string
}

// SelectionChangedData carries the new selection.
type SelectionChangedData struct {
	Selection selection.State
}

// HistoryOp names what moved the history.
type HistoryOp string

const (
	HistoryUndo   HistoryOp = "undo"
	HistoryRedo   HistoryOp = "redo"
	HistoryCommit HistoryOp = "commit"
)

// HistoryChangedData carries the stack sizes after a history move.
type HistoryChangedData struct {
	Op        HistoryOp
	PastLen   int
	FutureLen int
	Document  model.Presentation
}

// ThemeAppliedData names the theme that was applied.
type ThemeAppliedData struct {
	Theme string
}

type AppReadyData struct{}

type AppQuitData struct{}
