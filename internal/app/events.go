package app

import (
	"github.com/bethropolis/deck/internal/event"
	"github.com/bethropolis/deck/internal/logger"
)

// subscribeCoreEvents wires the session's own bookkeeping to the bus.
func (a *App) subscribeCoreEvents() {
	a.eventManager.Subscribe(event.TypeDocumentChanged, a.handleDocumentChanged)
	a.eventManager.Subscribe(event.TypeHistoryChanged, a.handleDocumentChanged)
	a.eventManager.Subscribe(event.TypeDocumentLoaded, a.handleDocumentChanged)
	a.eventManager.Subscribe(event.TypeThemeApplied, a.handleThemeApplied)
	a.eventManager.Subscribe(event.TypeDocumentSaved, a.handleDocumentSaved)
}

func (a *App) handleDocumentChanged(e event.Event) bool {
	a.modified = true
	return false
}

func (a *App) handleThemeApplied(e event.Event) bool {
	if data, ok := e.Data.(event.ThemeAppliedData); ok {
		a.activeTheme = data.Theme
	}
	return false
}

func (a *App) handleDocumentSaved(e event.Event) bool {
	if data, ok := e.Data.(event.DocumentSavedData); ok {
		logger.Infof("App: saved '%s'", data.Path)
		a.setStatusMessage("Saved %s", data.Path)
	}
	return false
}
