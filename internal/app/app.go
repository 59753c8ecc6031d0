// Package app hosts one editing session: an engine, its plugins, the
// :command registry and the script runner. It is what the CLI and the HTTP
// server drive.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bethropolis/deck/internal/action"
	"github.com/bethropolis/deck/internal/config"
	"github.com/bethropolis/deck/internal/core"
	"github.com/bethropolis/deck/internal/core/clipboard"
	"github.com/bethropolis/deck/internal/core/selection"
	"github.com/bethropolis/deck/internal/event"
	"github.com/bethropolis/deck/internal/logger"
	"github.com/bethropolis/deck/internal/metrics"
	"github.com/bethropolis/deck/internal/model"
	"github.com/bethropolis/deck/internal/outline"
	"github.com/bethropolis/deck/internal/plugin"
	"github.com/bethropolis/deck/internal/store"
	"github.com/bethropolis/deck/internal/template"
	"github.com/bethropolis/deck/internal/theme"
)

// Deps are the collaborators a session is built with. Zero fields get
// defaults; Plugins nil means the built-in plugins.
type Deps struct {
	Metrics metrics.Recorder
	IDs     model.IDSource
	Out     io.Writer // status messages, discarded when nil
	Plugins []plugin.Plugin
}

// App encapsulates one session.
type App struct {
	// mu serializes every exported entry point. Event handlers, plugin
	// commands and the plugin API run with it held.
	mu sync.Mutex

	cfg           *config.Config
	engine        *core.Engine
	eventManager  *event.Manager
	pluginManager *plugin.Manager
	engineAPI     plugin.EngineAPI
	commands      map[string]plugin.CommandFunc

	out           io.Writer
	statusMessage string
	activeTheme   string
	modified      bool

	pathMu   sync.RWMutex // guards filePath; autosave reads it off the session goroutine
	filePath string

	closeOnce sync.Once
}

// New creates a session from cfg.
func New(cfg *config.Config, deps Deps) (*App, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}

	themes, err := theme.NewManager(cfg.ThemesDir())
	if err != nil {
		// Built-ins are still there; a broken themes dir is not fatal.
		logger.Warnf("App: loading themes: %v", err)
	}

	eventManager := event.NewManager()
	engine := core.New(core.Options{
		MaxHistory:       cfg.Engine.MaxHistory,
		DuplicateOffset:  cfg.Engine.DuplicateOffset,
		StrictInvariants: cfg.Engine.StrictInvariants,
		IDs:              deps.IDs,
		Themes:           themes,
		Clipboard:        clipboard.NewManager(cfg.Clipboard.System),
		Events:           eventManager,
		Metrics:          deps.Metrics,
	})

	a := &App{
		cfg:           cfg,
		engine:        engine,
		eventManager:  eventManager,
		pluginManager: plugin.NewManager(),
		commands:      make(map[string]plugin.CommandFunc),
		out:           deps.Out,
	}
	a.engineAPI = newEngineAPI(a)

	a.subscribeCoreEvents()
	registerAppCommands(a)

	plugins := deps.Plugins
	if plugins == nil {
		plugins = builtinPlugins()
	}
	if err := registerPlugins(a.pluginManager, plugins); err != nil {
		logger.Warnf("App: %v", err)
	}

	a.mu.Lock()
	a.pluginManager.InitializePlugins(a.engineAPI)
	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.mu.Unlock()
	return a, nil
}

// Close shuts plugins down. It is safe to call more than once.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
		a.mu.Unlock()
		// Plugins may need the lock while flushing, so it is released here.
		a.pluginManager.ShutdownPlugins()
	})
	return nil
}

// Config returns the session configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Themes returns the theme manager.
func (a *App) Themes() *theme.Manager { return a.engine.Themes() }

// Templates returns the slide template registry.
func (a *App) Templates() *template.Registry { return a.engine.Templates() }

// Plugins returns the plugin manager.
func (a *App) Plugins() *plugin.Manager { return a.pluginManager }

// Events returns the session's event bus.
func (a *App) Events() *event.Manager { return a.eventManager }

// FilePath returns the document's file, "" for an unsaved document.
func (a *App) FilePath() string {
	a.pathMu.RLock()
	defer a.pathMu.RUnlock()
	return a.filePath
}

func (a *App) setFilePath(path string) {
	a.pathMu.Lock()
	a.filePath = path
	a.pathMu.Unlock()
}

// IsModified reports whether the document changed since it was opened or
// last saved.
func (a *App) IsModified() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.modified
}

// setStatusMessage records a message for the user and writes it to Out.
// The caller holds mu.
func (a *App) setStatusMessage(format string, args ...any) {
	a.statusMessage = fmt.Sprintf(format, args...)
	fmt.Fprintln(a.out, a.statusMessage)
}

// StatusMessage returns the last status message.
func (a *App) StatusMessage() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statusMessage
}

// ActiveTheme returns the last applied design theme, "" if none.
func (a *App) ActiveTheme() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeTheme
}

// --- Engine entry points, serialized ---

// Dispatch runs one action token.
func (a *App) Dispatch(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Dispatch(token)
}

// Execute runs a parsed command.
func (a *App) Execute(cmd action.Command) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Execute(cmd)
}

// Snapshot returns a deep copy of the document.
func (a *App) Snapshot() model.Presentation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Snapshot()
}

// Selection returns a copy of the selection.
func (a *App) Selection() selection.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Selection()
}

// HistoryInfo summarizes the history stacks.
type HistoryInfo struct {
	Past             int  `json:"past"`
	Future           int  `json:"future"`
	TransactionDepth int  `json:"transactionDepth"`
	CanUndo          bool `json:"canUndo"`
	CanRedo          bool `json:"canRedo"`
}

// History returns the current history sizes.
func (a *App) History() HistoryInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.historyInfo()
}

func (a *App) historyInfo() HistoryInfo {
	return HistoryInfo{
		Past:             a.engine.HistoryLen(),
		Future:           a.engine.FutureLen(),
		TransactionDepth: a.engine.TransactionDepth(),
		CanUndo:          a.engine.CanUndo(),
		CanRedo:          a.engine.CanRedo(),
	}
}

func (a *App) Undo() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Undo()
}

func (a *App) Redo() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Redo()
}

func (a *App) BeginTransaction(label string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.engine.BeginTransaction(label)
}

func (a *App) EndTransaction() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.EndTransaction()
}

// ReorderSlides puts the slides in the order of refs (ids or #n), which
// must name every slide once. An unchanged order records nothing.
func (a *App) ReorderSlides(refs []string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reorderLocked(refs)
}

// Select applies a selection request. Kind is one of "slide", "slides",
// "element", "elements", "add", "remove", "clear", "clear-slides" and
// "clear-all"; ids may use the #n index form.
func (a *App) Select(kind string, ids []string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selectLocked(kind, ids)
}

// Outline renders the current document as markdown.
func (a *App) Outline(opts outline.Options) string {
	return outline.Markdown(a.Snapshot(), opts)
}

// --- Files ---

// Open loads the document at path and starts a fresh history. A missing
// file is not an error: the session keeps its new document and saves to
// path later.
func (a *App) Open(ctx context.Context, path string) error {
	doc, err := store.Load(ctx, path)
	if errors.Is(err, store.ErrNotFound) {
		logger.Infof("App: '%s' does not exist yet, starting a new document", path)
		a.setFilePath(path)
		return nil
	}
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.engine.LoadDocument(doc); err != nil {
		return err
	}
	a.engine.ClearHistory()
	a.modified = false
	a.setFilePath(path)
	return nil
}

// Save writes the document to path, or to the current file when path is
// empty.
func (a *App) Save(ctx context.Context, path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saveLocked(ctx, path)
}

func (a *App) saveLocked(ctx context.Context, path string) error {
	if path == "" {
		path = a.FilePath()
	}
	if path == "" {
		return fmt.Errorf("no file name: %w", store.ErrEmptyPath)
	}
	if err := store.Save(ctx, path, a.engine.Snapshot()); err != nil {
		return err
	}
	a.setFilePath(path)
	a.modified = false
	a.eventManager.Dispatch(event.TypeDocumentSaved, event.DocumentSavedData{Path: path})
	return nil
}
