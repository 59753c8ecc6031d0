package plugin

import (
	"context"

	"github.com/bethropolis/deck/internal/core/selection"
	"github.com/bethropolis/deck/internal/event"
	"github.com/bethropolis/deck/internal/model"
)

// CommandFunc defines the signature for commands registered by plugins.
// It takes arguments (e.g., from user input) and returns an error.
type CommandFunc func(args []string) error

// EngineAPI defines the methods plugins can use to interact with the session.
// Plugins see the document only through snapshots and change it only through
// action tokens, so every plugin edit goes through history like any other.
type EngineAPI interface {
	// --- Document Access (read-only copies) ---
	Snapshot() model.Presentation
	Selection() selection.State

	// --- Editing ---
	Dispatch(token string) bool

	// --- Persistence ---
	DocumentPath() string
	SaveDocument(ctx context.Context, path string, doc model.Presentation) error

	// --- Event Bus Interaction ---
	DispatchEvent(eventType event.Type, data any)
	SubscribeEvent(eventType event.Type, handler event.Handler)

	// --- Command Registration ---
	RegisterCommand(name string, cmdFunc CommandFunc) error

	// --- Messages ---
	SetStatusMessage(format string, args ...any)

	// --- Configuration ---
	// PluginConfig returns the raw [plugins.<name>] table, nil if absent.
	PluginConfig(pluginName string) map[string]any
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once when the plugin is loaded.
	// Used for setup, subscribing to events, registering commands.
	Initialize(api EngineAPI) error

	// Shutdown is called once when the session is closing.
	Shutdown() error
}
