package app

import (
	"context"
	"fmt"

	"github.com/bethropolis/deck/internal/core/selection"
	"github.com/bethropolis/deck/internal/event"
	"github.com/bethropolis/deck/internal/model"
	"github.com/bethropolis/deck/internal/plugin"
	"github.com/bethropolis/deck/internal/store"
)

// Ensure appEngineAPI implements the plugin.EngineAPI interface.
var _ plugin.EngineAPI = (*appEngineAPI)(nil)

// appEngineAPI is what plugins get. Its engine methods do not take the
// session lock: plugins call them from event handlers and commands, which
// already run under it. DocumentPath and SaveDocument are safe from any
// goroutine.
type appEngineAPI struct {
	app *App
}

func newEngineAPI(app *App) *appEngineAPI {
	return &appEngineAPI{app: app}
}

func (api *appEngineAPI) Snapshot() model.Presentation { return api.app.engine.Snapshot() }

func (api *appEngineAPI) Selection() selection.State { return api.app.engine.Selection() }

func (api *appEngineAPI) Dispatch(token string) bool { return api.app.engine.Dispatch(token) }

func (api *appEngineAPI) DocumentPath() string { return api.app.FilePath() }

func (api *appEngineAPI) SaveDocument(ctx context.Context, path string, doc model.Presentation) error {
	return store.Save(ctx, path, doc)
}

func (api *appEngineAPI) DispatchEvent(eventType event.Type, data any) {
	api.app.eventManager.Dispatch(eventType, data)
}

func (api *appEngineAPI) SubscribeEvent(eventType event.Type, handler event.Handler) {
	api.app.eventManager.Subscribe(eventType, handler)
}

// RegisterCommand adds a :command. Names are unique across the app and all
// plugins.
func (api *appEngineAPI) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if name == "" || cmdFunc == nil {
		return fmt.Errorf("invalid command registration for '%s'", name)
	}
	if _, exists := api.app.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	api.app.commands[name] = cmdFunc
	return nil
}

func (api *appEngineAPI) SetStatusMessage(format string, args ...any) {
	api.app.setStatusMessage(format, args...)
}

func (api *appEngineAPI) PluginConfig(pluginName string) map[string]any {
	return api.app.cfg.Plugin(pluginName)
}
