package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/bethropolis/deck/internal/config"
	"github.com/bethropolis/deck/internal/event"
	"github.com/bethropolis/deck/internal/logger"
	"github.com/bethropolis/deck/internal/model"
	"github.com/bethropolis/deck/internal/plugin"
	"github.com/bethropolis/deck/internal/utils"
)

// Ensure AutoSave implements plugin.Plugin
var _ plugin.Plugin = (*AutoSave)(nil)

// Settings is the [plugins.autosave] table.
type Settings struct {
	Enabled  bool          `mapstructure:"enabled"`
	Path     string        `mapstructure:"path"`     // empty means the session's document path
	Interval time.Duration `mapstructure:"interval"` // quiet period before a save
}

// AutoSave writes the document a short while after it stops changing.
type AutoSave struct {
	api plugin.EngineAPI

	mutex    sync.Mutex
	settings Settings
	pending  *model.Presentation // latest unsaved snapshot
	saves    int

	debounce utils.Debouncer
}

// New creates a new instance of the AutoSave plugin. It stays idle unless
// enabled in [plugins.autosave].
func New() *AutoSave {
	return &AutoSave{settings: defaultSettings()}
}

func defaultSettings() Settings {
	return Settings{Enabled: false, Interval: config.DefaultAutosaveInterval}
}

// Name returns the unique name of the plugin.
func (p *AutoSave) Name() string {
	return "autosave"
}

// Initialize reads configuration and subscribes to document changes.
func (p *AutoSave) Initialize(api plugin.EngineAPI) error {
	p.api = api

	p.mutex.Lock()
	if err := plugin.DecodeConfig(api.PluginConfig(p.Name()), &p.settings); err != nil {
		logger.Warnf("%s: %v; using defaults", p.Name(), err)
		p.settings = defaultSettings()
	}
	if p.settings.Interval <= 0 {
		logger.Warnf("%s: 'interval' must be positive, using %v", p.Name(), config.DefaultAutosaveInterval)
		p.settings.Interval = config.DefaultAutosaveInterval
	}
	settings := p.settings
	p.mutex.Unlock()

	logger.Infof("%s initialized. Enabled: %v, Interval: %v", p.Name(), settings.Enabled, settings.Interval)
	if !settings.Enabled {
		return nil
	}

	for _, typ := range []event.Type{event.TypeDocumentChanged, event.TypeHistoryChanged, event.TypeDocumentLoaded} {
		api.SubscribeEvent(typ, p.onChange)
	}
	return nil
}

// onChange runs synchronously inside the engine call, so it only takes a
// copy of the document and leaves the write to the debounced goroutine.
func (p *AutoSave) onChange(event.Event) bool {
	doc := p.api.Snapshot()

	p.mutex.Lock()
	p.pending = &doc
	interval := p.settings.Interval
	p.mutex.Unlock()

	p.debounce.Debounce(interval, p.save)
	return false
}

// save writes the pending snapshot, if any.
func (p *AutoSave) save() {
	p.mutex.Lock()
	doc := p.pending
	p.pending = nil
	path := p.settings.Path
	p.mutex.Unlock()

	if doc == nil {
		return
	}
	if path == "" {
		path = p.api.DocumentPath()
	}
	if path == "" {
		logger.Debugf("%s: document has no path, skipping auto-save", p.Name())
		return
	}

	if err := p.api.SaveDocument(context.Background(), path, *doc); err != nil {
		logger.Errorf("%s: Auto-save failed for '%s': %v", p.Name(), path, err)
		return
	}
	p.mutex.Lock()
	p.saves++
	p.mutex.Unlock()
	logger.Debugf("%s: Auto-saved '%s'", p.Name(), path)
}

// Saves returns how many auto-saves succeeded.
func (p *AutoSave) Saves() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.saves
}

// Shutdown writes any change still waiting for its quiet period and waits
// for a save that is already running.
func (p *AutoSave) Shutdown() error {
	if p.debounce.Flush() {
		p.save()
	}
	p.debounce.Wait()
	return nil
}
