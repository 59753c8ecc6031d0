package app

import (
	"fmt"

	"github.com/bethropolis/deck/internal/logger"
	"github.com/bethropolis/deck/internal/plugin"
	"github.com/bethropolis/deck/plugins/autosave"
	"github.com/bethropolis/deck/plugins/wordcount"
)

// builtinPlugins returns fresh instances of the plugins shipped with deck.
// Adding a new plugin means adding its constructor here.
func builtinPlugins() []plugin.Plugin {
	return []plugin.Plugin{
		wordcount.New(),
		autosave.New(),
	}
}

// registerPlugins registers every plugin with the manager. It continues
// past failures and returns the first error.
func registerPlugins(pm *plugin.Manager, plugins []plugin.Plugin) error {
	if pm == nil {
		return fmt.Errorf("plugin manager is nil")
	}

	var finalErr error
	for _, p := range plugins {
		logger.Debugf("Registering plugin: %s", p.Name())
		if err := pm.Register(p); err != nil {
			wrappedErr := fmt.Errorf("failed to register plugin '%s': %w", p.Name(), err)
			logger.Errorf("%v", wrappedErr)
			if finalErr == nil {
				finalErr = wrappedErr
			}
		}
	}
	return finalErr
}
