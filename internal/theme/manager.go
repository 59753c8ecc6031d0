package theme

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/bethropolis/deck/internal/logger"
)

// Manager holds the themes known to a session, keyed by lower-case name.
type Manager struct {
	themes map[string]Theme
	mutex  sync.RWMutex
}

// NewManager creates a manager with the built-in themes and, when dir is
// not empty, every theme file found in dir. Files override built-ins of the
// same name.
func NewManager(dir string) (*Manager, error) {
	m := &Manager{themes: make(map[string]Theme)}
	for _, t := range Builtins {
		m.Register(t)
	}
	if dir == "" {
		return m, nil
	}

	logger.Infof("Loading themes from: %s", dir)
	loaded, err := loadDir(dir)
	if err != nil {
		return m, err
	}
	for _, t := range loaded {
		if existing, ok := m.Get(t.Name); ok {
			logger.Warnf("Theme '%s' overrides existing theme '%s'", t.Name, existing.Name)
		}
		m.Register(t)
	}
	logger.Infof("Loaded %d custom themes.", len(loaded))
	return m, nil
}

// Register adds or replaces a theme.
func (m *Manager) Register(t Theme) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.themes[strings.ToLower(t.Name)] = t
	logger.Debugf("Registered theme: %s", t.Name)
}

// Get returns a theme by name (case-insensitive).
func (m *Manager) Get(name string) (Theme, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	t, ok := m.themes[strings.ToLower(name)]
	return t, ok
}

// MustGet is Get that returns an error for unknown names.
func (m *Manager) MustGet(name string) (Theme, error) {
	t, ok := m.Get(name)
	if !ok {
		return Theme{}, fmt.Errorf("theme '%s' not found", name)
	}
	return t, nil
}

// List returns all themes sorted by name.
func (m *Manager) List() []Theme {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	out := make([]Theme, 0, len(m.themes))
	for _, t := range m.themes {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b Theme) int { return strings.Compare(a.Name, b.Name) })
	return out
}
