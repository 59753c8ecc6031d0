// Package clipboard holds copied elements between COPY/CUT and PASTE. The
// register can be mirrored to the system clipboard so elements survive
// across sessions.
package clipboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/bethropolis/deck/internal/core/mutation"
	"github.com/bethropolis/deck/internal/logger"
	"github.com/bethropolis/deck/internal/model"
)

// mimeKey marks system clipboard payloads written by this package.
const mimeKey = "application/x-deck-elements"

type payload struct {
	Kind     string          `json:"kind"`
	Elements []model.Element `json:"elements"`
}

// SystemClipboard is the subset of the OS clipboard the manager uses.
type SystemClipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type osClipboard struct{}

func (osClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (osClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Manager handles the element clipboard.
type Manager struct {
	elements []model.Element
	// pastes counts pastes since the last copy so repeated pastes cascade
	// instead of stacking on one spot. A cut starts at -1 so the first paste
	// lands where the elements were.
	pastes int
	system SystemClipboard
	mutex  sync.Mutex
}

// NewManager creates a clipboard. When useSystem is set and the platform
// supports it, copies are mirrored to the OS clipboard.
func NewManager(useSystem bool) *Manager {
	m := &Manager{}
	if useSystem {
		if clipboard.Unsupported {
			logger.Warnf("Clipboard: system clipboard unsupported on this platform, using internal register only")
		} else {
			m.system = osClipboard{}
		}
	}
	return m
}

// WithSystem replaces the system clipboard backend, mainly for tests.
func (m *Manager) WithSystem(sys SystemClipboard) *Manager {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.system = sys
	return m
}

// Copy stores deep copies of elements. cut marks the copy as coming from a
// cut, so the first paste keeps the original positions.
func (m *Manager) Copy(elements []model.Element, cut bool) bool {
	if len(elements) == 0 {
		return false
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.elements = cloneAll(elements)
	m.pastes = 0
	if cut {
		m.pastes = -1
	}
	logger.Debugf("Clipboard: stored %d elements (cut=%v)", len(elements), cut)

	if m.system != nil {
		if err := m.writeSystem(); err != nil {
			logger.Warnf("Clipboard: failed to mirror to system clipboard: %v", err)
		}
	}
	return true
}

// Empty reports whether there is nothing to paste.
func (m *Manager) Empty() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.elements) == 0 && m.system == nil
}

// Contents returns copies of the stored elements.
func (m *Manager) Contents() []model.Element {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return cloneAll(m.elements)
}

// Paste returns fresh copies of the stored elements with new ids, shifted by
// offset times the number of pastes since the last copy. When the internal
// register is empty the system clipboard is consulted.
func (m *Manager) Paste(ids model.IDSource, offset float64) ([]model.Element, []string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if len(m.elements) == 0 && m.system != nil {
		elements, err := m.readSystem()
		if err != nil {
			logger.Debugf("Clipboard: nothing usable on system clipboard: %v", err)
		}
		m.elements = elements
	}
	if len(m.elements) == 0 {
		return nil, nil
	}

	m.pastes++
	copies, newIDs := mutation.CloneElements(m.elements, ids, offset*float64(m.pastes))
	logger.Debugf("Clipboard: pasted %d elements (paste #%d)", len(copies), m.pastes)
	return copies, newIDs
}

// Clear empties the internal register.
func (m *Manager) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.elements = nil
	m.pastes = 0
}

var errForeignContent = errors.New("clipboard holds no deck elements")

func (m *Manager) writeSystem() error {
	data, err := json.Marshal(payload{Kind: mimeKey, Elements: m.elements})
	if err != nil {
		return fmt.Errorf("encode clipboard payload: %w", err)
	}
	return m.system.WriteAll(string(data))
}

func (m *Manager) readSystem() ([]model.Element, error) {
	text, err := m.system.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read system clipboard: %w", err)
	}
	var p payload
	if err := json.Unmarshal([]byte(text), &p); err != nil || p.Kind != mimeKey {
		return nil, errForeignContent
	}
	return p.Elements, nil
}

func cloneAll(elements []model.Element) []model.Element {
	if len(elements) == 0 {
		return nil
	}
	out := make([]model.Element, len(elements))
	for i, e := range elements {
		out[i] = e.Clone()
	}
	return out
}
