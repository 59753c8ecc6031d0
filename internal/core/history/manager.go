// Package history keeps the undo and redo stacks of full-state snapshots.
//
// Callers push the state from before a mutation with Record. Between Begin
// and End recording is suspended and End pushes the state from before the
// whole transaction, so any number of mutations become one undo step.
package history

import (
	"sync"

	"github.com/bethropolis/deck/internal/logger"
)

const DefaultMaxHistory = 100

// Manager handles the undo/redo stacks and transaction depth.
type Manager struct {
	past     []Snapshot
	future   []Snapshot
	maxItems int

	depth   int
	initial Snapshot // state before the outermost Begin
	label   string

	mutex sync.Mutex
}

// NewManager creates a history manager keeping at most maxItems undo steps.
func NewManager(maxItems int) *Manager {
	if maxItems <= 0 {
		maxItems = DefaultMaxHistory
	}
	return &Manager{
		past:     make([]Snapshot, 0, maxItems),
		maxItems: maxItems,
	}
}

// push appends s to the past stack, evicting the oldest entry beyond
// maxItems, and invalidates the redo stack.
func (m *Manager) push(s Snapshot) {
	m.past = append(m.past, s)
	if len(m.past) > m.maxItems {
		// Drop the oldest entries; copy down so the backing array does not grow.
		n := copy(m.past, m.past[len(m.past)-m.maxItems:])
		clear(m.past[n:])
		m.past = m.past[:n]
	}
	clear(m.future)
	m.future = m.future[:0]
}

// Record pushes before, the state from just before a mutation. Inside a
// transaction it does nothing and reports false.
func (m *Manager) Record(before Snapshot) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.depth > 0 {
		logger.DebugTagf("history", "history: coalescing into transaction '%s' (depth %d)", m.label, m.depth)
		return false
	}
	m.push(before)
	logger.DebugTagf("history", "history: recorded. past=%d future=%d", len(m.past), len(m.future))
	return true
}

// Begin opens a transaction, or nests into the open one. current is the
// state before the first mutation; only the outermost Begin keeps it.
func (m *Manager) Begin(label string, current Snapshot) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.depth++
	if m.depth == 1 {
		m.initial = current
		m.label = label
		logger.DebugTagf("history", "history: begin transaction '%s'", label)
		return
	}
	logger.DebugTagf("history", "history: nested begin '%s' (depth %d)", label, m.depth)
}

// End closes one level of transaction. When the outermost level closes and
// the document differs from the one seen at Begin, the state from Begin is
// pushed as a single entry. It reports whether an entry was pushed.
// Selection-only differences do not count.
func (m *Manager) End(current Snapshot) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.depth == 0 {
		logger.Warnf("history: End without Begin")
		return false
	}
	m.depth--
	if m.depth > 0 {
		return false
	}

	initial, label := m.initial, m.label
	m.initial, m.label = Snapshot{}, ""
	if initial.Document.ContentEqual(current.Document) {
		logger.DebugTagf("history", "history: transaction '%s' changed nothing", label)
		return false
	}
	m.push(initial)
	logger.DebugTagf("history", "history: committed transaction '%s'. past=%d", label, len(m.past))
	return true
}

// Undo pops the most recent past entry and returns it as the new state,
// moving current onto the redo stack. Undo is refused while a transaction
// is open.
func (m *Manager) Undo(current Snapshot) (Snapshot, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.depth > 0 {
		logger.DebugTagf("history", "history: undo refused inside transaction '%s'", m.label)
		return Snapshot{}, false
	}
	if len(m.past) == 0 {
		logger.DebugTagf("history", "history: nothing to undo")
		return Snapshot{}, false
	}
	last := len(m.past) - 1
	prev := m.past[last]
	m.past[last] = Snapshot{}
	m.past = m.past[:last]
	m.future = append(m.future, current)
	logger.DebugTagf("history", "history: undo. past=%d future=%d", len(m.past), len(m.future))
	return prev, true
}

// Redo pops the most recent future entry and returns it as the new state,
// moving current back onto the past stack.
func (m *Manager) Redo(current Snapshot) (Snapshot, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.depth > 0 {
		logger.DebugTagf("history", "history: redo refused inside transaction '%s'", m.label)
		return Snapshot{}, false
	}
	if len(m.future) == 0 {
		logger.DebugTagf("history", "history: nothing to redo")
		return Snapshot{}, false
	}
	last := len(m.future) - 1
	next := m.future[last]
	m.future[last] = Snapshot{}
	m.future = m.future[:last]
	m.past = append(m.past, current)
	if len(m.past) > m.maxItems {
		m.past = m.past[len(m.past)-m.maxItems:]
	}
	logger.DebugTagf("history", "history: redo. past=%d future=%d", len(m.past), len(m.future))
	return next, true
}

// Clear resets both stacks and abandons any open transaction. Call this when
// the session starts over on a new document.
func (m *Manager) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	clear(m.past)
	m.past = m.past[:0]
	m.future = nil
	m.depth = 0
	m.initial, m.label = Snapshot{}, ""
	logger.DebugTagf("history", "history: cleared")
}

// CanUndo returns true if there are entries that can be undone.
func (m *Manager) CanUndo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.past) > 0 && m.depth == 0
}

// CanRedo returns true if there are entries that can be redone.
func (m *Manager) CanRedo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.future) > 0 && m.depth == 0
}

func (m *Manager) PastLen() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.past)
}

func (m *Manager) FutureLen() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.future)
}

// Depth returns the transaction nesting depth; 0 means idle.
func (m *Manager) Depth() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.depth
}

// Label returns the label of the open transaction, if any.
func (m *Manager) Label() string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.label
}

func (m *Manager) MaxItems() int { return m.maxItems }

// Past returns the undo stack, oldest first.
func (m *Manager) Past() []Snapshot {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	out := make([]Snapshot, len(m.past))
	copy(out, m.past)
	return out
}
