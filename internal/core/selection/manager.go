// Package selection tracks which slide is being edited and which slides or
// elements are selected. Slide-mode and element-mode are mutually exclusive:
// selecting in one mode clears the other.
package selection

import (
	"slices"

	"github.com/bethropolis/deck/internal/logger"
	"github.com/bethropolis/deck/internal/model"
)

// State is a value copy of the selection. Element ids are scoped to the
// current slide.
type State struct {
	CurrentSlideID string   `json:"currentSlideId"`
	SlideIDs       []string `json:"selectedSlideIds,omitempty"`
	ElementIDs     []string `json:"selectedElementIds,omitempty"`
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	s.SlideIDs = slices.Clone(s.SlideIDs)
	s.ElementIDs = slices.Clone(s.ElementIDs)
	return s
}

// Equal compares states by value. Nil and empty id lists are equal.
func (s State) Equal(o State) bool {
	return s.CurrentSlideID == o.CurrentSlideID &&
		slices.Equal(s.SlideIDs, o.SlideIDs) &&
		slices.Equal(s.ElementIDs, o.ElementIDs)
}

// SlideMode reports whether one or more slides are selected.
func (s State) SlideMode() bool { return len(s.SlideIDs) > 0 }

// ElementMode reports whether one or more elements are selected.
func (s State) ElementMode() bool { return len(s.ElementIDs) > 0 }

// Manager owns the selection state. It is not safe for concurrent use; the
// engine that owns it is single-writer.
type Manager struct {
	state State
}

// NewManager creates an empty selection.
func NewManager() *Manager {
	return &Manager{}
}

// State returns a copy of the current selection.
func (m *Manager) State() State {
	return m.state.Clone()
}

// Restore replaces the selection wholesale, e.g. from a history snapshot.
// It reports whether anything changed.
func (m *Manager) Restore(s State) bool {
	return m.set(s.Clone())
}

// set installs next and reports whether it differs from the old state.
func (m *Manager) set(next State) bool {
	if m.state.Equal(next) {
		return false
	}
	m.state = next
	logger.DebugTagf("selection", "selection: current=%s slides=%v elements=%v",
		next.CurrentSlideID, next.SlideIDs, next.ElementIDs)
	return true
}

// CurrentSlide returns the id of the slide being edited.
func (m *Manager) CurrentSlide() string {
	return m.state.CurrentSlideID
}

// PrimaryElementTarget returns the element that single-target actions apply
// to: the first selected element.
func (m *Manager) PrimaryElementTarget() (string, bool) {
	if len(m.state.ElementIDs) == 0 {
		return "", false
	}
	return m.state.ElementIDs[0], true
}

// SelectedElements returns the selected element ids in selection order.
func (m *Manager) SelectedElements() []string {
	return slices.Clone(m.state.ElementIDs)
}

// SelectedSlides returns the selected slide ids in selection order.
func (m *Manager) SelectedSlides() []string {
	return slices.Clone(m.state.SlideIDs)
}

// SetCurrentSlide changes the slide being edited without touching the slide
// selection. Element selection belongs to a slide, so it is dropped when the
// current slide changes.
func (m *Manager) SetCurrentSlide(id string) bool {
	if id == m.state.CurrentSlideID {
		return false
	}
	next := m.state.Clone()
	next.CurrentSlideID = id
	next.ElementIDs = nil
	return m.set(next)
}

// SelectSlide makes id current and the only selected slide.
func (m *Manager) SelectSlide(id string) bool {
	return m.set(State{CurrentSlideID: id, SlideIDs: []string{id}})
}

// SelectSlides selects several slides. An empty ids clears the slide
// selection. The current slide is kept when it is among ids and otherwise
// moves to the first of them.
func (m *Manager) SelectSlides(ids []string) bool {
	ids = dedupe(ids)
	next := State{CurrentSlideID: m.state.CurrentSlideID, SlideIDs: ids}
	if len(ids) > 0 && !slices.Contains(ids, next.CurrentSlideID) {
		next.CurrentSlideID = ids[0]
	}
	return m.set(next)
}

// SelectElement makes id the only selected element.
func (m *Manager) SelectElement(id string) bool {
	return m.SelectMultipleElements([]string{id})
}

// SelectMultipleElements replaces the element selection.
func (m *Manager) SelectMultipleElements(ids []string) bool {
	return m.set(State{CurrentSlideID: m.state.CurrentSlideID, ElementIDs: dedupe(ids)})
}

// AddToSelection appends id to the element selection unless present.
func (m *Manager) AddToSelection(id string) bool {
	next := State{CurrentSlideID: m.state.CurrentSlideID, ElementIDs: slices.Clone(m.state.ElementIDs)}
	if !slices.Contains(next.ElementIDs, id) {
		next.ElementIDs = append(next.ElementIDs, id)
	}
	return m.set(next)
}

// RemoveFromSelection drops id from the element selection.
func (m *Manager) RemoveFromSelection(id string) bool {
	next := m.state.Clone()
	next.ElementIDs = slices.DeleteFunc(next.ElementIDs, func(s string) bool { return s == id })
	return m.set(next)
}

// ClearSelection drops the element selection.
func (m *Manager) ClearSelection() bool {
	next := m.state.Clone()
	next.ElementIDs = nil
	return m.set(next)
}

// ClearSlideSelection drops the slide selection.
func (m *Manager) ClearSlideSelection() bool {
	next := m.state.Clone()
	next.SlideIDs = nil
	return m.set(next)
}

// ClearAllSelections drops both selections. The current slide stays.
func (m *Manager) ClearAllSelections() bool {
	return m.set(State{CurrentSlideID: m.state.CurrentSlideID})
}

// Reconcile drops every id that no longer exists in doc. A current slide
// that disappeared falls back to the first slide, or to none.
func (m *Manager) Reconcile(doc model.Presentation) bool {
	next := m.state.Clone()
	if doc.SlideIndex(next.CurrentSlideID) < 0 {
		next.CurrentSlideID = ""
		next.ElementIDs = nil
		if len(doc.Slides) > 0 {
			next.CurrentSlideID = doc.Slides[0].ID
		}
	}
	next.SlideIDs = slices.DeleteFunc(next.SlideIDs, func(id string) bool { return doc.SlideIndex(id) < 0 })
	if current, ok := doc.Slide(next.CurrentSlideID); ok {
		next.ElementIDs = slices.DeleteFunc(next.ElementIDs, func(id string) bool { return current.ElementIndex(id) < 0 })
	}
	if len(next.SlideIDs) == 0 {
		next.SlideIDs = nil
	}
	if len(next.ElementIDs) == 0 {
		next.ElementIDs = nil
	}
	return m.set(next)
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
