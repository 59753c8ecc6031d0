package core

import (
	"slices"

	"github.com/bethropolis/deck/internal/logger"
)

// Selection changes are navigation, not edits: none of these touch history.
// Ids that do not exist are ignored. Element ids refer to the current slide.

// selectionChange runs fn and publishes the new selection if it changed.
func (e *Engine) selectionChange(fn func() bool) bool {
	before := e.state()
	fn()
	e.selection.Reconcile(e.doc)
	changed := !e.selection.State().Equal(before.Selection)
	if changed {
		e.afterChange(before, false)
	}
	return changed
}

func (e *Engine) slideExists(id string) bool {
	return e.doc.SlideIndex(id) >= 0
}

func (e *Engine) elementExists(id string) bool {
	s, ok := e.doc.Slide(e.selection.CurrentSlide())
	return ok && s.ElementIndex(id) >= 0
}

// SetCurrentSlide switches the slide being edited without selecting it.
func (e *Engine) SetCurrentSlide(id string) bool {
	if !e.slideExists(id) {
		logger.DebugTagf("selection", "engine: no slide '%s' to make current", id)
		return false
	}
	return e.selectionChange(func() bool { return e.selection.SetCurrentSlide(id) })
}

// SelectSlide makes id current and the only selected slide.
func (e *Engine) SelectSlide(id string) bool {
	if !e.slideExists(id) {
		logger.DebugTagf("selection", "engine: no slide '%s' to select", id)
		return false
	}
	return e.selectionChange(func() bool { return e.selection.SelectSlide(id) })
}

// SelectSlides selects several slides; an empty list clears the slide
// selection.
func (e *Engine) SelectSlides(ids []string) bool {
	known := slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return !e.slideExists(id) })
	if len(ids) > 0 && len(known) == 0 {
		return false
	}
	return e.selectionChange(func() bool { return e.selection.SelectSlides(known) })
}

// SelectElement selects one element of the current slide.
func (e *Engine) SelectElement(id string) bool {
	if !e.elementExists(id) {
		logger.DebugTagf("selection", "engine: no element '%s' on the current slide", id)
		return false
	}
	return e.selectionChange(func() bool { return e.selection.SelectElement(id) })
}

// SelectMultipleElements replaces the element selection.
func (e *Engine) SelectMultipleElements(ids []string) bool {
	known := slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return !e.elementExists(id) })
	if len(known) == 0 {
		return e.ClearSelection()
	}
	return e.selectionChange(func() bool { return e.selection.SelectMultipleElements(known) })
}

// AddToSelection adds one element of the current slide to the selection.
func (e *Engine) AddToSelection(id string) bool {
	if !e.elementExists(id) {
		return false
	}
	return e.selectionChange(func() bool { return e.selection.AddToSelection(id) })
}

func (e *Engine) RemoveFromSelection(id string) bool {
	return e.selectionChange(func() bool { return e.selection.RemoveFromSelection(id) })
}

// ClearSelection drops the element selection.
func (e *Engine) ClearSelection() bool {
	return e.selectionChange(e.selection.ClearSelection)
}

// ClearSlideSelection drops the slide selection.
func (e *Engine) ClearSlideSelection() bool {
	return e.selectionChange(e.selection.ClearSlideSelection)
}

// ClearAllSelections drops both selections.
func (e *Engine) ClearAllSelections() bool {
	return e.selectionChange(e.selection.ClearAllSelections)
}
