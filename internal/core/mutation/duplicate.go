package mutation

import (
	"slices"

	"github.com/bethropolis/deck/internal/model"
)

// DefaultDuplicateOffset is how far copies are shifted from their source in
// each axis so they do not sit exactly on top of it.
const DefaultDuplicateOffset = 15

// DuplicateElements copies the named elements with fresh ids, offset by
// (offset, offset), and puts the copies on top in their original relative
// order. It returns the new ids in that order.
func DuplicateElements(s model.Slide, ids []string, src model.IDSource, offset float64) (model.Slide, []string) {
	selected, _ := partition(s.Elements, ids)
	if len(selected) == 0 {
		return s, nil
	}
	copies, newIDs := CloneElements(selected, src, offset)
	s.Elements = append(slices.Clip(s.Elements), copies...)
	return s, newIDs
}

// CloneElements deep-copies elements with fresh ids and shifted positions.
// It is shared by duplication and clipboard paste.
func CloneElements(elements []model.Element, src model.IDSource, offset float64) ([]model.Element, []string) {
	copies := make([]model.Element, len(elements))
	newIDs := make([]string, len(elements))
	for i, e := range elements {
		c := e.Clone()
		c.ID = src.NewID()
		c.Position = c.Position.Translate(offset, offset)
		copies[i] = c
		newIDs[i] = c.ID
	}
	return copies, newIDs
}
