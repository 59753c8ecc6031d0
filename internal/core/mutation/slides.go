// Package mutation holds the pure document mutations. Every function takes
// document values and returns new values; inputs are never written. Slices
// on the modified path are reallocated and everything else is shared, so a
// previously returned value stays valid as a history snapshot.
//
// All functions are total. An unknown id, a locked background or a request
// that would not change anything returns the input unchanged.
package mutation

import (
	"slices"

	"github.com/bethropolis/deck/internal/logger"
	"github.com/bethropolis/deck/internal/model"
)

// UpdateSlide replaces the slide with id by fn's result.
func UpdateSlide(p model.Presentation, id string, fn func(model.Slide) model.Slide) model.Presentation {
	i := p.SlideIndex(id)
	if i < 0 {
		return p
	}
	next := fn(p.Slides[i])
	if next.Equal(p.Slides[i]) {
		return p
	}
	slides := slices.Clone(p.Slides)
	slides[i] = next
	p.Slides = slides
	return p
}

// AddSlide appends s. A slide whose id is already present is a caller bug;
// it is logged and ignored so the id invariant still holds.
func AddSlide(p model.Presentation, s model.Slide) model.Presentation {
	return InsertSlide(p, len(p.Slides), s)
}

// InsertSlide inserts s at index, clamped to the valid range.
func InsertSlide(p model.Presentation, index int, s model.Slide) model.Presentation {
	if p.SlideIndex(s.ID) >= 0 {
		logger.Errorf("mutation: refusing duplicate slide id '%s'", s.ID)
		return p
	}
	index = max(0, min(index, len(p.Slides)))
	p.Slides = slices.Insert(slices.Clip(p.Slides), index, s)
	return p
}

// RemoveSlide drops the slide with id together with its elements. A current
// slide pointing at it falls back to the first remaining slide.
func RemoveSlide(p model.Presentation, id string) model.Presentation {
	i := p.SlideIndex(id)
	if i < 0 {
		return p
	}
	p.Slides = slices.Delete(slices.Clone(p.Slides), i, i+1)
	if slices.Contains(p.SelectedSlideIDs, id) {
		p.SelectedSlideIDs = slices.DeleteFunc(slices.Clone(p.SelectedSlideIDs), func(s string) bool { return s == id })
	}
	if p.CurrentSlideID == id {
		p.CurrentSlideID = ""
		if len(p.Slides) > 0 {
			p.CurrentSlideID = p.Slides[0].ID
		}
	}
	return p
}

// RemoveSlides drops every slide named in ids.
func RemoveSlides(p model.Presentation, ids []string) model.Presentation {
	for _, id := range ids {
		p = RemoveSlide(p, id)
	}
	return p
}

// ReorderSlides puts the slides in the order given by ids. The order must be
// a permutation of the current slide ids; anything else is ignored.
func ReorderSlides(p model.Presentation, ids []string) model.Presentation {
	current := p.SlideIDs()
	if slices.Equal(current, ids) || len(ids) != len(current) {
		return p
	}
	reordered := make([]model.Slide, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s, ok := p.Slide(id)
		if _, dup := seen[id]; !ok || dup {
			return p
		}
		seen[id] = struct{}{}
		reordered = append(reordered, s)
	}
	p.Slides = reordered
	return p
}

// MoveSlide moves the slide with id to index (clamped).
func MoveSlide(p model.Presentation, id string, index int) model.Presentation {
	i := p.SlideIndex(id)
	if i < 0 {
		return p
	}
	index = max(0, min(index, len(p.Slides)-1))
	if index == i {
		return p
	}
	s := p.Slides[i]
	rest := slices.Delete(slices.Clone(p.Slides), i, i+1)
	p.Slides = slices.Insert(rest, index, s)
	return p
}

// RemintIDs gives the slide and each of its elements a fresh id. Elements are
// deep-copied so the result shares nothing mutable with s.
func RemintIDs(s model.Slide, ids model.IDSource) model.Slide {
	c := s.Clone()
	c.ID = ids.NewID()
	for i := range c.Elements {
		c.Elements[i].ID = ids.NewID()
	}
	return c
}

// DuplicateSlide deep-copies the slide with id, re-mints every id and inserts
// the copy right after the source. It returns the new slide id, or "" when id
// is unknown.
func DuplicateSlide(p model.Presentation, id string, ids model.IDSource) (model.Presentation, string) {
	i := p.SlideIndex(id)
	if i < 0 {
		return p, ""
	}
	dup := RemintIDs(p.Slides[i], ids)
	return InsertSlide(p, i+1, dup), dup.ID
}

// SetTitle renames the presentation.
func SetTitle(p model.Presentation, title string) model.Presentation {
	p.Title = title
	return p
}

// ChangeBackground sets the slide background. Locked backgrounds are kept;
// only ApplyTheme may replace them. The new background is never locked.
func ChangeBackground(s model.Slide, bg model.Background) model.Slide {
	if s.Background.Locked {
		return s
	}
	s.Background = bg.WithLock(false)
	return s
}

// ApplyTheme replaces every slide background with bg and locks it.
func ApplyTheme(p model.Presentation, bg model.Background) model.Presentation {
	locked := bg.WithLock(true)
	changed := false
	slides := make([]model.Slide, len(p.Slides))
	for i, s := range p.Slides {
		if !s.Background.Equal(locked) {
			s.Background = locked
			changed = true
		}
		slides[i] = s
	}
	if !changed {
		return p
	}
	p.Slides = slides
	return p
}
