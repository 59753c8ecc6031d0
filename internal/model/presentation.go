// Package model defines the presentation document: slides, backgrounds and
// elements, together with value equality, deep cloning and invariant checks.
package model

import "slices"

// Slide is one page of a presentation. Element order is z-order: later
// elements render on top.
type Slide struct {
	ID         string     `json:"id" yaml:"id"`
	Background Background `json:"background" yaml:"background"`
	Elements   []Element  `json:"elements" yaml:"elements"`
}

// Presentation is the root aggregate.
type Presentation struct {
	Title            string   `json:"title" yaml:"title"`
	Slides           []Slide  `json:"slides" yaml:"slides"`
	CurrentSlideID   string   `json:"currentSlideId,omitempty" yaml:"currentSlideId,omitempty"`
	SelectedSlideIDs []string `json:"selectedSlideIds,omitempty" yaml:"selectedSlideIds,omitempty"`
}

// NewPresentation returns a presentation with one empty slide.
func NewPresentation(title string, ids IDSource) Presentation {
	first := Slide{ID: ids.NewID(), Background: ColorBackground("#ffffff")}
	return Presentation{
		Title:          title,
		Slides:         []Slide{first},
		CurrentSlideID: first.ID,
	}
}

// SlideIndex returns the index of the slide with id, or -1.
func (p Presentation) SlideIndex(id string) int {
	return slices.IndexFunc(p.Slides, func(s Slide) bool { return s.ID == id })
}

// Slide returns the slide with id.
func (p Presentation) Slide(id string) (Slide, bool) {
	if i := p.SlideIndex(id); i >= 0 {
		return p.Slides[i], true
	}
	return Slide{}, false
}

// SlideIDs returns the slide ids in presentation order.
func (p Presentation) SlideIDs() []string {
	ids := make([]string, len(p.Slides))
	for i, s := range p.Slides {
		ids[i] = s.ID
	}
	return ids
}

// LockedBackground returns the first locked background carried by any slide.
func (p Presentation) LockedBackground() (Background, bool) {
	for _, s := range p.Slides {
		if s.Background.Locked {
			return s.Background, true
		}
	}
	return Background{}, false
}

// ElementIndex returns the index of the element with id, or -1.
func (s Slide) ElementIndex(id string) int {
	return slices.IndexFunc(s.Elements, func(e Element) bool { return e.ID == id })
}

// Element returns the element with id.
func (s Slide) Element(id string) (Element, bool) {
	if i := s.ElementIndex(id); i >= 0 {
		return s.Elements[i], true
	}
	return Element{}, false
}

// ElementIDs returns the element ids in z-order.
func (s Slide) ElementIDs() []string {
	ids := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		ids[i] = e.ID
	}
	return ids
}

// Clone returns a deep copy of the slide.
func (s Slide) Clone() Slide {
	c := s
	c.Elements = nil
	if s.Elements != nil {
		c.Elements = make([]Element, len(s.Elements))
		for i, e := range s.Elements {
			c.Elements[i] = e.Clone()
		}
	}
	return c
}

// Equal compares slides by value.
func (s Slide) Equal(o Slide) bool {
	return s.ID == o.ID &&
		s.Background.Equal(o.Background) &&
		slices.EqualFunc(s.Elements, o.Elements, Element.Equal)
}

// Clone returns a deep copy of the presentation. Mutating the copy never
// affects the original.
func (p Presentation) Clone() Presentation {
	c := p
	c.Slides = nil
	if p.Slides != nil {
		c.Slides = make([]Slide, len(p.Slides))
		for i, s := range p.Slides {
			c.Slides[i] = s.Clone()
		}
	}
	c.SelectedSlideIDs = slices.Clone(p.SelectedSlideIDs)
	return c
}

// Equal compares presentations by value. Nil and empty slices are equal.
func (p Presentation) Equal(o Presentation) bool {
	return p.Title == o.Title &&
		p.CurrentSlideID == o.CurrentSlideID &&
		slices.Equal(p.SelectedSlideIDs, o.SelectedSlideIDs) &&
		slices.EqualFunc(p.Slides, o.Slides, Slide.Equal)
}

// ContentEqual compares only the document content (title and slides),
// ignoring the navigation fields.
func (p Presentation) ContentEqual(o Presentation) bool {
	return p.Title == o.Title && slices.EqualFunc(p.Slides, o.Slides, Slide.Equal)
}
