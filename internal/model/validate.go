package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrDuplicateSlideID     = errors.New("duplicate slide id")
	ErrDuplicateElementID   = errors.New("duplicate element id")
	ErrDanglingCurrentSlide = errors.New("current slide does not exist")
	ErrKindMismatch         = errors.New("element props do not match kind")
	ErrEmptyID              = errors.New("empty id")
	ErrNonFinite            = errors.New("non-finite number")
)

// Validate checks the document invariants and returns every violation found,
// joined. A nil result means the document is consistent.
func Validate(p Presentation) error {
	var errs []error
	slideIDs := make(map[string]struct{}, len(p.Slides))
	for i, s := range p.Slides {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("slide %d: %w", i, ErrEmptyID))
		}
		if _, dup := slideIDs[s.ID]; dup {
			errs = append(errs, fmt.Errorf("slide '%s': %w", s.ID, ErrDuplicateSlideID))
		}
		slideIDs[s.ID] = struct{}{}

		elementIDs := make(map[string]struct{}, len(s.Elements))
		for j, e := range s.Elements {
			if e.ID == "" {
				errs = append(errs, fmt.Errorf("slide '%s' element %d: %w", s.ID, j, ErrEmptyID))
			}
			if _, dup := elementIDs[e.ID]; dup {
				errs = append(errs, fmt.Errorf("slide '%s' element '%s': %w", s.ID, e.ID, ErrDuplicateElementID))
			}
			elementIDs[e.ID] = struct{}{}
			if !propsMatchKind(e) {
				errs = append(errs, fmt.Errorf("slide '%s' element '%s' (%s): %w", s.ID, e.ID, e.Kind, ErrKindMismatch))
			}
			if field, ok := finiteElement(e); !ok {
				errs = append(errs, fmt.Errorf("slide '%s' element '%s' %s: %w", s.ID, e.ID, field, ErrNonFinite))
			}
		}
	}
	if p.CurrentSlideID != "" {
		if _, ok := slideIDs[p.CurrentSlideID]; !ok {
			errs = append(errs, fmt.Errorf("'%s': %w", p.CurrentSlideID, ErrDanglingCurrentSlide))
		}
	}
	return errors.Join(errs...)
}

func propsMatchKind(e Element) bool {
	switch e.Kind {
	case KindText:
		return e.Text != nil && e.Shape == nil && e.Image == nil
	case KindShape:
		return e.Shape != nil && e.Text == nil && e.Image == nil
	case KindImage:
		return e.Image != nil && e.Text == nil && e.Shape == nil
	default:
		return false
	}
}

// finiteElement reports the first numeric field of e that is NaN or
// infinite.
func finiteElement(e Element) (string, bool) {
	type field struct {
		name string
		v    []float64
	}
	fields := []field{
		{"position", []float64{e.Position.X, e.Position.Y}},
		{"size", []float64{e.Size.Width, e.Size.Height}},
	}
	if e.Text != nil {
		fields = append(fields, field{"lineHeight", []float64{e.Text.LineHeight}})
	}
	if sh := e.Effects.Shadow; sh != nil {
		fields = append(fields, field{"shadow", []float64{sh.OffsetX, sh.OffsetY, sh.Blur}})
	}
	if sm := e.Effects.Smoothing; sm != nil {
		fields = append(fields, field{"smoothing", []float64{sm.Radius, sm.Factor}})
	}
	if r := e.Effects.Reflection; r != nil {
		fields = append(fields, field{"reflection", []float64{r.Opacity, r.Distance}})
	}
	for _, f := range fields {
		for _, v := range f.v {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return f.name, false
			}
		}
	}
	return "", true
}
