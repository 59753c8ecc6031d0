package mutation

import (
	"math"
	"slices"

	"github.com/bethropolis/deck/internal/logger"
	"github.com/bethropolis/deck/internal/model"
	"github.com/bethropolis/deck/internal/types"
)

// UpdateElement replaces the element with id by fn's result.
func UpdateElement(s model.Slide, id string, fn func(model.Element) model.Element) model.Slide {
	i := s.ElementIndex(id)
	if i < 0 {
		return s
	}
	next := fn(s.Elements[i])
	if next.Equal(s.Elements[i]) {
		return s
	}
	elements := slices.Clone(s.Elements)
	elements[i] = next
	s.Elements = elements
	return s
}

// updateText applies fn to a copy of the text props of a text element.
func updateText(s model.Slide, id string, fn func(*model.TextProps)) model.Slide {
	return UpdateElement(s, id, func(e model.Element) model.Element {
		if e.Kind != model.KindText || e.Text == nil {
			return e
		}
		t := *e.Text
		fn(&t)
		e.Text = &t
		return e
	})
}

func updateShape(s model.Slide, id string, fn func(*model.ShapeProps)) model.Slide {
	return UpdateElement(s, id, func(e model.Element) model.Element {
		if e.Kind != model.KindShape || e.Shape == nil {
			return e
		}
		sh := *e.Shape
		fn(&sh)
		e.Shape = &sh
		return e
	})
}

// AddElement appends e on top of the slide.
func AddElement(s model.Slide, e model.Element) model.Slide {
	if s.ElementIndex(e.ID) >= 0 {
		logger.Errorf("mutation: refusing duplicate element id '%s' on slide '%s'", e.ID, s.ID)
		return s
	}
	s.Elements = append(slices.Clip(s.Elements), e)
	return s
}

// AddText appends a default text element with the given id.
func AddText(s model.Slide, id string) model.Slide {
	return AddElement(s, model.NewText(id))
}

// AddImage appends a default image element.
func AddImage(s model.Slide, id, source string) model.Slide {
	return AddElement(s, model.NewImage(id, source))
}

// AddShape appends a default shape element of the given kind.
func AddShape(s model.Slide, id string, kind model.ShapeKind) model.Slide {
	return AddElement(s, model.NewShape(id, kind))
}

// RemoveElements drops every element named in ids.
func RemoveElements(s model.Slide, ids []string) model.Slide {
	set := toSet(ids)
	if !slices.ContainsFunc(s.Elements, func(e model.Element) bool { return set[e.ID] }) {
		return s
	}
	s.Elements = slices.DeleteFunc(slices.Clone(s.Elements), func(e model.Element) bool { return set[e.ID] })
	return s
}

func SetTextColor(s model.Slide, id, color string) model.Slide {
	return updateText(s, id, func(t *model.TextProps) { t.Color = color })
}

func SetTextBackground(s model.Slide, id, color string) model.Slide {
	return updateText(s, id, func(t *model.TextProps) { t.BackgroundColor = color })
}

// SetTextSize sets the font size; non-positive sizes are ignored.
func SetTextSize(s model.Slide, id string, size int) model.Slide {
	if size <= 0 {
		return s
	}
	return updateText(s, id, func(t *model.TextProps) { t.FontSize = size })
}

func SetTextAlignHorizontal(s model.Slide, id string, align model.HAlign) model.Slide {
	return updateText(s, id, func(t *model.TextProps) { t.HorizontalAlign = align })
}

func SetTextAlignVertical(s model.Slide, id string, align model.VAlign) model.Slide {
	return updateText(s, id, func(t *model.TextProps) { t.VerticalAlign = align })
}

// SetLineHeight sets the line height multiplier; non-positive and
// non-finite values are ignored.
func SetLineHeight(s model.Slide, id string, lineHeight float64) model.Slide {
	if lineHeight <= 0 || math.IsNaN(lineHeight) || math.IsInf(lineHeight, 0) {
		return s
	}
	return updateText(s, id, func(t *model.TextProps) { t.LineHeight = lineHeight })
}

// ToggleTextStyle flips one boolean text flag.
func ToggleTextStyle(s model.Slide, id string, style model.TextStyle) model.Slide {
	return updateText(s, id, func(t *model.TextProps) {
		switch style {
		case model.StyleBold:
			t.Bold = !t.Bold
		case model.StyleItalic:
			t.Italic = !t.Italic
		case model.StyleUnderline:
			t.Underline = !t.Underline
		}
	})
}

func SetFont(s model.Slide, id, family string) model.Slide {
	return updateText(s, id, func(t *model.TextProps) { t.FontFamily = family })
}

func SetTextContent(s model.Slide, id, content string) model.Slide {
	return updateText(s, id, func(t *model.TextProps) { t.Content = content })
}

func SetShapeFill(s model.Slide, id, color string) model.Slide {
	return updateShape(s, id, func(sh *model.ShapeProps) { sh.Fill = color })
}

func SetShapeStroke(s model.Slide, id, color string) model.Slide {
	return updateShape(s, id, func(sh *model.ShapeProps) { sh.StrokeColor = color })
}

// SetShapeStrokeWidth sets the stroke width; negative widths are ignored.
func SetShapeStrokeWidth(s model.Slide, id string, width int) model.Slide {
	if width < 0 {
		return s
	}
	return updateShape(s, id, func(sh *model.ShapeProps) { sh.StrokeWidth = width })
}

// SetImageSource points an image element at a new source.
func SetImageSource(s model.Slide, id, source string) model.Slide {
	return UpdateElement(s, id, func(e model.Element) model.Element {
		if e.Kind != model.KindImage || e.Image == nil {
			return e
		}
		e.Image = &model.ImageProps{Source: source}
		return e
	})
}

// SetShadow replaces the shadow of any element kind. nil clears it.
func SetShadow(s model.Slide, id string, shadow *model.Shadow) model.Slide {
	return UpdateElement(s, id, func(e model.Element) model.Element {
		e.Effects.Shadow = shadow
		return e
	})
}

func SetSmoothing(s model.Slide, id string, smoothing *model.Smoothing) model.Slide {
	return UpdateElement(s, id, func(e model.Element) model.Element {
		e.Effects.Smoothing = smoothing
		return e
	})
}

func SetReflection(s model.Slide, id string, reflection *model.Reflection) model.Slide {
	return UpdateElement(s, id, func(e model.Element) model.Element {
		e.Effects.Reflection = reflection
		return e
	})
}

// MoveElements translates every element named in ids by (dx, dy). An
// element whose new position would not be finite stays where it is.
func MoveElements(s model.Slide, ids []string, dx, dy float64) model.Slide {
	if dx == 0 && dy == 0 {
		return s
	}
	for _, id := range ids {
		s = UpdateElement(s, id, func(e model.Element) model.Element {
			if p := e.Position.Translate(dx, dy); p.Finite() {
				e.Position = p
			}
			return e
		})
	}
	return s
}

// ResizeElement sets the size of the element with id, clamped to at least
// types.MinElementExtent in each axis. Non-finite sizes are ignored.
func ResizeElement(s model.Slide, id string, size types.Size) model.Slide {
	if !size.Finite() {
		return s
	}
	return UpdateElement(s, id, func(e model.Element) model.Element {
		e.Size = size.Clamp()
		return e
	})
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
