package core

import (
	"github.com/bethropolis/deck/internal/action"
	"github.com/bethropolis/deck/internal/core/mutation"
	"github.com/bethropolis/deck/internal/logger"
	"github.com/bethropolis/deck/internal/model"
	"github.com/bethropolis/deck/internal/theme"
	"github.com/bethropolis/deck/internal/types"
)

// target is the implicit target of a command: the current slide and the
// selected elements on it.
type target struct {
	slideID  string
	primary  string // first selected element, "" if none
	elements []string
	slides   []string
}

func (e *Engine) target() target {
	t := target{
		slideID:  e.selection.CurrentSlide(),
		elements: e.selection.SelectedElements(),
		slides:   e.selection.SelectedSlides(),
	}
	t.primary, _ = e.selection.PrimaryElementTarget()
	return t
}

// apply routes cmd to the mutation functions and returns the new document.
// The returned func, when not nil, updates the selection after the new
// document is installed; it only runs if the document changed.
func (e *Engine) apply(cmd action.Command) (model.Presentation, func()) {
	doc := e.doc
	t := e.target()

	onSlide := func(fn func(model.Slide) model.Slide) model.Presentation {
		if t.slideID == "" {
			logger.DebugTagf("dispatch", "dispatch: %s needs a current slide", cmd.Verb())
			return doc
		}
		return mutation.UpdateSlide(doc, t.slideID, fn)
	}
	onPrimary := func(fn func(s model.Slide, id string) model.Slide) model.Presentation {
		if t.primary == "" {
			logger.DebugTagf("dispatch", "dispatch: %s needs a selected element", cmd.Verb())
			return doc
		}
		return onSlide(func(s model.Slide) model.Slide { return fn(s, t.primary) })
	}
	onSelected := func(fn func(s model.Slide, ids []string) model.Slide) model.Presentation {
		if len(t.elements) == 0 {
			logger.DebugTagf("dispatch", "dispatch: %s needs selected elements", cmd.Verb())
			return doc
		}
		return onSlide(func(s model.Slide) model.Slide { return fn(s, t.elements) })
	}

	switch c := cmd.(type) {
	case action.AddElement:
		id := e.ids.NewID()
		var el model.Element
		switch c.Kind {
		case model.KindImage:
			el = model.NewImage(id, c.Source)
		case model.KindShape:
			el = model.NewShape(id, c.Shape)
		default:
			el = model.NewText(id)
		}
		return onSlide(func(s model.Slide) model.Slide { return mutation.AddElement(s, el) }),
			func() { e.selection.SelectElement(id) }

	case action.SetColor:
		return e.applyColor(c, onSlide, onPrimary), nil

	case action.SetBackgroundImage:
		bg := model.ImageBackground(c.Source, c.SizeMode, c.Position)
		return onSlide(func(s model.Slide) model.Slide { return mutation.ChangeBackground(s, bg) }), nil

	case action.ClearBackground:
		return onSlide(func(s model.Slide) model.Slide { return mutation.ChangeBackground(s, model.NoBackground()) }), nil

	case action.SetTextSize:
		return onPrimary(func(s model.Slide, id string) model.Slide { return mutation.SetTextSize(s, id, c.Size) }), nil

	case action.SetHorizontalAlign:
		return onPrimary(func(s model.Slide, id string) model.Slide {
			return mutation.SetTextAlignHorizontal(s, id, c.Align)
		}), nil

	case action.SetVerticalAlign:
		return onPrimary(func(s model.Slide, id string) model.Slide {
			return mutation.SetTextAlignVertical(s, id, c.Align)
		}), nil

	case action.SetLineHeight:
		return onPrimary(func(s model.Slide, id string) model.Slide {
			return mutation.SetLineHeight(s, id, c.LineHeight)
		}), nil

	case action.ToggleStyle:
		return onPrimary(func(s model.Slide, id string) model.Slide { return mutation.ToggleTextStyle(s, id, c.Style) }), nil

	case action.SetFont:
		return onPrimary(func(s model.Slide, id string) model.Slide { return mutation.SetFont(s, id, c.Family) }), nil

	case action.SetTextContent:
		return onPrimary(func(s model.Slide, id string) model.Slide { return mutation.SetTextContent(s, id, c.Content) }), nil

	case action.SetStrokeWidth:
		return onPrimary(func(s model.Slide, id string) model.Slide {
			return mutation.SetShapeStrokeWidth(s, id, c.Width)
		}), nil

	case action.ApplyEffect:
		return onPrimary(func(s model.Slide, id string) model.Slide { return applyEffect(s, id, c) }), nil

	case action.SetImageSource:
		return onPrimary(func(s model.Slide, id string) model.Slide { return mutation.SetImageSource(s, id, c.Source) }), nil

	case action.Arrange:
		return onSelected(func(s model.Slide, ids []string) model.Slide {
			switch c.Op {
			case action.ArrangeToBack:
				return mutation.SendToBack(s, ids)
			case action.ArrangeForward:
				return mutation.BringForward(s, ids)
			case action.ArrangeBackward:
				return mutation.SendBackward(s, ids)
			default:
				return mutation.BringToFront(s, ids)
			}
		}), nil

	case action.MoveSelected:
		return onSelected(func(s model.Slide, ids []string) model.Slide {
			return mutation.MoveElements(s, ids, c.DX, c.DY)
		}), nil

	case action.ResizeSelected:
		size := types.Size{Width: c.Width, Height: c.Height}
		return onSelected(func(s model.Slide, ids []string) model.Slide {
			for _, id := range ids {
				s = mutation.ResizeElement(s, id, size)
			}
			return s
		}), nil

	case action.DeleteSelected:
		if len(t.elements) > 0 {
			return onSelected(mutation.RemoveElements), func() { e.selection.ClearSelection() }
		}
		if len(t.slides) > 0 {
			return mutation.RemoveSlides(doc, t.slides), func() { e.selection.ClearSlideSelection() }
		}
		logger.DebugTagf("dispatch", "dispatch: nothing selected to delete")
		return doc, nil

	case action.DuplicateElements:
		var newIDs []string
		next := onSelected(func(s model.Slide, ids []string) model.Slide {
			var dup model.Slide
			dup, newIDs = mutation.DuplicateElements(s, ids, e.ids, e.duplicateOffset)
			return dup
		})
		return next, func() { e.selection.SelectMultipleElements(newIDs) }

	case action.DuplicateSlide:
		next, newID := mutation.DuplicateSlide(doc, t.slideID, e.ids)
		return next, func() { e.selection.SelectSlide(newID) }

	case action.DeleteSlide:
		return mutation.RemoveSlide(doc, t.slideID), nil

	case action.MoveSlide:
		return mutation.MoveSlide(doc, t.slideID, c.Index), nil
	case action.ReorderSlides:
		return mutation.ReorderSlides(doc, c.IDs), nil

	case action.Clipboard:
		return e.applyClipboard(c, t, doc, onSlide, onSelected)

	case action.ApplyTheme:
		th, ok := e.themes.Get(c.Theme)
		if !ok {
			logger.DebugTagf("dispatch", "dispatch: unknown theme '%s'", c.Theme)
			return doc, nil
		}
		return mutation.ApplyTheme(doc, th.Background), nil

	case action.SetTitle:
		return mutation.SetTitle(doc, c.Title), nil

	case action.AddSlide:
		return e.addSlideFromTemplate(doc, t.slideID, c.Template)

	case action.History:
		// Routed by Execute before apply is reached.
		return doc, nil

	default:
		logger.Errorf("dispatch: unhandled command type %T", cmd)
		return doc, nil
	}
}

func (e *Engine) applyColor(
	c action.SetColor,
	onSlide func(func(model.Slide) model.Slide) model.Presentation,
	onPrimary func(func(model.Slide, string) model.Slide) model.Presentation,
) model.Presentation {
	switch c.Target {
	case action.TargetSlideBackground:
		bg := model.ColorBackground(c.Color)
		if c.Color == theme.Transparent {
			bg = model.NoBackground()
		}
		return onSlide(func(s model.Slide) model.Slide { return mutation.ChangeBackground(s, bg) })
	case action.TargetTextBackground:
		return onPrimary(func(s model.Slide, id string) model.Slide { return mutation.SetTextBackground(s, id, c.Color) })
	case action.TargetShapeFill:
		return onPrimary(func(s model.Slide, id string) model.Slide { return mutation.SetShapeFill(s, id, c.Color) })
	case action.TargetShapeStroke:
		return onPrimary(func(s model.Slide, id string) model.Slide { return mutation.SetShapeStroke(s, id, c.Color) })
	default:
		return onPrimary(func(s model.Slide, id string) model.Slide { return mutation.SetTextColor(s, id, c.Color) })
	}
}

func applyEffect(s model.Slide, id string, c action.ApplyEffect) model.Slide {
	switch c.Effect {
	case action.EffectSmoothing:
		if p, ok := model.SmoothingPreset(c.Preset); ok {
			return mutation.SetSmoothing(s, id, p)
		}
	case action.EffectReflection:
		if p, ok := model.ReflectionPreset(c.Preset); ok {
			return mutation.SetReflection(s, id, p)
		}
	default:
		if p, ok := model.ShadowPreset(c.Preset); ok {
			return mutation.SetShadow(s, id, p)
		}
	}
	return s
}

func (e *Engine) applyClipboard(
	c action.Clipboard,
	t target,
	doc model.Presentation,
	onSlide func(func(model.Slide) model.Slide) model.Presentation,
	onSelected func(func(model.Slide, []string) model.Slide) model.Presentation,
) (model.Presentation, func()) {
	switch c.Op {
	case action.ClipboardPaste:
		if !e.slideExists(t.slideID) {
			return doc, nil
		}
		copies, newIDs := e.clipboard.Paste(e.ids, e.duplicateOffset)
		if len(copies) == 0 {
			return doc, nil
		}
		next := onSlide(func(s model.Slide) model.Slide {
			for _, el := range copies {
				s = mutation.AddElement(s, el)
			}
			return s
		})
		return next, func() { e.selection.SelectMultipleElements(newIDs) }

	default:
		s, ok := doc.Slide(t.slideID)
		if !ok || len(t.elements) == 0 {
			return doc, nil
		}
		var picked []model.Element
		for _, el := range s.Elements {
			for _, id := range t.elements {
				if el.ID == id {
					picked = append(picked, el)
				}
			}
		}
		cut := c.Op == action.ClipboardCut
		e.clipboard.Copy(picked, cut)
		if !cut {
			return doc, nil
		}
		return onSelected(mutation.RemoveElements), func() { e.selection.ClearSelection() }
	}
}

// addSlideFromTemplate inserts a fresh instance of the named template after
// the current slide. A locked theme background already on the deck replaces
// the template's own background so themes survive slide insertion.
func (e *Engine) addSlideFromTemplate(doc model.Presentation, currentID, name string) (model.Presentation, func()) {
	tmpl, ok := e.templates.Get(name)
	if !ok {
		logger.DebugTagf("dispatch", "dispatch: unknown slide template '%s'", name)
		return doc, nil
	}
	s := mutation.RemintIDs(tmpl.Slide, e.ids)
	if bg, locked := doc.LockedBackground(); locked {
		s.Background = bg
	}
	index := len(doc.Slides)
	if i := doc.SlideIndex(currentID); i >= 0 {
		index = i + 1
	}
	return mutation.InsertSlide(doc, index, s), func() { e.selection.SelectSlide(s.ID) }
}
