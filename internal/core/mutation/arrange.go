package mutation

import (
	"slices"

	"github.com/bethropolis/deck/internal/model"
)

// partition splits elements into the ones named in ids and the rest, keeping
// the relative order inside each group.
func partition(elements []model.Element, ids []string) (selected, other []model.Element) {
	set := toSet(ids)
	for _, e := range elements {
		if set[e.ID] {
			selected = append(selected, e)
		} else {
			other = append(other, e)
		}
	}
	return selected, other
}

func withOrder(s model.Slide, elements []model.Element) model.Slide {
	if slices.EqualFunc(s.Elements, elements, func(a, b model.Element) bool { return a.ID == b.ID }) {
		return s
	}
	s.Elements = elements
	return s
}

// BringToFront moves the named elements to the top of the z-order.
func BringToFront(s model.Slide, ids []string) model.Slide {
	selected, other := partition(s.Elements, ids)
	if len(selected) == 0 {
		return s
	}
	return withOrder(s, append(other, selected...))
}

// SendToBack moves the named elements to the bottom of the z-order.
func SendToBack(s model.Slide, ids []string) model.Slide {
	selected, other := partition(s.Elements, ids)
	if len(selected) == 0 {
		return s
	}
	return withOrder(s, append(selected, other...))
}

// BringForward raises each named element one step, skipping over
// neighbours that are themselves being raised.
func BringForward(s model.Slide, ids []string) model.Slide {
	set := toSet(ids)
	elements := slices.Clone(s.Elements)
	for i := len(elements) - 2; i >= 0; i-- {
		if set[elements[i].ID] && !set[elements[i+1].ID] {
			elements[i], elements[i+1] = elements[i+1], elements[i]
		}
	}
	return withOrder(s, elements)
}

// SendBackward lowers each named element one step.
func SendBackward(s model.Slide, ids []string) model.Slide {
	set := toSet(ids)
	elements := slices.Clone(s.Elements)
	for i := 1; i < len(elements); i++ {
		if set[elements[i].ID] && !set[elements[i-1].ID] {
			elements[i], elements[i-1] = elements[i-1], elements[i]
		}
	}
	return withOrder(s, elements)
}
