// Package types holds the small geometry values shared by the document model
// and the mutation functions.
package types

import "math"

func finite(v ...float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Position is the top-left corner of an element in slide coordinates.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Translate returns p moved by (dx, dy).
func (p Position) Translate(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Finite reports whether both coordinates are real numbers.
func (p Position) Finite() bool { return finite(p.X, p.Y) }

// Size is the width and height of an element in slide coordinates.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Finite reports whether both extents are real numbers.
func (s Size) Finite() bool { return finite(s.Width, s.Height) }

// MinElementExtent is the smallest width or height an element may be resized to.
const MinElementExtent = 1

// Clamp returns s with both extents raised to at least MinElementExtent.
func (s Size) Clamp() Size {
	if s.Width < MinElementExtent {
		s.Width = MinElementExtent
	}
	if s.Height < MinElementExtent {
		s.Height = MinElementExtent
	}
	return s
}
