package model

import "github.com/bethropolis/deck/internal/types"

// ElementKind discriminates the element variants.
type ElementKind string

const (
	KindText  ElementKind = "text"
	KindImage ElementKind = "image"
	KindShape ElementKind = "shape"
)

// ShapeKind is the geometric primitive drawn by a shape element.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeTriangle  ShapeKind = "triangle"
	ShapeLine      ShapeKind = "line"
	ShapeArrow     ShapeKind = "arrow"
	ShapeStar      ShapeKind = "star"
	ShapeDiamond   ShapeKind = "diamond"
)

// ShapeKinds lists every supported shape kind.
var ShapeKinds = []ShapeKind{
	ShapeRectangle, ShapeEllipse, ShapeTriangle, ShapeLine, ShapeArrow, ShapeStar, ShapeDiamond,
}

// HAlign is the horizontal text alignment.
type HAlign string

const (
	AlignLeft   HAlign = "left"
	AlignCenter HAlign = "center"
	AlignRight  HAlign = "right"
)

// VAlign is the vertical text alignment.
type VAlign string

const (
	AlignTop    VAlign = "top"
	AlignMiddle VAlign = "middle"
	AlignBottom VAlign = "bottom"
)

// TextStyle names a boolean text flag.
type TextStyle int

const (
	StyleBold TextStyle = iota
	StyleItalic
	StyleUnderline
)

// TextProps are the fields specific to text elements.
type TextProps struct {
	Content         string  `json:"content" yaml:"content"`
	FontFamily      string  `json:"fontFamily" yaml:"fontFamily"`
	FontSize        int     `json:"fontSize" yaml:"fontSize"`
	Color           string  `json:"color" yaml:"color"`
	HorizontalAlign HAlign  `json:"horizontalAlign" yaml:"horizontalAlign"`
	VerticalAlign   VAlign  `json:"verticalAlign" yaml:"verticalAlign"`
	LineHeight      float64 `json:"lineHeight" yaml:"lineHeight"`
	Bold            bool    `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic          bool    `json:"italic,omitempty" yaml:"italic,omitempty"`
	Underline       bool    `json:"underline,omitempty" yaml:"underline,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
}

// ShapeProps are the fields specific to shape elements.
type ShapeProps struct {
	Kind        ShapeKind `json:"kind" yaml:"kind"`
	Fill        string    `json:"fill" yaml:"fill"`
	StrokeColor string    `json:"strokeColor" yaml:"strokeColor"`
	StrokeWidth int       `json:"strokeWidth" yaml:"strokeWidth"`
}

// ImageProps are the fields specific to image elements.
type ImageProps struct {
	Source string `json:"source" yaml:"source"`
}

// Shadow, Smoothing and Reflection are visual effects. The engine never
// interprets them; it only replaces them wholesale from presets.
type Shadow struct {
	OffsetX float64 `json:"offsetX" yaml:"offsetX"`
	OffsetY float64 `json:"offsetY" yaml:"offsetY"`
	Blur    float64 `json:"blur" yaml:"blur"`
	Color   string  `json:"color" yaml:"color"`
}

type Smoothing struct {
	Radius float64 `json:"radius" yaml:"radius"`
	Factor float64 `json:"factor" yaml:"factor"`
}

type Reflection struct {
	Opacity  float64 `json:"opacity" yaml:"opacity"`
	Distance float64 `json:"distance" yaml:"distance"`
}

// Effects groups the optional visual effects of an element.
type Effects struct {
	Shadow     *Shadow     `json:"shadow,omitempty" yaml:"shadow,omitempty"`
	Smoothing  *Smoothing  `json:"smoothing,omitempty" yaml:"smoothing,omitempty"`
	Reflection *Reflection `json:"reflection,omitempty" yaml:"reflection,omitempty"`
}

// Element is one object on a slide. Exactly one of Text, Shape and Image is
// set, matching Kind.
//
// Elements reachable from an engine are shared between history snapshots, so
// the pointed-to props must never be written in place. Mutations copy the
// props they change.
type Element struct {
	ID       string         `json:"id" yaml:"id"`
	Kind     ElementKind    `json:"kind" yaml:"kind"`
	Position types.Position `json:"position" yaml:"position"`
	Size     types.Size     `json:"size" yaml:"size"`
	Effects  Effects        `json:"effects" yaml:"effects"`
	Text     *TextProps     `json:"text,omitempty" yaml:"text,omitempty"`
	Shape    *ShapeProps    `json:"shape,omitempty" yaml:"shape,omitempty"`
	Image    *ImageProps    `json:"image,omitempty" yaml:"image,omitempty"`
}

// NewText returns a text element with the editor's default styling.
func NewText(id string) Element {
	return Element{
		ID:       id,
		Kind:     KindText,
		Position: types.Position{X: 100, Y: 100},
		Size:     types.Size{Width: 300, Height: 60},
		Text: &TextProps{
			Content:         "Text",
			FontFamily:      "Arial",
			FontSize:        24,
			Color:           "#000000",
			HorizontalAlign: AlignLeft,
			VerticalAlign:   AlignTop,
			LineHeight:      1.2,
		},
	}
}

// DefaultImageSource is the placeholder shown by images added without a
// source.
const DefaultImageSource = "https://placehold.co/400x300?text=Image"

// NewImage returns an image element pointing at source.
func NewImage(id, source string) Element {
	if source == "" {
		source = DefaultImageSource
	}
	return Element{
		ID:       id,
		Kind:     KindImage,
		Position: types.Position{X: 150, Y: 150},
		Size:     types.Size{Width: 200, Height: 150},
		Image:    &ImageProps{Source: source},
	}
}

// NewShape returns a shape element of the given kind.
func NewShape(id string, kind ShapeKind) Element {
	return Element{
		ID:       id,
		Kind:     KindShape,
		Position: types.Position{X: 200, Y: 200},
		Size:     types.Size{Width: 150, Height: 150},
		Shape: &ShapeProps{
			Kind:        kind,
			Fill:        "#3b82f6",
			StrokeColor: "#000000",
			StrokeWidth: 0,
		},
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Clone returns a deep copy of the effects.
func (e Effects) Clone() Effects {
	return Effects{
		Shadow:     clonePtr(e.Shadow),
		Smoothing:  clonePtr(e.Smoothing),
		Reflection: clonePtr(e.Reflection),
	}
}

// Equal compares effects by value.
func (e Effects) Equal(o Effects) bool {
	return equalPtr(e.Shadow, o.Shadow) &&
		equalPtr(e.Smoothing, o.Smoothing) &&
		equalPtr(e.Reflection, o.Reflection)
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	c := e
	c.Effects = e.Effects.Clone()
	c.Text = clonePtr(e.Text)
	c.Shape = clonePtr(e.Shape)
	c.Image = clonePtr(e.Image)
	return c
}

// Equal compares elements by value.
func (e Element) Equal(o Element) bool {
	return e.ID == o.ID &&
		e.Kind == o.Kind &&
		e.Position == o.Position &&
		e.Size == o.Size &&
		e.Effects.Equal(o.Effects) &&
		equalPtr(e.Text, o.Text) &&
		equalPtr(e.Shape, o.Shape) &&
		equalPtr(e.Image, o.Image)
}
