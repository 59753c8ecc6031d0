// Package template holds the named slide layouts that ADD_<NAME>_SLIDE
// instantiates. Templates are prototypes: their ids are placeholders and
// callers re-mint them on every instantiation.
package template

import (
	"slices"
	"strings"

	"github.com/bethropolis/deck/internal/model"
	"github.com/bethropolis/deck/internal/types"
)

// Canvas is the slide coordinate space the layouts are drawn for.
var Canvas = types.Size{Width: 960, Height: 540}

// Template is a named slide prototype.
type Template struct {
	Name        string
	Description string
	Slide       model.Slide
}

// Registry maps upper-case template names to templates.
type Registry struct {
	templates map[string]Template
}

// NewRegistry returns a registry holding the built-in layouts.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[string]Template)}
	for _, t := range builtins() {
		r.Register(t)
	}
	return r
}

// Register adds or replaces a template.
func (r *Registry) Register(t Template) {
	r.templates[strings.ToUpper(t.Name)] = t
}

// Get returns the template named name (case-insensitive).
func (r *Registry) Get(name string) (Template, bool) {
	t, ok := r.templates[strings.ToUpper(name)]
	return t, ok
}

// Names returns the template names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// List returns every template sorted by name.
func (r *Registry) List() []Template {
	out := make([]Template, 0, len(r.templates))
	for _, name := range r.Names() {
		out = append(out, r.templates[name])
	}
	return out
}

type textOpt func(*model.TextProps)

func bold(t *model.TextProps)   { t.Bold = true }
func italic(t *model.TextProps) { t.Italic = true }
func centered(t *model.TextProps) {
	t.HorizontalAlign = model.AlignCenter
	t.VerticalAlign = model.AlignMiddle
}
func size(n int) textOpt { return func(t *model.TextProps) { t.FontSize = n } }
func color(c string) textOpt { return func(t *model.TextProps) { t.Color = c } }

func text(id string, x, y, w, h float64, content string, opts ...textOpt) model.Element {
	e := model.NewText(id)
	e.Position = types.Position{X: x, Y: y}
	e.Size = types.Size{Width: w, Height: h}
	props := *e.Text
	props.Content = content
	for _, opt := range opts {
		opt(&props)
	}
	e.Text = &props
	return e
}

func image(id string, x, y, w, h float64) model.Element {
	e := model.NewImage(id, model.DefaultImageSource)
	e.Position = types.Position{X: x, Y: y}
	e.Size = types.Size{Width: w, Height: h}
	return e
}

func line(id string, x, y, w float64) model.Element {
	e := model.NewShape(id, model.ShapeLine)
	e.Position = types.Position{X: x, Y: y}
	e.Size = types.Size{Width: w, Height: 4}
	props := *e.Shape
	props.StrokeWidth = 4
	props.StrokeColor = "#3b82f6"
	e.Shape = &props
	return e
}

func slide(elements ...model.Element) model.Slide {
	return model.Slide{
		ID:         "template",
		Background: model.ColorBackground("#ffffff"),
		Elements:   elements,
	}
}

func builtins() []Template {
	return []Template{
		{Name: "EMPTY", Description: "Blank slide", Slide: slide()},
		{
			Name:        "TITLE",
			Description: "Centered title and subtitle",
			Slide: slide(
				text("title", 80, 170, 800, 110, "Presentation Title", size(54), bold, centered),
				text("subtitle", 80, 300, 800, 60, "Subtitle", size(26), centered, color("#4b5563")),
			),
		},
		{
			Name:        "TITLE_CONTENT",
			Description: "Heading with a body text block",
			Slide: slide(
				text("title", 60, 40, 840, 80, "Slide Title", size(40), bold),
				text("body", 60, 140, 840, 340, "• First point\n• Second point\n• Third point", size(24)),
			),
		},
		{
			Name:        "SECTION",
			Description: "Section divider",
			Slide: slide(
				text("title", 80, 200, 800, 90, "Section", size(48), bold, centered),
				line("rule", 330, 300, 300),
			),
		},
		{
			Name:        "TWO_COLUMN",
			Description: "Heading with two text columns",
			Slide: slide(
				text("title", 60, 40, 840, 80, "Slide Title", size(40), bold),
				text("left", 60, 140, 400, 340, "Left column", size(22)),
				text("right", 500, 140, 400, 340, "Right column", size(22)),
			),
		},
		{
			Name:        "IMAGE",
			Description: "Heading with a large image",
			Slide: slide(
				text("title", 60, 30, 840, 70, "Slide Title", size(36), bold),
				image("image", 180, 120, 600, 360),
				text("caption", 180, 485, 600, 40, "Caption", size(16), italic, centered),
			),
		},
		{
			Name:        "QUOTE",
			Description: "Large quotation with attribution",
			Slide: slide(
				text("quote", 100, 140, 760, 200, "“Quote text”", size(36), italic, centered),
				text("author", 100, 360, 760, 50, "Author Name", size(22), centered, color("#4b5563")),
			),
		},
		{
			Name:        "COMPARISON",
			Description: "Two headed columns side by side",
			Slide: slide(
				text("title", 60, 30, 840, 70, "Comparison", size(40), bold),
				text("left-heading", 60, 120, 400, 50, "Option A", size(28), bold),
				text("left-body", 60, 180, 400, 300, "• Detail", size(20)),
				text("right-heading", 500, 120, 400, 50, "Option B", size(28), bold),
				text("right-body", 500, 180, 400, 300, "• Detail", size(20)),
			),
		},
	}
}
