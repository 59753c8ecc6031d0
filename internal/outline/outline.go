// Package outline renders a read-only markdown summary of a presentation.
// It only ever sees snapshots and never changes the document.
package outline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/bethropolis/deck/internal/model"
	"github.com/bethropolis/deck/internal/utils"
)

// DefaultTextWidth is how many cells of text content an element line shows.
const DefaultTextWidth = 48

// Options tunes the outline.
type Options struct {
	TextWidth int  // truncation width for text content, 0 means DefaultTextWidth
	Geometry  bool // include position and size of each element
}

// Markdown returns the outline of p as markdown: one heading for the deck,
// one per slide, and a bullet per element in z-order (bottom first).
func Markdown(p model.Presentation, opts Options) string {
	if opts.TextWidth <= 0 {
		opts.TextWidth = DefaultTextWidth
	}

	var b strings.Builder
	title := p.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(p.Slides) == 0 {
		b.WriteString("_No slides._\n")
		return b.String()
	}

	for i, s := range p.Slides {
		fmt.Fprintf(&b, "## %d. Slide `%s`", i+1, s.ID)
		if s.ID == p.CurrentSlideID {
			b.WriteString(" (current)")
		}
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "- background: %s\n", describeBackground(s.Background))
		for _, e := range s.Elements {
			fmt.Fprintf(&b, "- %s\n", describeElement(e, opts))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func describeBackground(bg model.Background) string {
	var desc string
	switch bg.Kind {
	case model.BackgroundColor:
		desc = "color " + bg.Value
	case model.BackgroundImage:
		desc = fmt.Sprintf("image %s (%s, %s)", bg.Value, bg.SizeMode, bg.Position)
	default:
		desc = "none"
	}
	if bg.Locked {
		desc += " (theme)"
	}
	return desc
}

func describeElement(e model.Element, opts Options) string {
	var desc string
	switch {
	case e.Text != nil:
		desc = fmt.Sprintf("text `%s`: %q", e.ID, utils.Truncate(e.Text.Content, opts.TextWidth))
	case e.Shape != nil:
		desc = fmt.Sprintf("%s `%s`", e.Shape.Kind, e.ID)
	case e.Image != nil:
		desc = fmt.Sprintf("image `%s`: %s", e.ID, utils.Truncate(e.Image.Source, opts.TextWidth))
	default:
		desc = fmt.Sprintf("%s `%s`", e.Kind, e.ID)
	}
	if opts.Geometry {
		desc += fmt.Sprintf(" at (%g, %g) size %gx%g", e.Position.X, e.Position.Y, e.Size.Width, e.Size.Height)
	}
	return desc
}

// NewRenderer returns a function that renders markdown for a terminal using
// glamour, wrapping at width columns when width > 0.
func NewRenderer(width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}
