// Package action defines the action grammar: the compact VERB[:P1[:P2]]
// tokens that drive every document mutation, and the closed Command type
// they parse into.
package action

import (
	"strconv"
	"strings"

	"github.com/bethropolis/deck/internal/model"
)

// Command is a parsed action token. The set of implementations is closed;
// consumers switch over it exhaustively.
type Command interface {
	// Verb returns the wire verb of the command.
	Verb() Verb
	// String re-encodes the command as an action token.
	String() string
	command()
}

// ColorTarget names what a SetColor command recolours.
type ColorTarget int

const (
	TargetTextColor ColorTarget = iota
	TargetTextBackground
	TargetShapeFill
	TargetShapeStroke
	TargetSlideBackground
)

// EffectKind names the visual effect an ApplyEffect command replaces.
type EffectKind int

const (
	EffectShadow EffectKind = iota
	EffectSmoothing
	EffectReflection
)

// ArrangeOp is a z-order operation.
type ArrangeOp int

const (
	ArrangeToFront ArrangeOp = iota
	ArrangeToBack
	ArrangeForward
	ArrangeBackward
)

// ClipboardOp is a clipboard operation on the selected elements.
type ClipboardOp int

const (
	ClipboardCopy ClipboardOp = iota
	ClipboardCut
	ClipboardPaste
)

// HistoryOp is undo or redo.
type HistoryOp int

const (
	HistoryUndo HistoryOp = iota
	HistoryRedo
)

type (
	// AddElement appends a default element of Kind to the current slide.
	AddElement struct {
		Kind   model.ElementKind
		Shape  model.ShapeKind // shapes only
		Source string          // images only; empty means the placeholder
	}

	// SetColor recolours the primary element or the current slide. Color is
	// normalised #rrggbb or "transparent".
	SetColor struct {
		Target ColorTarget
		Color  string
	}

	// SetBackgroundImage gives the current slide an image background.
	SetBackgroundImage struct {
		SizeMode string
		Position string
		Source   string
	}

	// ClearBackground removes the current slide's background.
	ClearBackground struct{}

	SetTextSize struct{ Size int }

	SetHorizontalAlign struct{ Align model.HAlign }

	SetVerticalAlign struct{ Align model.VAlign }

	SetLineHeight struct{ LineHeight float64 }

	// ToggleStyle flips a boolean text flag.
	ToggleStyle struct{ Style model.TextStyle }

	SetFont struct{ Family string }

	SetTextContent struct{ Content string }

	SetStrokeWidth struct{ Width int }

	// ApplyEffect replaces one effect of the primary element with a named
	// preset; the "none" preset clears it.
	ApplyEffect struct {
		Effect EffectKind
		Preset string
	}

	SetImageSource struct{ Source string }

	// Arrange changes the z-order of every selected element.
	Arrange struct{ Op ArrangeOp }

	// MoveSelected translates every selected element.
	MoveSelected struct{ DX, DY float64 }

	// ResizeSelected sets the size of every selected element.
	ResizeSelected struct{ Width, Height float64 }

	// DeleteSelected removes the selected elements in element-mode, or the
	// selected slides in slide-mode.
	DeleteSelected struct{}

	// DuplicateElements copies the selected elements and selects the copies.
	DuplicateElements struct{}

	// DuplicateSlide copies the current slide and makes the copy current.
	DuplicateSlide struct{}

	// DeleteSlide removes the current slide.
	DeleteSlide struct{}

	// MoveSlide moves the current slide to a zero-based index.
	MoveSlide struct{ Index int }

	// ReorderSlides puts the slides in the given order, which must name
	// every slide exactly once.
	ReorderSlides struct{ IDs []string }

	Clipboard struct{ Op ClipboardOp }

	// ApplyTheme stamps a design theme's background on every slide, locked.
	ApplyTheme struct{ Theme string }

	SetTitle struct{ Title string }

	History struct{ Op HistoryOp }

	// AddSlide instantiates the named slide template after the current slide.
	AddSlide struct{ Template string }
)

func (AddElement) command()         {}
func (SetColor) command()           {}
func (SetBackgroundImage) command() {}
func (ClearBackground) command()    {}
func (SetTextSize) command()        {}
func (SetHorizontalAlign) command() {}
func (SetVerticalAlign) command()   {}
func (SetLineHeight) command()      {}
func (ToggleStyle) command()        {}
func (SetFont) command()            {}
func (SetTextContent) command()     {}
func (SetStrokeWidth) command()     {}
func (ApplyEffect) command()        {}
func (SetImageSource) command()     {}
func (Arrange) command()            {}
func (MoveSelected) command()       {}
func (ResizeSelected) command()     {}
func (DeleteSelected) command()     {}
func (DuplicateElements) command()  {}
func (DuplicateSlide) command()     {}
func (DeleteSlide) command()        {}
func (MoveSlide) command()          {}
func (ReorderSlides) command()      {}
func (Clipboard) command()          {}
func (ApplyTheme) command()         {}
func (SetTitle) command()           {}
func (History) command()            {}
func (AddSlide) command()           {}

func (c AddElement) Verb() Verb {
	switch c.Kind {
	case model.KindImage:
		return VerbAddImage
	case model.KindShape:
		return VerbAddShape
	default:
		return VerbAddText
	}
}

func (c SetColor) Verb() Verb {
	switch c.Target {
	case TargetTextBackground:
		return VerbTextBackground
	case TargetShapeFill:
		return VerbShapeFill
	case TargetShapeStroke:
		return VerbShapeStroke
	case TargetSlideBackground:
		return VerbSlideBackground
	default:
		return VerbTextColor
	}
}

func (SetBackgroundImage) Verb() Verb { return VerbSlideBackgroundImage }
func (ClearBackground) Verb() Verb    { return VerbSlideBackgroundNone }
func (SetTextSize) Verb() Verb        { return VerbTextSize }
func (SetHorizontalAlign) Verb() Verb { return VerbTextAlignHorizontal }
func (SetVerticalAlign) Verb() Verb   { return VerbTextAlignVertical }
func (SetLineHeight) Verb() Verb      { return VerbTextLineHeight }

func (c ToggleStyle) Verb() Verb {
	switch c.Style {
	case model.StyleItalic:
		return VerbTextItalic
	case model.StyleUnderline:
		return VerbTextUnderline
	default:
		return VerbTextBold
	}
}

func (SetFont) Verb() Verb        { return VerbTextFont }
func (SetTextContent) Verb() Verb { return VerbTextContent }
func (SetStrokeWidth) Verb() Verb { return VerbShapeStrokeWidth }

func (c ApplyEffect) Verb() Verb {
	switch c.Effect {
	case EffectSmoothing:
		return VerbShapeSmoothing
	case EffectReflection:
		return VerbElementReflection
	default:
		return VerbTextShadow
	}
}

func (SetImageSource) Verb() Verb { return VerbImageSource }

func (c Arrange) Verb() Verb {
	switch c.Op {
	case ArrangeToBack:
		return VerbSendToBack
	case ArrangeForward:
		return VerbBringForward
	case ArrangeBackward:
		return VerbSendBackward
	default:
		return VerbBringToFront
	}
}

func (MoveSelected) Verb() Verb      { return VerbMove }
func (ResizeSelected) Verb() Verb    { return VerbResize }
func (DeleteSelected) Verb() Verb    { return VerbDeleteSelected }
func (DuplicateElements) Verb() Verb { return VerbDuplicateElements }
func (DuplicateSlide) Verb() Verb    { return VerbDuplicateSlide }
func (DeleteSlide) Verb() Verb       { return VerbDeleteSlide }
func (MoveSlide) Verb() Verb         { return VerbMoveSlide }
func (ReorderSlides) Verb() Verb     { return VerbReorderSlides }

func (c Clipboard) Verb() Verb {
	switch c.Op {
	case ClipboardCut:
		return VerbCut
	case ClipboardPaste:
		return VerbPaste
	default:
		return VerbCopy
	}
}

func (ApplyTheme) Verb() Verb { return VerbDesignTheme }
func (SetTitle) Verb() Verb   { return VerbPresentationTitle }

func (c History) Verb() Verb {
	if c.Op == HistoryRedo {
		return VerbRedo
	}
	return VerbUndo
}

// Verb returns the synthetic ADD_<NAME>_SLIDE verb for the template.
func (c AddSlide) Verb() Verb { return TemplateVerb(c.Template) }

func encode(v Verb, params ...string) string {
	if len(params) == 0 {
		return string(v)
	}
	return string(v) + Separator + strings.Join(params, Separator)
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func (c AddElement) String() string {
	switch c.Kind {
	case model.KindShape:
		return encode(c.Verb(), string(c.Shape))
	case model.KindImage:
		if c.Source != "" {
			return encode(c.Verb(), c.Source)
		}
	}
	return encode(c.Verb())
}

func (c SetColor) String() string { return encode(c.Verb(), c.Color) }
func (c SetBackgroundImage) String() string {
	return encode(c.Verb(), c.SizeMode, c.Position, c.Source)
}
func (c ClearBackground) String() string    { return encode(c.Verb()) }
func (c SetTextSize) String() string        { return encode(c.Verb(), strconv.Itoa(c.Size)) }
func (c SetHorizontalAlign) String() string { return encode(c.Verb(), string(c.Align)) }
func (c SetVerticalAlign) String() string   { return encode(c.Verb(), string(c.Align)) }
func (c SetLineHeight) String() string      { return encode(c.Verb(), formatFloat(c.LineHeight)) }
func (c ToggleStyle) String() string        { return encode(c.Verb()) }
func (c SetFont) String() string            { return encode(c.Verb(), c.Family) }
func (c SetTextContent) String() string     { return encode(c.Verb(), c.Content) }
func (c SetStrokeWidth) String() string     { return encode(c.Verb(), strconv.Itoa(c.Width)) }
func (c ApplyEffect) String() string        { return encode(c.Verb(), c.Preset) }
func (c SetImageSource) String() string     { return encode(c.Verb(), c.Source) }
func (c Arrange) String() string            { return encode(c.Verb()) }
func (c MoveSelected) String() string {
	return encode(c.Verb(), formatFloat(c.DX), formatFloat(c.DY))
}
func (c ResizeSelected) String() string {
	return encode(c.Verb(), formatFloat(c.Width), formatFloat(c.Height))
}
func (c DeleteSelected) String() string    { return encode(c.Verb()) }
func (c DuplicateElements) String() string { return encode(c.Verb()) }
func (c DuplicateSlide) String() string    { return encode(c.Verb()) }
func (c DeleteSlide) String() string       { return encode(c.Verb()) }
func (c MoveSlide) String() string         { return encode(c.Verb(), strconv.Itoa(c.Index)) }
func (c ReorderSlides) String() string     { return encode(c.Verb(), strings.Join(c.IDs, IDListSeparator)) }
func (c Clipboard) String() string         { return encode(c.Verb()) }
func (c ApplyTheme) String() string        { return encode(c.Verb(), c.Theme) }
func (c SetTitle) String() string          { return encode(c.Verb(), c.Title) }
func (c History) String() string           { return encode(c.Verb()) }
func (c AddSlide) String() string          { return encode(c.Verb()) }
