package action

import (
	"slices"
	"strings"
)

// Verb is the first field of an action token.
type Verb string

// Separator delimits the verb and its parameters.
const Separator = ":"

// IDListSeparator delimits the ids of a list parameter.
const IDListSeparator = ","

const (
	VerbAddText              Verb = "ADD_TEXT"
	VerbAddImage             Verb = "ADD_IMAGE"
	VerbAddShape             Verb = "ADD_SHAPE"
	VerbTextColor            Verb = "TEXT_COLOR"
	VerbTextBackground       Verb = "TEXT_BACKGROUND"
	VerbShapeFill            Verb = "SHAPE_FILL"
	VerbShapeStroke          Verb = "SHAPE_STROKE"
	VerbSlideBackground      Verb = "SLIDE_BACKGROUND"
	VerbSlideBackgroundImage Verb = "SLIDE_BACKGROUND_IMAGE"
	VerbSlideBackgroundNone  Verb = "SLIDE_BACKGROUND_NONE"
	VerbTextSize             Verb = "TEXT_SIZE"
	VerbTextAlignHorizontal  Verb = "TEXT_ALIGN_HORIZONTAL"
	VerbTextAlignVertical    Verb = "TEXT_ALIGN_VERTICAL"
	VerbTextLineHeight       Verb = "TEXT_LINE_HEIGHT"
	VerbTextBold             Verb = "TEXT_BOLD"
	VerbTextItalic           Verb = "TEXT_ITALIC"
	VerbTextUnderline        Verb = "TEXT_UNDERLINE"
	VerbTextFont             Verb = "TEXT_FONT"
	VerbTextContent          Verb = "TEXT_CONTENT"
	VerbShapeStrokeWidth     Verb = "SHAPE_STROKE_WIDTH"
	VerbShapeSmoothing       Verb = "SHAPE_SMOOTHING"
	VerbTextShadow           Verb = "TEXT_SHADOW"
	VerbElementReflection    Verb = "ELEMENT_REFLECTION"
	VerbImageSource          Verb = "IMAGE_SOURCE"
	VerbBringToFront         Verb = "BRING_TO_FRONT"
	VerbSendToBack           Verb = "SEND_TO_BACK"
	VerbBringForward         Verb = "BRING_FORWARD"
	VerbSendBackward         Verb = "SEND_BACKWARD"
	VerbMove                 Verb = "MOVE"
	VerbResize               Verb = "RESIZE"
	VerbDeleteSelected       Verb = "DELETE_SELECTED"
	VerbDuplicateElements    Verb = "DUPLICATE_ELEMENTS"
	VerbDuplicateSlide       Verb = "DUPLICATE_SLIDE"
	VerbDeleteSlide          Verb = "DELETE_SLIDE"
	VerbMoveSlide            Verb = "MOVE_SLIDE"
	VerbReorderSlides        Verb = "REORDER_SLIDES"
	VerbCopy                 Verb = "COPY"
	VerbCut                  Verb = "CUT"
	VerbPaste                Verb = "PASTE"
	VerbDesignTheme          Verb = "DESIGN_THEME"
	VerbPresentationTitle    Verb = "PRESENTATION_TITLE"
	VerbUndo                 Verb = "UNDO"
	VerbRedo                 Verb = "REDO"
)

const (
	templatePrefix = "ADD_"
	templateSuffix = "_SLIDE"
)

// TemplateVerb returns the ADD_<NAME>_SLIDE verb for a template name.
func TemplateVerb(name string) Verb {
	return Verb(templatePrefix + strings.ToUpper(name) + templateSuffix)
}

// templateName extracts NAME from ADD_<NAME>_SLIDE.
func templateName(v Verb) (string, bool) {
	s := string(v)
	if len(s) <= len(templatePrefix)+len(templateSuffix) ||
		!strings.HasPrefix(s, templatePrefix) || !strings.HasSuffix(s, templateSuffix) {
		return "", false
	}
	return s[len(templatePrefix) : len(s)-len(templateSuffix)], true
}

// verbSpec describes how one verb's parameters are read. When freeText is
// set the last of maxParams parameters takes the rest of the token,
// separators included.
type verbSpec struct {
	minParams   int
	maxParams   int
	freeText    bool
	usage       string
	description string
	parse       func(p []string) (Command, error)
}

// Info documents one verb for help output.
type Info struct {
	Verb        Verb
	Usage       string
	Description string
}

// Verbs lists every fixed verb, sorted. Template verbs are not included;
// they are derived from the template registry.
func Verbs() []Info {
	out := make([]Info, 0, len(verbs))
	for v, spec := range verbs {
		out = append(out, Info{Verb: v, Usage: spec.usage, Description: spec.description})
	}
	slices.SortFunc(out, func(a, b Info) int { return strings.Compare(string(a.Verb), string(b.Verb)) })
	return out
}
