package action

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/bethropolis/deck/internal/model"
	"github.com/bethropolis/deck/internal/theme"
)

var (
	ErrEmptyToken   = errors.New("empty action token")
	ErrUnknownVerb  = errors.New("unknown verb")
	ErrMissingParam = errors.New("missing parameter")
	ErrInvalidParam = errors.New("invalid parameter")
)

// BackgroundSizeModes are the accepted size modes of image backgrounds.
var BackgroundSizeModes = []string{"cover", "contain", "auto", "stretch"}

// Parse reads one action token. Verbs are case-insensitive; parameters are
// taken as given apart from surrounding space on non-text parameters.
func Parse(token string) (Command, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmptyToken
	}
	name, rest, hasParams := strings.Cut(token, Separator)
	verb := Verb(strings.ToUpper(strings.TrimSpace(name)))

	spec, ok := verbs[verb]
	if !ok {
		if tmpl, isTemplate := templateName(verb); isTemplate {
			return AddSlide{Template: tmpl}, nil
		}
		return nil, fmt.Errorf("%w '%s'", ErrUnknownVerb, name)
	}

	var params []string
	if hasParams && spec.maxParams > 0 {
		if spec.freeText {
			params = strings.SplitN(rest, Separator, spec.maxParams)
		} else {
			params = strings.Split(rest, Separator)
		}
	}
	if len(params) < spec.minParams {
		return nil, fmt.Errorf("%s: %w (usage %s)", verb, ErrMissingParam, spec.usage)
	}
	cmd, err := spec.parse(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", verb, err)
	}
	return cmd, nil
}

// MustParse is Parse for tokens known to be valid. It panics otherwise.
func MustParse(token string) Command {
	cmd, err := Parse(token)
	if err != nil {
		panic(err)
	}
	return cmd
}

func param(p []string, i int) string {
	if i < len(p) {
		return strings.TrimSpace(p[i])
	}
	return ""
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParam, fmt.Sprintf(format, args...))
}

func parseInt(s string, minValue int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalid("'%s' is not an integer", s)
	}
	if n < minValue {
		return 0, invalid("%d is below %d", n, minValue)
	}
	return n, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalid("'%s' is not a finite number", s)
	}
	return f, nil
}

func parsePositive(s string) (float64, error) {
	f, err := parseFloat(s)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, invalid("%s must be positive", s)
	}
	return f, nil
}

func parseColor(p []string, target ColorTarget) (Command, error) {
	c, err := theme.ParseColor(param(p, 0))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParam, err)
	}
	return SetColor{Target: target, Color: c}, nil
}

func colorVerb(target ColorTarget, what string) verbSpec {
	return verbSpec{
		minParams:   1,
		maxParams:   1,
		usage:       "color",
		description: "Set the " + what + " (#rgb, #rrggbb, a colour name or transparent)",
		parse:       func(p []string) (Command, error) { return parseColor(p, target) },
	}
}

func nullary(cmd Command, description string) verbSpec {
	return verbSpec{
		description: description,
		parse:       func([]string) (Command, error) { return cmd, nil },
	}
}

func effectVerb(effect EffectKind, what string, exists func(string) bool) verbSpec {
	return verbSpec{
		minParams:   1,
		maxParams:   1,
		usage:       "preset",
		description: "Apply a " + what + " preset to the selected element (none clears it)",
		parse: func(p []string) (Command, error) {
			key := strings.ToLower(param(p, 0))
			if !exists(key) {
				return nil, invalid("unknown %s preset '%s'", what, key)
			}
			return ApplyEffect{Effect: effect, Preset: key}, nil
		},
	}
}

func textVerb(description string, allowEmpty bool, build func(string) Command) verbSpec {
	return verbSpec{
		minParams:   1,
		maxParams:   1,
		freeText:    true,
		usage:       "text",
		description: description,
		parse: func(p []string) (Command, error) {
			if !allowEmpty && strings.TrimSpace(p[0]) == "" {
				return nil, invalid("empty value")
			}
			return build(p[0]), nil
		},
	}
}

func presetExists[T any](lookup func(string) (*T, bool)) func(string) bool {
	return func(key string) bool {
		_, ok := lookup(key)
		return ok
	}
}

var verbs = map[Verb]verbSpec{
	VerbAddText: nullary(AddElement{Kind: model.KindText}, "Add a text box to the current slide"),
	VerbAddImage: {
		maxParams:   1,
		freeText:    true,
		usage:       "[source]",
		description: "Add an image to the current slide",
		parse: func(p []string) (Command, error) {
			return AddElement{Kind: model.KindImage, Source: param(p, 0)}, nil
		},
	},
	VerbAddShape: {
		minParams:   1,
		maxParams:   1,
		usage:       "kind",
		description: "Add a shape (rectangle, ellipse, triangle, line, arrow, star, diamond)",
		parse: func(p []string) (Command, error) {
			kind := model.ShapeKind(strings.ToLower(param(p, 0)))
			if !slices.Contains(model.ShapeKinds, kind) {
				return nil, invalid("unknown shape '%s'", kind)
			}
			return AddElement{Kind: model.KindShape, Shape: kind}, nil
		},
	},

	VerbTextColor:       colorVerb(TargetTextColor, "text colour"),
	VerbTextBackground:  colorVerb(TargetTextBackground, "text highlight colour"),
	VerbShapeFill:       colorVerb(TargetShapeFill, "shape fill"),
	VerbShapeStroke:     colorVerb(TargetShapeStroke, "shape stroke colour"),
	VerbSlideBackground: colorVerb(TargetSlideBackground, "slide background colour"),

	VerbSlideBackgroundImage: {
		minParams:   3,
		maxParams:   3,
		freeText:    true,
		usage:       "sizeMode:position:source",
		description: "Use an image as the slide background",
		parse: func(p []string) (Command, error) {
			mode := strings.ToLower(param(p, 0))
			if !slices.Contains(BackgroundSizeModes, mode) {
				return nil, invalid("unknown size mode '%s'", mode)
			}
			source := strings.TrimSpace(p[2])
			if source == "" {
				return nil, invalid("empty image source")
			}
			return SetBackgroundImage{SizeMode: mode, Position: param(p, 1), Source: source}, nil
		},
	},
	VerbSlideBackgroundNone: nullary(ClearBackground{}, "Remove the slide background"),

	VerbTextSize: {
		minParams:   1,
		maxParams:   1,
		usage:       "points",
		description: "Set the font size",
		parse: func(p []string) (Command, error) {
			n, err := parseInt(param(p, 0), 1)
			if err != nil {
				return nil, err
			}
			return SetTextSize{Size: n}, nil
		},
	},
	VerbTextAlignHorizontal: {
		minParams:   1,
		maxParams:   1,
		usage:       "left|center|right",
		description: "Set horizontal text alignment",
		parse: func(p []string) (Command, error) {
			a := model.HAlign(strings.ToLower(param(p, 0)))
			switch a {
			case model.AlignLeft, model.AlignCenter, model.AlignRight:
				return SetHorizontalAlign{Align: a}, nil
			}
			return nil, invalid("unknown alignment '%s'", a)
		},
	},
	VerbTextAlignVertical: {
		minParams:   1,
		maxParams:   1,
		usage:       "top|middle|bottom",
		description: "Set vertical text alignment",
		parse: func(p []string) (Command, error) {
			a := model.VAlign(strings.ToLower(param(p, 0)))
			switch a {
			case model.AlignTop, model.AlignMiddle, model.AlignBottom:
				return SetVerticalAlign{Align: a}, nil
			}
			return nil, invalid("unknown alignment '%s'", a)
		},
	},
	VerbTextLineHeight: {
		minParams:   1,
		maxParams:   1,
		usage:       "multiplier",
		description: "Set the line height",
		parse: func(p []string) (Command, error) {
			f, err := parsePositive(param(p, 0))
			if err != nil {
				return nil, err
			}
			return SetLineHeight{LineHeight: f}, nil
		},
	},
	VerbTextBold:      nullary(ToggleStyle{Style: model.StyleBold}, "Toggle bold"),
	VerbTextItalic:    nullary(ToggleStyle{Style: model.StyleItalic}, "Toggle italic"),
	VerbTextUnderline: nullary(ToggleStyle{Style: model.StyleUnderline}, "Toggle underline"),
	VerbTextFont: textVerb("Set the font family", false, func(s string) Command {
		return SetFont{Family: strings.TrimSpace(s)}
	}),
	VerbTextContent: textVerb("Replace the text content", true, func(s string) Command {
		return SetTextContent{Content: s}
	}),

	VerbShapeStrokeWidth: {
		minParams:   1,
		maxParams:   1,
		usage:       "pixels",
		description: "Set the shape stroke width",
		parse: func(p []string) (Command, error) {
			n, err := parseInt(param(p, 0), 0)
			if err != nil {
				return nil, err
			}
			return SetStrokeWidth{Width: n}, nil
		},
	},
	VerbShapeSmoothing:    effectVerb(EffectSmoothing, "smoothing", presetExists(model.SmoothingPreset)),
	VerbTextShadow:        effectVerb(EffectShadow, "shadow", presetExists(model.ShadowPreset)),
	VerbElementReflection: effectVerb(EffectReflection, "reflection", presetExists(model.ReflectionPreset)),
	VerbImageSource: textVerb("Point the selected image at a new source", false, func(s string) Command {
		return SetImageSource{Source: strings.TrimSpace(s)}
	}),

	VerbBringToFront: nullary(Arrange{Op: ArrangeToFront}, "Move the selected elements to the top"),
	VerbSendToBack:   nullary(Arrange{Op: ArrangeToBack}, "Move the selected elements to the bottom"),
	VerbBringForward: nullary(Arrange{Op: ArrangeForward}, "Raise the selected elements one step"),
	VerbSendBackward: nullary(Arrange{Op: ArrangeBackward}, "Lower the selected elements one step"),
	VerbMove: {
		minParams:   2,
		maxParams:   2,
		usage:       "dx:dy",
		description: "Move the selected elements",
		parse: func(p []string) (Command, error) {
			dx, err := parseFloat(param(p, 0))
			if err != nil {
				return nil, err
			}
			dy, err := parseFloat(param(p, 1))
			if err != nil {
				return nil, err
			}
			return MoveSelected{DX: dx, DY: dy}, nil
		},
	},
	VerbResize: {
		minParams:   2,
		maxParams:   2,
		usage:       "width:height",
		description: "Resize the selected elements",
		parse: func(p []string) (Command, error) {
			w, err := parsePositive(param(p, 0))
			if err != nil {
				return nil, err
			}
			h, err := parsePositive(param(p, 1))
			if err != nil {
				return nil, err
			}
			return ResizeSelected{Width: w, Height: h}, nil
		},
	},

	VerbDeleteSelected:    nullary(DeleteSelected{}, "Delete the selected elements, or the selected slides"),
	VerbDuplicateElements: nullary(DuplicateElements{}, "Duplicate the selected elements"),
	VerbDuplicateSlide:    nullary(DuplicateSlide{}, "Duplicate the current slide"),
	VerbDeleteSlide:       nullary(DeleteSlide{}, "Delete the current slide"),
	VerbMoveSlide: {
		minParams:   1,
		maxParams:   1,
		usage:       "index",
		description: "Move the current slide to a zero-based position",
		parse: func(p []string) (Command, error) {
			n, err := parseInt(param(p, 0), 0)
			if err != nil {
				return nil, err
			}
			return MoveSlide{Index: n}, nil
		},
	},

	VerbReorderSlides: {
		minParams:   1,
		maxParams:   1,
		freeText:    true,
		usage:       "id,id,...",
		description: "Put the slides in the given order; every slide must be named once",
		parse: func(p []string) (Command, error) {
			var ids []string
			for _, id := range strings.Split(p[0], IDListSeparator) {
				if id = strings.TrimSpace(id); id != "" {
					ids = append(ids, id)
				}
			}
			if len(ids) == 0 {
				return nil, invalid("empty slide order")
			}
			return ReorderSlides{IDs: ids}, nil
		},
	},

	VerbCopy:  nullary(Clipboard{Op: ClipboardCopy}, "Copy the selected elements"),
	VerbCut:   nullary(Clipboard{Op: ClipboardCut}, "Cut the selected elements"),
	VerbPaste: nullary(Clipboard{Op: ClipboardPaste}, "Paste elements onto the current slide"),

	VerbDesignTheme: {
		minParams:   1,
		maxParams:   1,
		usage:       "theme",
		description: "Apply a design theme to every slide, locking the backgrounds",
		parse: func(p []string) (Command, error) {
			name := strings.ToLower(param(p, 0))
			if name == "" {
				return nil, invalid("empty theme name")
			}
			return ApplyTheme{Theme: name}, nil
		},
	},
	VerbPresentationTitle: textVerb("Rename the presentation", true, func(s string) Command {
		return SetTitle{Title: strings.TrimSpace(s)}
	}),

	VerbUndo: nullary(History{Op: HistoryUndo}, "Undo the last change"),
	VerbRedo: nullary(History{Op: HistoryRedo}, "Redo the last undone change"),
}
