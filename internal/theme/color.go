package theme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Transparent is the keyword for "no colour", accepted wherever a colour is.
const Transparent = "transparent"

// ErrInvalidColor is returned for strings that are neither a hex code nor a
// known colour name.
var ErrInvalidColor = errors.New("invalid color")

// ParseColor normalises a colour given as #rgb, #rrggbb or a W3C/X11 colour
// name to lower-case #rrggbb. "transparent" and "none" map to Transparent.
func ParseColor(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return "", fmt.Errorf("empty string: %w", ErrInvalidColor)
	case Transparent, "none":
		return Transparent, nil
	}

	if strings.HasPrefix(s, "#") && len(s) == 4 {
		// #rgb -> #rrggbb
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	if strings.HasPrefix(s, "#") && len(s) != 7 {
		return "", fmt.Errorf("'%s' must be #rgb or #rrggbb: %w", s, ErrInvalidColor)
	}

	c := tcell.GetColor(s)
	if c == tcell.ColorDefault || !c.Valid() {
		return "", fmt.Errorf("unknown color '%s': %w", s, ErrInvalidColor)
	}
	hex := c.Hex()
	if hex < 0 {
		return "", fmt.Errorf("color '%s' has no RGB value: %w", s, ErrInvalidColor)
	}
	return fmt.Sprintf("#%06x", hex), nil
}

// MustParseColor is ParseColor for compile-time constants.
func MustParseColor(s string) string {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
