// Package theme holds the design themes that DESIGN_THEME stamps onto every
// slide, and the colour parsing shared by all colour verbs.
package theme

import (
	"github.com/bethropolis/deck/internal/model"
)

// Theme is a named design theme. Applying it replaces every slide
// background with Background and locks it.
type Theme struct {
	Name        string
	Description string
	IsDark      bool
	Background  model.Background
}

// Builtins are compiled into the binary. Keys are the ids accepted by
// DESIGN_THEME.
var Builtins = []Theme{
	{
		Name:        "iron_man",
		Description: "Hot-rod red with a gold sheen",
		IsDark:      true,
		Background:  model.ColorBackground(MustParseColor("#b91c1c")),
	},
	{
		Name:        "ocean",
		Description: "Deep sea blue",
		IsDark:      true,
		Background:  model.ColorBackground(MustParseColor("#0e4a6e")),
	},
	{
		Name:        "forest",
		Description: "Muted pine green",
		IsDark:      true,
		Background:  model.ColorBackground(MustParseColor("forestgreen")),
	},
	{
		Name:        "midnight",
		Description: "Near-black navy for dark rooms",
		IsDark:      true,
		Background:  model.ColorBackground(MustParseColor("midnightblue")),
	},
	{
		Name:        "sunset",
		Description: "Warm orange",
		Background:  model.ColorBackground(MustParseColor("#f97316")),
	},
	{
		Name:        "paper",
		Description: "Off-white, print friendly",
		Background:  model.ColorBackground(MustParseColor("#faf7f0")),
	},
}
