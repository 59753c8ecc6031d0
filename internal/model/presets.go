package model

import "strings"

// PresetNone clears an effect.
const PresetNone = "none"

var shadowPresets = map[string]Shadow{
	"soft":   {OffsetX: 0, OffsetY: 2, Blur: 8, Color: "rgba(0,0,0,0.15)"},
	"medium": {OffsetX: 0, OffsetY: 4, Blur: 12, Color: "rgba(0,0,0,0.25)"},
	"hard":   {OffsetX: 4, OffsetY: 4, Blur: 0, Color: "rgba(0,0,0,0.6)"},
	"glow":   {OffsetX: 0, OffsetY: 0, Blur: 16, Color: "rgba(255,255,255,0.8)"},
	"long":   {OffsetX: 8, OffsetY: 8, Blur: 2, Color: "rgba(0,0,0,0.35)"},
}

var smoothingPresets = map[string]Smoothing{
	"slight":   {Radius: 4, Factor: 0.2},
	"rounded":  {Radius: 12, Factor: 0.6},
	"squircle": {Radius: 24, Factor: 1},
	"pill":     {Radius: 999, Factor: 1},
}

var reflectionPresets = map[string]Reflection{
	"subtle": {Opacity: 0.15, Distance: 2},
	"mirror": {Opacity: 0.4, Distance: 0},
	"far":    {Opacity: 0.25, Distance: 12},
}

// lookupPreset resolves key in table. "none" resolves to nil.
func lookupPreset[T any](table map[string]T, key string) (*T, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == PresetNone {
		return nil, true
	}
	v, ok := table[key]
	if !ok {
		return nil, false
	}
	return &v, true
}

// ShadowPreset returns the shadow for key; ok is false for unknown keys.
func ShadowPreset(key string) (*Shadow, bool) { return lookupPreset(shadowPresets, key) }

// SmoothingPreset returns the corner smoothing for key.
func SmoothingPreset(key string) (*Smoothing, bool) { return lookupPreset(smoothingPresets, key) }

// ReflectionPreset returns the reflection for key.
func ReflectionPreset(key string) (*Reflection, bool) { return lookupPreset(reflectionPresets, key) }
