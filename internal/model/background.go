package model

// BackgroundKind discriminates the background variants.
type BackgroundKind string

const (
	BackgroundNone  BackgroundKind = "none"
	BackgroundColor BackgroundKind = "color"
	BackgroundImage BackgroundKind = "image"
)

// Background is a slide background. Locked backgrounds come from a design
// theme and ignore plain recolouring.
type Background struct {
	Kind     BackgroundKind `json:"kind" yaml:"kind" toml:"kind"`
	Value    string         `json:"value,omitempty" yaml:"value,omitempty" toml:"value"`
	SizeMode string         `json:"sizeMode,omitempty" yaml:"sizeMode,omitempty" toml:"size_mode"`
	Position string         `json:"position,omitempty" yaml:"position,omitempty" toml:"position"`
	Locked   bool           `json:"isLocked,omitempty" yaml:"isLocked,omitempty" toml:"-"`
}

// ColorBackground returns an unlocked solid background.
func ColorBackground(value string) Background {
	return Background{Kind: BackgroundColor, Value: value}
}

// ImageBackground returns an unlocked image background.
func ImageBackground(source, sizeMode, position string) Background {
	return Background{Kind: BackgroundImage, Value: source, SizeMode: sizeMode, Position: position}
}

// NoBackground returns the empty background.
func NoBackground() Background {
	return Background{Kind: BackgroundNone}
}

// WithLock returns b with the lock flag set to locked.
func (b Background) WithLock(locked bool) Background {
	b.Locked = locked
	return b
}

// IsZero reports whether b is unset; an unset background behaves like none.
func (b Background) IsZero() bool {
	return b == Background{}
}

// Equal compares backgrounds by value, treating the zero value as none.
func (b Background) Equal(o Background) bool {
	return b.normalized() == o.normalized()
}

func (b Background) normalized() Background {
	if b.Kind == "" {
		b.Kind = BackgroundNone
	}
	return b
}
