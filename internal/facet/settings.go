package facet

import (
	"fmt"
	"math"

	"holopyramid/internal/geometry"
)

// Flips mirrors the drawn image. H scales local x and V scales local y.
type Flips struct {
	V bool `json:"v"`
	H bool `json:"h"`
}

// Settings are the per-image controls applied on top of the cached facet bases.
type Settings struct {
	ScalingFactor float64 `json:"scalingFactor"` // percent
	Rotation      float64 `json:"rotation"`      // degrees
	Position      float64 `json:"position"`      // pixels along the facet axis
	Flips         Flips   `json:"flips"`
	Brightness    float64 `json:"brightness"` // percent
}

// DefaultSettings is what a freshly added image starts with.
func DefaultSettings() Settings {
	return Settings{ScalingFactor: 100, Brightness: 100}
}

// WithDefaults fills unset percentages. Zero rotation, position and flips
// are already their defaults.
func (s Settings) WithDefaults() Settings {
	if s.ScalingFactor == 0 {
		s.ScalingFactor = 100
	}
	if s.Brightness == 0 {
		s.Brightness = 100
	}
	return s
}

// Scale returns ScalingFactor as a multiplier.
func (s Settings) Scale() float64 {
	return s.ScalingFactor / 100
}

// Validate rejects values that would poison the image transform.
func (s Settings) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"scalingFactor", s.ScalingFactor},
		{"rotation", s.Rotation},
		{"position", s.Position},
		{"brightness", s.Brightness},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("facet: %s %g: %w", f.name, f.v, geometry.ErrInvalidArgument)
		}
	}
	if s.ScalingFactor < 0 {
		return fmt.Errorf("facet: scalingFactor %g: %w", s.ScalingFactor, geometry.ErrInvalidArgument)
	}
	if s.Brightness < 0 {
		return fmt.Errorf("facet: brightness %g: %w", s.Brightness, geometry.ErrInvalidArgument)
	}
	return nil
}

// SettingsFor returns the settings of image idx, or defaults when the list is short.
func SettingsFor(all []Settings, idx int) Settings {
	if idx < 0 || idx >= len(all) {
		return DefaultSettings()
	}
	return all[idx].WithDefaults()
}
