package field

import (
	"image/color"

	"github.com/enki-verse/enkiverse-website/config"
	"github.com/enki-verse/enkiverse-website/systems"
)

// Params tunes a field.
type Params struct {
	Density        float64 // Surface pixels per particle
	MinRadius      float64
	MaxRadius      float64
	MaxSpeed       float64
	AttractDivisor float64
	ShrinkDivisor  float64
	Rates          systems.Rates
	MaxMergeRadius float64
	EdgeAlpha      float64 // Gradient alpha at the rim, 0..1
	Palette        []color.NRGBA
}

// White is the default particle color.
var White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// DefaultParams returns the hero background parameters.
func DefaultParams() Params {
	return Params{
		Density:        12000,
		MinRadius:      2,
		MaxRadius:      7,
		MaxSpeed:       1,
		AttractDivisor: 90,
		ShrinkDivisor:  25,
		Rates:          systems.DefaultRates(),
		MaxMergeRadius: systems.DefaultMaxMergeRadius,
		EdgeAlpha:      0.5,
		Palette:        []color.NRGBA{White},
	}
}

// ParamsFromConfig builds Params from the field config section.
func ParamsFromConfig(cfg *config.Config) Params {
	f := cfg.Field
	p := Params{
		Density:        f.Density,
		MinRadius:      f.MinRadius,
		MaxRadius:      f.MaxRadius,
		MaxSpeed:       f.MaxSpeed,
		AttractDivisor: f.AttractDivisor,
		ShrinkDivisor:  f.ShrinkDivisor,
		Rates: systems.Rates{
			Push:   f.PushFactor,
			Shrink: f.ShrinkRate,
			Regrow: f.RegrowRate,
		},
		MaxMergeRadius: f.MaxMergeRadius,
		EdgeAlpha:      f.EdgeAlpha,
		Palette:        cfg.Derived.Palette,
	}
	return p.normalized()
}

// normalized replaces unset or out of range values with defaults.
func (p Params) normalized() Params {
	d := DefaultParams()
	if p.Density <= 0 {
		p.Density = d.Density
	}
	if p.MaxSpeed <= 0 {
		p.MaxSpeed = d.MaxSpeed
	}
	if p.AttractDivisor <= 0 {
		p.AttractDivisor = d.AttractDivisor
	}
	if p.ShrinkDivisor <= 0 {
		p.ShrinkDivisor = d.ShrinkDivisor
	}
	if p.Rates == (systems.Rates{}) {
		p.Rates = d.Rates
	}
	if p.MaxRadius <= p.MinRadius {
		p.MinRadius, p.MaxRadius = d.MinRadius, d.MaxRadius
	}
	if p.MaxMergeRadius <= 0 {
		p.MaxMergeRadius = d.MaxMergeRadius
	}
	if p.EdgeAlpha < 0 || p.EdgeAlpha > 1 {
		p.EdgeAlpha = d.EdgeAlpha
	}
	if len(p.Palette) == 0 {
		p.Palette = d.Palette
	}
	return p
}
