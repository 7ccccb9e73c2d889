// Package renderer provides surfaces and frame schedulers the particle field
// can paint onto: raylib windows, software rasters, SVG documents, terminals
// and, under js/wasm, an HTML canvas.
package renderer

import (
	"image/color"
	"math"

	"github.com/enki-verse/enkiverse-website/field"
)

// rgbaF is a non-premultiplied color with channels in [0, 1].
type rgbaF struct {
	r, g, b, a float64
}

func fromNRGBA(c color.NRGBA) rgbaF {
	return rgbaF{
		r: float64(c.R) / 255,
		g: float64(c.G) / 255,
		b: float64(c.B) / 255,
		a: float64(c.A) / 255,
	}
}

func (c rgbaF) nrgba() color.NRGBA {
	return color.NRGBA{R: to8(c.r), G: to8(c.g), B: to8(c.b), A: to8(c.a)}
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// lerp interpolates between a and b, t in [0, 1].
func lerp(a, b rgbaF, t float64) rgbaF {
	return rgbaF{
		r: a.r + (b.r-a.r)*t,
		g: a.g + (b.g-a.g)*t,
		b: a.b + (b.b-a.b)*t,
		a: a.a + (b.a-a.a)*t,
	}
}

// radial samples a two-stop radial gradient at distance d of radius r.
func radial(inner, outer rgbaF, d, r float64) rgbaF {
	if r <= 0 {
		return inner
	}
	return lerp(inner, outer, math.Min(d/r, 1))
}

// composite blends src over dst using the canvas separable blend model:
// the blend function applies where the backdrop is opaque and plain
// source-over elsewhere.
func composite(mode field.CompositeMode, dst, src rgbaF) rgbaF {
	as, ab := src.a, dst.a
	ao := as + ab*(1-as)
	if ao == 0 {
		return rgbaF{}
	}
	ch := func(cb, cs float64) float64 {
		mix := cs
		if mode == field.CompositeDifference {
			mix = math.Abs(cb - cs)
		}
		cs = (1-ab)*cs + ab*mix
		return (as*cs + (1-as)*ab*cb) / ao
	}
	return rgbaF{
		r: ch(dst.r, src.r),
		g: ch(dst.g, src.g),
		b: ch(dst.b, src.b),
		a: ao,
	}
}
