package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/enki-verse/enkiverse-website/components"
)

// PointerState is the last known pointer position in surface coordinates.
// Defined is false while the pointer is outside the window.
type PointerState struct {
	Defined bool
	X, Y    float64
}

// Zones holds the pointer interaction radii.
type Zones struct {
	Attract float64 // Inside this distance the particle is pushed by the pointer
	Shrink  float64 // Inside this distance (and Attract) the particle shrinks
}

// Rates holds the per-frame pointer interaction rates.
type Rates struct {
	Push   float64 // Fraction of the pointer delta subtracted from the position
	Shrink float64 // Size lost per frame in the shrink zone
	Regrow float64 // Size regained per frame outside it
}

// DefaultRates returns the rates of the hero background.
func DefaultRates() Rates {
	return Rates{
		Push:   0.01,
		Shrink: 0.5,
		Regrow: 0.1,
	}
}

// PointerSystem applies pointer proximity effects to particles.
type PointerSystem struct {
	filter *ecs.Filter2[components.Position, components.Body]
	rates  Rates
}

// NewPointerSystem creates a new pointer system.
func NewPointerSystem(w *ecs.World, rates Rates) *PointerSystem {
	return &PointerSystem{
		filter: ecs.NewFilter2[components.Position, components.Body](w),
		rates:  rates,
	}
}

// Update applies the pointer to every particle and returns how many are
// currently shrinking. Nothing happens while the pointer is undefined.
func (s *PointerSystem) Update(pointer PointerState, zones Zones) int {
	if !pointer.Defined {
		return 0
	}

	shrinking := 0
	query := s.filter.Query()
	for query.Next() {
		pos, body := query.Get()
		if Interact(pos, body, pointer, zones, s.rates) {
			shrinking++
		}
	}
	return shrinking
}

// Interact applies one frame of pointer interaction to a single particle and
// reports whether it is inside the shrink zone.
func Interact(pos *components.Position, body *components.Body, pointer PointerState, zones Zones, rates Rates) bool {
	if !pointer.Defined {
		return false
	}

	delta := r2.Sub(r2.Vec{X: pointer.X, Y: pointer.Y}, vec(pos))
	d := r2.Norm(delta)

	// The shrink zone only counts inside the attract zone
	shrinking := d < zones.Attract && d < zones.Shrink
	if shrinking {
		body.Shrink(rates.Shrink)
	} else {
		body.Regrow(rates.Regrow)
	}

	if d < zones.Attract {
		pos.X -= delta.X * rates.Push
		pos.Y -= delta.Y * rates.Push
	}
	return shrinking
}
