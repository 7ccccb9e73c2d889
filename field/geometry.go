package field

import (
	"math"

	"github.com/enki-verse/enkiverse-website/systems"
)

// Geometry is derived from the surface pixel size.
type Geometry struct {
	Width, Height float64
	AttractRadius float64
	ShrinkRadius  float64
}

// NewGeometry computes geometry for a surface. Divisors that are not positive
// fall back to 90 and 25.
func NewGeometry(width, height int, attractDivisor, shrinkDivisor float64) Geometry {
	if attractDivisor <= 0 {
		attractDivisor = 90
	}
	if shrinkDivisor <= 0 {
		shrinkDivisor = 25
	}
	w := float64(width)
	return Geometry{
		Width:         w,
		Height:        float64(height),
		AttractRadius: w / attractDivisor,
		ShrinkRadius:  w / shrinkDivisor,
	}
}

// Bounds returns the surface bounds used by the motion system.
func (g Geometry) Bounds() systems.Bounds {
	return systems.Bounds{Width: g.Width, Height: g.Height}
}

// Zones returns the pointer interaction radii.
func (g Geometry) Zones() systems.Zones {
	return systems.Zones{Attract: g.AttractRadius, Shrink: g.ShrinkRadius}
}

// PopulationCount returns floor(width*height/density), or 0 for an empty
// surface or a non-positive density.
func PopulationCount(width, height int, density float64) int {
	if width <= 0 || height <= 0 || density <= 0 {
		return 0
	}
	return int(math.Floor(float64(width) * float64(height) / density))
}
