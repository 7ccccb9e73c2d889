package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/enki-verse/enkiverse-website/components"
)

// vec converts a position to a gonum vector.
func vec(p *components.Position) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Distance returns the distance between two particle centers.
func Distance(a, b *components.Position) float64 {
	return r2.Norm(r2.Sub(vec(a), vec(b)))
}
