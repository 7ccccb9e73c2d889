// Package components defines ECS components for field particles.
package components

import "image/color"

// Tint is the fixed palette color a particle is drawn with.
type Tint struct {
	Color color.NRGBA
}
