// Package systems contains the per-frame ECS systems of the particle field.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/enki-verse/enkiverse-website/components"
)

// Bounds represents the drawing surface bounds.
type Bounds struct {
	Width, Height float64
}

// MotionSystem bounces particles off the surface edges and advances them.
type MotionSystem struct {
	filter *ecs.Filter2[components.Position, components.Velocity]
}

// NewMotionSystem creates a new motion system.
func NewMotionSystem(w *ecs.World) *MotionSystem {
	return &MotionSystem{
		filter: ecs.NewFilter2[components.Position, components.Velocity](w),
	}
}

// Update runs the motion system over every particle.
func (s *MotionSystem) Update(bounds Bounds) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel := query.Get()
		Move(pos, vel, bounds)
	}
}

// Move applies one frame of motion to a single particle.
// The edge test uses the position from before this frame's increment, so a
// particle that crosses a bound is drawn outside it for one frame before
// turning around.
func Move(pos *components.Position, vel *components.Velocity, bounds Bounds) {
	if pos.X > bounds.Width || pos.X < 0 {
		vel.X = -vel.X
	}
	if pos.Y > bounds.Height || pos.Y < 0 {
		vel.Y = -vel.Y
	}

	pos.X += vel.X
	pos.Y += vel.Y
}
