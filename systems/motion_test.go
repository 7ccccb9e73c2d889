package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/enki-verse/enkiverse-website/components"
)

func TestMove(t *testing.T) {
	bounds := Bounds{Width: 100, Height: 50}

	tests := []struct {
		name    string
		pos     components.Position
		vel     components.Velocity
		wantPos components.Position
		wantVel components.Velocity
	}{
		{
			name:    "inside bounds",
			pos:     components.Position{X: 10, Y: 10},
			vel:     components.Velocity{X: 0.5, Y: -0.5},
			wantPos: components.Position{X: 10.5, Y: 9.5},
			wantVel: components.Velocity{X: 0.5, Y: -0.5},
		},
		{
			name:    "past right edge",
			pos:     components.Position{X: 101, Y: 10},
			vel:     components.Velocity{X: 0.5, Y: 0},
			wantPos: components.Position{X: 100.5, Y: 10},
			wantVel: components.Velocity{X: -0.5, Y: 0},
		},
		{
			name:    "past left edge",
			pos:     components.Position{X: -1, Y: 10},
			vel:     components.Velocity{X: -0.25, Y: 0},
			wantPos: components.Position{X: -0.75, Y: 10},
			wantVel: components.Velocity{X: 0.25, Y: 0},
		},
		{
			name:    "past bottom edge",
			pos:     components.Position{X: 10, Y: 51},
			vel:     components.Velocity{X: 0, Y: 1},
			wantPos: components.Position{X: 10, Y: 50},
			wantVel: components.Velocity{X: 0, Y: -1},
		},
		{
			// Bounce is checked before the increment: crossing starts this frame
			name:    "crossing this frame keeps direction",
			pos:     components.Position{X: 99.75, Y: 10},
			vel:     components.Velocity{X: 0.5, Y: 0},
			wantPos: components.Position{X: 100.25, Y: 10},
			wantVel: components.Velocity{X: 0.5, Y: 0},
		},
		{
			name:    "exactly on edge",
			pos:     components.Position{X: 100, Y: 0},
			vel:     components.Velocity{X: 1, Y: -1},
			wantPos: components.Position{X: 101, Y: -1},
			wantVel: components.Velocity{X: 1, Y: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, vel := tt.pos, tt.vel
			Move(&pos, &vel, bounds)
			if pos != tt.wantPos {
				t.Errorf("position = %+v, want %+v", pos, tt.wantPos)
			}
			if vel != tt.wantVel {
				t.Errorf("velocity = %+v, want %+v", vel, tt.wantVel)
			}
		})
	}
}

func TestMotionSystemUpdate(t *testing.T) {
	w := ecs.NewWorld()
	mapper := ecs.NewMap2[components.Position, components.Velocity](w)
	e := mapper.NewEntity(
		&components.Position{X: 201, Y: 20},
		&components.Velocity{X: 0.5, Y: 0.5},
	)

	s := NewMotionSystem(w)
	s.Update(Bounds{Width: 200, Height: 100})

	pos, vel := mapper.Get(e)
	if vel.X != -0.5 || vel.Y != 0.5 {
		t.Errorf("velocity = %+v, want {-0.5 0.5}", *vel)
	}
	if pos.X != 200.5 || pos.Y != 20.5 {
		t.Errorf("position = %+v, want {200.5 20.5}", *pos)
	}
}
