package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/enki-verse/enkiverse-website/components"
)

var testZones = Zones{Attract: 20, Shrink: 10}

func TestInteractUndefinedPointer(t *testing.T) {
	pos := components.Position{X: 5, Y: 5}
	body := components.Body{Size: 2, BaseSize: 4}

	if Interact(&pos, &body, PointerState{}, testZones, DefaultRates()) {
		t.Error("undefined pointer should never shrink")
	}
	if body.Size != 2 {
		t.Errorf("size = %v, want unchanged 2", body.Size)
	}
	if pos.X != 5 || pos.Y != 5 {
		t.Errorf("position = %+v, want unchanged", pos)
	}
}

func TestInteractShrinkToZero(t *testing.T) {
	pointer := PointerState{Defined: true, X: 0, Y: 0}
	pos := components.Position{X: 3, Y: 0}
	body := components.Body{Size: 2.2, BaseSize: 2.2}
	rates := DefaultRates()

	prev := body.Size
	reachedZero := false
	for frame := 0; frame < 40; frame++ {
		if !Interact(&pos, &body, pointer, testZones, rates) {
			t.Fatalf("frame %d: particle at distance %v left the shrink zone", frame, pos.X)
		}
		if body.Size < 0 {
			t.Fatalf("frame %d: size went negative: %v", frame, body.Size)
		}
		if reachedZero {
			if body.Size != 0 {
				t.Fatalf("frame %d: size = %v after reaching zero, want 0", frame, body.Size)
			}
			continue
		}
		if body.Size >= prev {
			t.Fatalf("frame %d: size %v did not decrease from %v", frame, body.Size, prev)
		}
		if body.Size == 0 {
			reachedZero = true
		}
		prev = body.Size
	}
	if !reachedZero {
		t.Error("size never reached zero")
	}
	if body.BaseSize != 2.2 {
		t.Errorf("base size changed to %v", body.BaseSize)
	}
}

func TestInteractPushSubtractsDelta(t *testing.T) {
	pointer := PointerState{Defined: true, X: 10, Y: 0}
	pos := components.Position{X: 0, Y: 0}
	body := components.Body{Size: 3, BaseSize: 3}

	Interact(&pos, &body, pointer, Zones{Attract: 20, Shrink: 5}, DefaultRates())

	// delta = pointer - particle = (10, 0); 1% of it is subtracted
	if math.Abs(pos.X+0.1) > 1e-12 || pos.Y != 0 {
		t.Errorf("position = %+v, want {-0.1 0}", pos)
	}
}

func TestInteractRegrowCapped(t *testing.T) {
	tests := []struct {
		name  string
		pos   components.Position
		zones Zones
	}{
		{"outside attract zone", components.Position{X: 100, Y: 0}, Zones{Attract: 20, Shrink: 10}},
		{"attract zone outside shrink zone", components.Position{X: 15, Y: 0}, Zones{Attract: 20, Shrink: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pointer := PointerState{Defined: true}
			pos := tt.pos
			body := components.Body{Size: 4.05, BaseSize: 4.5}

			prev := body.Size
			for frame := 0; frame < 20; frame++ {
				Interact(&pos, &body, pointer, tt.zones, DefaultRates())
				if body.Size > body.BaseSize {
					t.Fatalf("frame %d: size %v overshot base %v", frame, body.Size, body.BaseSize)
				}
				if prev < body.BaseSize && body.Size <= prev {
					t.Fatalf("frame %d: size %v did not increase from %v", frame, body.Size, prev)
				}
				prev = body.Size
			}
			if body.Size != body.BaseSize {
				t.Errorf("size = %v, want exactly %v", body.Size, body.BaseSize)
			}
		})
	}
}

func TestPointerSystemCountsShrinking(t *testing.T) {
	w := ecs.NewWorld()
	mapper := ecs.NewMap2[components.Position, components.Body](w)
	near := mapper.NewEntity(&components.Position{X: 1, Y: 1}, &components.Body{Size: 3, BaseSize: 3})
	mapper.NewEntity(&components.Position{X: 500, Y: 500}, &components.Body{Size: 3, BaseSize: 3})

	s := NewPointerSystem(w, DefaultRates())
	if got := s.Update(PointerState{}, testZones); got != 0 {
		t.Errorf("undefined pointer: shrinking = %d, want 0", got)
	}

	got := s.Update(PointerState{Defined: true}, testZones)
	if got != 1 {
		t.Errorf("shrinking = %d, want 1", got)
	}
	_, body := mapper.Get(near)
	if body.Size != 2.5 {
		t.Errorf("near size = %v, want 2.5", body.Size)
	}
}
