package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/enki-verse/enkiverse-website/components"
)

type mergeFixture struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.Body]
	order  []ecs.Entity
}

func newMergeFixture() *mergeFixture {
	w := ecs.NewWorld()
	return &mergeFixture{
		world:  w,
		mapper: ecs.NewMap2[components.Position, components.Body](w),
	}
}

func (f *mergeFixture) add(x, y, size float64) ecs.Entity {
	e := f.mapper.NewEntity(
		&components.Position{X: x, Y: y},
		&components.Body{Size: size, BaseSize: size},
	)
	f.order = append(f.order, e)
	return e
}

func TestMergeLargerAbsorbsSmaller(t *testing.T) {
	f := newMergeFixture()
	big := f.add(0, 0, 5)
	small := f.add(7, 0, 3)

	s := NewMergeSystem(f.world, DefaultMaxMergeRadius)
	res := s.Update(f.order)

	if res.Merges != 1 {
		t.Errorf("merges = %d, want 1", res.Merges)
	}
	if len(res.Survivors) != 1 || res.Survivors[0] != big {
		t.Fatalf("survivors = %v, want only the larger particle", res.Survivors)
	}
	if len(res.Removed) != 1 || res.Removed[0] != small {
		t.Fatalf("removed = %v, want only the smaller particle", res.Removed)
	}

	pos, body := f.mapper.Get(big)
	if body.Size != 8 {
		t.Errorf("merged size = %v, want 8", body.Size)
	}
	if body.BaseSize != 5 {
		t.Errorf("base size = %v, want unchanged 5", body.BaseSize)
	}
	if pos.X != 0 || pos.Y != 0 {
		t.Errorf("merged position = %+v, want larger particle's (0, 0)", *pos)
	}
}

func TestMergeLaterIndexLarger(t *testing.T) {
	f := newMergeFixture()
	small := f.add(0, 0, 3)
	big := f.add(7, 0, 5)

	res := NewMergeSystem(f.world, DefaultMaxMergeRadius).Update(f.order)

	if len(res.Survivors) != 1 || res.Survivors[0] != big {
		t.Fatalf("survivors = %v, want the later, larger particle", res.Survivors)
	}
	if res.Removed[0] != small {
		t.Errorf("removed = %v, want the earlier, smaller particle", res.Removed)
	}
	_, body := f.mapper.Get(big)
	if body.Size != 8 {
		t.Errorf("merged size = %v, want 8", body.Size)
	}
}

func TestMergeEqualSizesKeepsFirst(t *testing.T) {
	f := newMergeFixture()
	first := f.add(0, 0, 4)
	f.add(1, 0, 4)

	res := NewMergeSystem(f.world, DefaultMaxMergeRadius).Update(f.order)
	if len(res.Survivors) != 1 || res.Survivors[0] != first {
		t.Fatalf("survivors = %v, want the first particle", res.Survivors)
	}
}

func TestMergeTouchingDoesNotMerge(t *testing.T) {
	f := newMergeFixture()
	f.add(0, 0, 5)
	f.add(8, 0, 3) // distance == sum of radii

	res := NewMergeSystem(f.world, DefaultMaxMergeRadius).Update(f.order)
	if res.Merges != 0 || len(res.Survivors) != 2 {
		t.Errorf("merges = %d, survivors = %d; want 0 and 2", res.Merges, len(res.Survivors))
	}
}

func TestMergeCap(t *testing.T) {
	f := newMergeFixture()
	big := f.add(0, 0, 70)
	f.add(10, 0, 60)

	res := NewMergeSystem(f.world, DefaultMaxMergeRadius).Update(f.order)
	if len(res.Survivors) != 1 {
		t.Fatalf("survivors = %d, want 1", len(res.Survivors))
	}
	_, body := f.mapper.Get(big)
	if body.Size != 100 {
		t.Errorf("merged size = %v, want cap 100", body.Size)
	}
}

func TestMergeChainUsesGrownSize(t *testing.T) {
	f := newMergeFixture()
	// a and c do not overlap at spawn (distance 11, radii 5+4), but a grows to
	// 8 after absorbing b, so the scan for a continues and reaches c
	a := f.add(0, 0, 5)
	f.add(3, 0, 3)
	f.add(11, 0, 4)

	res := NewMergeSystem(f.world, DefaultMaxMergeRadius).Update(f.order)
	if res.Merges != 2 {
		t.Errorf("merges = %d, want 2", res.Merges)
	}
	if len(res.Survivors) != 1 || res.Survivors[0] != a {
		t.Fatalf("survivors = %v, want only a", res.Survivors)
	}
	_, body := f.mapper.Get(a)
	if body.Size != 12 {
		t.Errorf("size = %v, want 12", body.Size)
	}
}

func TestMergeAbsorbedFirstStopsScan(t *testing.T) {
	f := newMergeFixture()
	small := f.add(0, 0, 2)
	big := f.add(3, 0, 6)
	far := f.add(50, 0, 2)

	res := NewMergeSystem(f.world, DefaultMaxMergeRadius).Update(f.order)
	if res.Merges != 1 {
		t.Errorf("merges = %d, want 1", res.Merges)
	}
	if len(res.Survivors) != 2 || res.Survivors[0] != big || res.Survivors[1] != far {
		t.Errorf("survivors = %v, want [big far] in spawn order", res.Survivors)
	}
	if len(res.Removed) != 1 || res.Removed[0] != small {
		t.Errorf("removed = %v, want [small]", res.Removed)
	}
}

func TestMergeNoneRemovedIsStable(t *testing.T) {
	f := newMergeFixture()
	for i := 0; i < 5; i++ {
		f.add(float64(i)*20, 0, 2)
	}
	want := append([]ecs.Entity(nil), f.order...)

	res := NewMergeSystem(f.world, DefaultMaxMergeRadius).Update(f.order)
	if len(res.Survivors) != len(want) {
		t.Fatalf("survivors = %d, want %d", len(res.Survivors), len(want))
	}
	for i := range want {
		if res.Survivors[i] != want[i] {
			t.Errorf("survivor %d = %v, want %v", i, res.Survivors[i], want[i])
		}
	}
}

func BenchmarkMergePass(b *testing.B) {
	f := newMergeFixture()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 80; i++ {
		f.add(rng.Float64()*1200, rng.Float64()*800, 0.01)
	}
	s := NewMergeSystem(f.world, DefaultMaxMergeRadius)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Update(f.order)
	}
}
