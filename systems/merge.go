package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/enki-verse/enkiverse-website/components"
)

// DefaultMaxMergeRadius caps the size a particle can reach by merging.
const DefaultMaxMergeRadius = 100.0

// MergeResult reports the outcome of one merge pass.
type MergeResult struct {
	Survivors []ecs.Entity // Spawn order with absorbed particles removed
	Removed   []ecs.Entity // Absorbed particles, still alive in the world
	Merges    int
}

// MergeSystem merges overlapping particles.
// Absorbed particles are tombstoned during the scan and compacted out of the
// order afterwards; the caller removes them from the world.
type MergeSystem struct {
	positions *ecs.Map[components.Position]
	bodies    *ecs.Map[components.Body]
	maxRadius float64

	dead    []bool
	removed []ecs.Entity
}

// NewMergeSystem creates a new merge system.
func NewMergeSystem(w *ecs.World, maxRadius float64) *MergeSystem {
	if maxRadius <= 0 {
		maxRadius = DefaultMaxMergeRadius
	}
	return &MergeSystem{
		positions: ecs.NewMap[components.Position](w),
		bodies:    ecs.NewMap[components.Body](w),
		maxRadius: maxRadius,
	}
}

// Update scans every unordered pair (i < j) of order and merges those whose
// circles overlap. The larger (or equal) particle absorbs the smaller.
// order is compacted in place; the returned Survivors aliases it.
func (s *MergeSystem) Update(order []ecs.Entity) MergeResult {
	n := len(order)
	if cap(s.dead) < n {
		s.dead = make([]bool, n)
	}
	dead := s.dead[:n]
	for i := range dead {
		dead[i] = false
	}

	merges := 0
	for i := 0; i < n; i++ {
		if dead[i] {
			continue
		}
		pi := s.positions.Get(order[i])
		bi := s.bodies.Get(order[i])

		for j := i + 1; j < n; j++ {
			if dead[j] {
				continue
			}
			pj := s.positions.Get(order[j])
			bj := s.bodies.Get(order[j])

			if !Overlapping(pi, bi, pj, bj) {
				continue
			}
			merges++

			if bi.Size >= bj.Size {
				Absorb(bi, bj, s.maxRadius)
				dead[j] = true
				continue
			}
			// i was absorbed; nothing left of it to compare
			Absorb(bj, bi, s.maxRadius)
			dead[i] = true
			break
		}
	}

	s.removed = s.removed[:0]
	alive := 0
	for i, e := range order {
		if dead[i] {
			s.removed = append(s.removed, e)
			continue
		}
		order[alive] = e
		alive++
	}

	return MergeResult{
		Survivors: order[:alive],
		Removed:   s.removed,
		Merges:    merges,
	}
}

// Overlapping reports whether two particle circles overlap.
func Overlapping(pa *components.Position, ba *components.Body, pb *components.Position, bb *components.Body) bool {
	return Distance(pa, pb) < ba.Size+bb.Size
}

// Absorb adds the smaller body's size to the larger one, capped at maxRadius.
func Absorb(larger, smaller *components.Body, maxRadius float64) {
	larger.Size += smaller.Size
	if larger.Size > maxRadius {
		larger.Size = maxRadius
	}
}
