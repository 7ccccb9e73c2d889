package components

// Body holds the radius of a particle.
// BaseSize is the radius at spawn and never changes afterwards; Size is
// mutated by shrinking, regrowth and merging and is never negative.
type Body struct {
	Size     float64
	BaseSize float64
}

// Regrow moves Size toward BaseSize by rate without overshooting.
// Bodies already at or above BaseSize are left untouched.
func (b *Body) Regrow(rate float64) {
	if b.Size >= b.BaseSize {
		return
	}
	b.Size += rate
	if b.Size > b.BaseSize {
		b.Size = b.BaseSize
	}
}

// Shrink reduces Size by rate, floored at zero.
func (b *Body) Shrink(rate float64) {
	b.Size -= rate
	if b.Size < 0 {
		b.Size = 0
	}
}
