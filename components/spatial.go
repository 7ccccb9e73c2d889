package components

// Position represents a particle center in surface coordinates.
type Position struct {
	X, Y float64
}

// Velocity is the per-frame increment added to Position.
type Velocity struct {
	X, Y float64
}
