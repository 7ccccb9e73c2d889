package telemetry

// Collector accumulates frame events within windows and produces WindowStats.
type Collector struct {
	windowFrames int64

	// Current window tracking
	windowStart int64

	// Event counters for current window
	frames        int
	merges        int
	shrinkingSum  int
	pointerFrames int
}

// NewCollector creates a new stats collector that flushes every windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{windowFrames: int64(windowFrames)}
}

// RecordFrame records the events of one frame.
func (c *Collector) RecordFrame(merges, shrinking int, pointerEngaged bool) {
	c.frames++
	c.merges += merges
	c.shrinkingSum += shrinking
	if pointerEngaged {
		c.pointerFrames++
	}
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(currentFrame int64) bool {
	return currentFrame-c.windowStart >= c.windowFrames
}

// Flush produces a WindowStats and resets counters for the next window.
// sizes holds the current radius of every live particle.
func (c *Collector) Flush(currentFrame int64, sizes []float64) WindowStats {
	var meanShrinking float64
	if c.frames > 0 {
		meanShrinking = float64(c.shrinkingSum) / float64(c.frames)
	}

	sz := ComputeSizeStats(sizes)
	stats := WindowStats{
		WindowStartFrame: c.windowStart,
		WindowEndFrame:   currentFrame,
		Frames:           c.frames,
		Population:       len(sizes),
		Merges:           c.merges,
		MeanShrinking:    meanShrinking,
		PointerFrames:    c.pointerFrames,
		SizeMean:         sz.Mean,
		SizeStd:          sz.Std,
		SizeP10:          sz.P10,
		SizeP50:          sz.P50,
		SizeP90:          sz.P90,
		SizeMax:          sz.Max,
	}

	// Reset for next window
	c.windowStart = currentFrame
	c.frames = 0
	c.merges = 0
	c.shrinkingSum = 0
	c.pointerFrames = 0

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int64 {
	return c.windowFrames
}
