// Package telemetry collects frame performance and population statistics.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame int64 `csv:"-"`
	WindowEndFrame   int64 `csv:"window_end"`
	Frames           int   `csv:"frames"`

	// Population at window end
	Population int `csv:"population"`

	// Events during window
	Merges        int     `csv:"merges"`
	MeanShrinking float64 `csv:"mean_shrinking"` // Average particles in the shrink zone per frame
	PointerFrames int     `csv:"pointer_frames"` // Frames with the pointer over the surface

	// Size distribution (sampled at window end)
	SizeMean float64 `csv:"size_mean"`
	SizeStd  float64 `csv:"size_std"`
	SizeP10  float64 `csv:"size_p10"`
	SizeP50  float64 `csv:"size_p50"`
	SizeP90  float64 `csv:"size_p90"`
	SizeMax  float64 `csv:"size_max"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// SizeStats summarizes a particle size distribution.
type SizeStats struct {
	Mean, Std, P10, P50, P90, Max float64
}

// ComputeSizeStats calculates mean, sample standard deviation, percentiles
// and maximum from size values.
func ComputeSizeStats(values []float64) SizeStats {
	n := len(values)
	if n == 0 {
		return SizeStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	s := SizeStats{
		Mean: stat.Mean(sorted, nil),
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
		Max:  floats.Max(sorted),
	}
	if n > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartFrame),
		slog.Int64("window_end", s.WindowEndFrame),
		slog.Int("frames", s.Frames),
		slog.Int("population", s.Population),
		slog.Int("merges", s.Merges),
		slog.Float64("mean_shrinking", s.MeanShrinking),
		slog.Int("pointer_frames", s.PointerFrames),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("size_std", s.SizeStd),
		slog.Float64("size_p10", s.SizeP10),
		slog.Float64("size_p50", s.SizeP50),
		slog.Float64("size_p90", s.SizeP90),
		slog.Float64("size_max", s.SizeMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
