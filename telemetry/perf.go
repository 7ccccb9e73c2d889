package telemetry

import (
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for one field frame. They match the system IDs in the
// systems registry so perf output lines up with registered systems.
const (
	PhaseMotion  = "motion"
	PhasePointer = "pointer"
	PhaseMerge   = "merge"
	PhaseDraw    = "draw"
)

// Phases lists the frame phases in execution order.
var Phases = []string{PhaseMotion, PhasePointer, PhaseMerge, PhaseDraw}

// frameTiming is one recorded frame. phases is indexed like the
// collector's phase list.
type frameTiming struct {
	total  time.Duration
	phases []time.Duration
}

// PerfCollector keeps per-phase timing of the last window frames and the
// intervals between presented frames. A nil *PerfCollector records nothing.
type PerfCollector struct {
	names []string
	slot  map[string]int

	frames []frameTiming
	next   int
	filled int

	current frameTiming
	begun   time.Time
	mark    time.Time
	active  int // slot of the running phase, -1 between phases

	presented   []float64 // seconds between RecordFrame calls
	nextPresent int
	presentN    int
	lastPresent time.Time
}

// NewPerfCollector averages over the last window frames (60 when window is
// not positive). Without phases it times the field phases.
func NewPerfCollector(window int, phases ...string) *PerfCollector {
	if window < 1 {
		window = 60
	}
	if len(phases) == 0 {
		phases = Phases
	}
	p := &PerfCollector{
		names:     phases,
		slot:      make(map[string]int, len(phases)),
		frames:    make([]frameTiming, window),
		current:   frameTiming{phases: make([]time.Duration, len(phases))},
		active:    -1,
		presented: make([]float64, window),
	}
	for i, name := range phases {
		p.slot[name] = i
	}
	for i := range p.frames {
		p.frames[i].phases = make([]time.Duration, len(phases))
	}
	return p
}

// StartTick opens a frame.
func (p *PerfCollector) StartTick() {
	if p == nil {
		return
	}
	p.begun = time.Now()
	p.mark = p.begun
	p.active = -1
	clear(p.current.phases)
}

// StartPhase closes the running phase and opens phase. A name the
// collector was not built with is not timed.
func (p *PerfCollector) StartPhase(phase string) {
	if p == nil {
		return
	}
	p.closePhase(time.Now())
	if i, ok := p.slot[phase]; ok {
		p.active = i
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.active >= 0 {
		p.current.phases[p.active] += now.Sub(p.mark)
	}
	p.mark = now
	p.active = -1
}

// EndTick closes the frame opened by StartTick and stores it, evicting the
// oldest frame once the window is full.
func (p *PerfCollector) EndTick() {
	if p == nil || p.begun.IsZero() {
		return
	}
	now := time.Now()
	p.closePhase(now)

	f := &p.frames[p.next]
	f.total = now.Sub(p.begun)
	copy(f.phases, p.current.phases)
	p.next = (p.next + 1) % len(p.frames)
	p.filled = min(p.filled+1, len(p.frames))
	p.begun = time.Time{}
}

// RecordFrame marks a presented frame. The interval to the previous mark
// feeds FrameDuration and FPS.
func (p *PerfCollector) RecordFrame() {
	if p == nil {
		return
	}
	now := time.Now()
	if !p.lastPresent.IsZero() {
		p.presented[p.nextPresent] = now.Sub(p.lastPresent).Seconds()
		p.nextPresent = (p.nextPresent + 1) % len(p.presented)
		p.presentN = min(p.presentN+1, len(p.presented))
	}
	p.lastPresent = now
}

// PerfStats summarizes the frames in the window.
type PerfStats struct {
	Frames          int
	AvgTickDuration time.Duration
	MaxTickDuration time.Duration
	TickJitter      time.Duration // Standard deviation of tick time

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // Share of the average tick, 0..100

	TicksPerSecond float64

	FrameDuration time.Duration // Mean interval between presented frames
	FPS           float64
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Stats summarizes the current window. The maps are never nil.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p == nil {
		return s
	}

	if p.presentN > 0 {
		mean := stat.Mean(p.presented[:p.presentN], nil)
		s.FrameDuration = seconds(mean)
		if mean > 0 {
			s.FPS = 1 / mean
		}
	}
	if p.filled == 0 {
		return s
	}

	ticks := make([]float64, p.filled)
	sums := make([]time.Duration, len(p.names))
	for i, f := range p.frames[:p.filled] {
		ticks[i] = f.total.Seconds()
		for j, d := range f.phases {
			sums[j] += d
		}
	}

	s.Frames = p.filled
	s.AvgTickDuration = seconds(stat.Mean(ticks, nil))
	s.MaxTickDuration = seconds(floats.Max(ticks))
	if p.filled > 1 {
		s.TickJitter = seconds(stat.StdDev(ticks, nil))
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}

	for j, name := range p.names {
		avg := sums[j] / time.Duration(p.filled)
		s.PhaseAvg[name] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}
	return s
}

// LogStats logs the summary at info level.
func (s PerfStats) LogStats() {
	attrs := []any{
		"frames", s.Frames,
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"jitter_us", s.TickJitter.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(math.Round(s.FPS)))
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct >= 0.1 {
			attrs = append(attrs, phase+"_pct", math.Round(pct*10)/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd   int64   `csv:"window_end"`
	Frames      int     `csv:"frames"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	JitterUS    int64   `csv:"jitter_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	FPS         float64 `csv:"fps"`
	MotionPct   float64 `csv:"motion_pct"`
	PointerPct  float64 `csv:"pointer_pct"`
	MergePct    float64 `csv:"merge_pct"`
	DrawPct     float64 `csv:"draw_pct"`
}

// ToCSV flattens s into a row ending at tick windowEnd.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		Frames:      s.Frames,
		AvgTickUS:   s.AvgTickDuration.Microseconds(),
		MaxTickUS:   s.MaxTickDuration.Microseconds(),
		JitterUS:    s.TickJitter.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
		FPS:         s.FPS,
		MotionPct:   s.PhasePct[PhaseMotion],
		PointerPct:  s.PhasePct[PhasePointer],
		MergePct:    s.PhasePct[PhaseMerge],
		DrawPct:     s.PhasePct[PhaseDraw],
	}
}
