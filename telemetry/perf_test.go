package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseMotion)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseMerge)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.Frames != 5 {
		t.Errorf("Frames = %d, want 5", stats.Frames)
	}
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.MaxTickDuration < stats.AvgTickDuration {
		t.Errorf("max %v below avg %v", stats.MaxTickDuration, stats.AvgTickDuration)
	}
	for _, phase := range Phases {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("phase %q missing from PhaseAvg", phase)
		}
	}
	if stats.PhaseAvg[PhaseMerge] < 200*time.Microsecond {
		t.Errorf("merge avg = %v, want >= 200us", stats.PhaseAvg[PhaseMerge])
	}
	if stats.PhaseAvg[PhaseDraw] != 0 {
		t.Errorf("draw avg = %v, want 0 for an untimed phase", stats.PhaseAvg[PhaseDraw])
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(3)

	// One slow frame followed by enough fast frames to evict it
	pc.StartTick()
	pc.StartPhase(PhaseMotion)
	time.Sleep(5 * time.Millisecond)
	pc.EndTick()
	if got := pc.Stats().MaxTickDuration; got < 5*time.Millisecond {
		t.Fatalf("max = %v, want >= 5ms", got)
	}

	for i := 0; i < 3; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseMotion)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.Frames != 3 {
		t.Errorf("Frames = %d, want window size 3", stats.Frames)
	}
	if stats.MaxTickDuration >= 5*time.Millisecond {
		t.Errorf("max = %v, slow frame was not evicted", stats.MaxTickDuration)
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10, "fast", "slow")

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	fastPct, slowPct := stats.PhasePct["fast"], stats.PhasePct["slow"]
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
	if total := fastPct + slowPct; total > 100.0001 {
		t.Errorf("phase share = %v%%, want <= 100", total)
	}
	if _, ok := stats.PhasePct[PhaseMotion]; ok {
		t.Error("custom phases reported a default phase")
	}
}

func TestPerfCollector_UnknownPhaseNotTimed(t *testing.T) {
	pc := NewPerfCollector(4)

	pc.StartTick()
	pc.StartPhase(PhaseMotion)
	pc.StartPhase("idle")
	time.Sleep(2 * time.Millisecond)
	pc.EndTick()

	stats := pc.Stats()
	if _, ok := stats.PhaseAvg["idle"]; ok {
		t.Error("unknown phase was reported")
	}
	if stats.PhaseAvg[PhaseMotion] >= 2*time.Millisecond {
		t.Errorf("motion = %v, absorbed the untimed phase", stats.PhaseAvg[PhaseMotion])
	}
	if stats.AvgTickDuration < 2*time.Millisecond {
		t.Errorf("tick = %v, want the whole frame", stats.AvgTickDuration)
	}
}

func TestPerfCollector_EndTickWithoutStart(t *testing.T) {
	pc := NewPerfCollector(4)
	pc.EndTick()
	if got := pc.Stats().Frames; got != 0 {
		t.Errorf("Frames = %d, want 0", got)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 || stats.TickJitter != 0 || stats.Frames != 0 {
		t.Errorf("empty stats = %+v, want zero", stats)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	if got := pc.Stats().FPS; got != 0 {
		t.Errorf("FPS after one mark = %v, want 0", got)
	}
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	// Sleep overshoot on loaded machines lowers the rate, never raises it
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("FPS = %v, want (0, 70] for a 16ms frame", stats.FPS)
	}
}

func TestPerfCollector_NilSafe(t *testing.T) {
	var pc *PerfCollector

	pc.StartTick()
	pc.StartPhase(PhaseDraw)
	pc.EndTick()
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.AvgTickDuration != 0 || stats.PhasePct == nil {
		t.Errorf("nil collector stats = %+v, want zero with non-nil maps", stats)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		Frames:          30,
		AvgTickDuration: 2 * time.Millisecond,
		TickJitter:      250 * time.Microsecond,
		PhasePct: map[string]float64{
			PhaseMotion:  10,
			PhasePointer: 20,
			PhaseMerge:   30,
			PhaseDraw:    40,
		},
	}

	row := stats.ToCSV(120)
	if row.WindowEnd != 120 || row.Frames != 30 || row.AvgTickUS != 2000 || row.JitterUS != 250 {
		t.Errorf("row = %+v, want window_end 120, 30 frames, avg 2000us, jitter 250us", row)
	}
	if row.MotionPct != 10 || row.PointerPct != 20 || row.MergePct != 30 || row.DrawPct != 40 {
		t.Errorf("phase pct = %v/%v/%v/%v, want 10/20/30/40", row.MotionPct, row.PointerPct, row.MergePct, row.DrawPct)
	}
}
