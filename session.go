package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"

	"github.com/enki-verse/enkiverse-website/config"
	"github.com/enki-verse/enkiverse-website/field"
	"github.com/enki-verse/enkiverse-website/telemetry"
)

var background = color.NRGBA{A: 255}

// session wires the telemetry shared by every front end.
type session struct {
	cfg      *config.Config
	seed     int64
	logStats bool

	perf  *telemetry.PerfCollector
	stats *telemetry.Collector
	out   *telemetry.OutputManager
}

func newSession(cfg *config.Config, seed int64, outputDir string, logStats bool) (*session, error) {
	out, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return nil, err
	}
	if err := out.WriteConfig(cfg); err != nil {
		out.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}
	return &session{
		cfg:      cfg,
		seed:     seed,
		logStats: logStats,
		perf:     telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		stats:    telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		out:      out,
	}, nil
}

// newField builds a field on surface driven by sched.
func (s *session) newField(surface field.Surface, sched field.Scheduler) *field.Field {
	return field.New(surface, sched, field.ParamsFromConfig(s.cfg), rand.New(rand.NewSource(s.seed)),
		field.WithPerf(s.perf),
		field.WithStats(s.stats, s.flush),
	)
}

func (s *session) flush(ws telemetry.WindowStats) {
	perf := s.perf.Stats()
	if s.logStats {
		ws.LogStats()
		perf.LogStats()
	}
	if err := s.out.WriteTelemetry(ws); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.out.WritePerf(perf, ws.WindowEndFrame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

func (s *session) close() {
	if err := s.out.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
