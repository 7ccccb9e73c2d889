package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/enki-verse/enkiverse-website/config"
	"github.com/enki-verse/enkiverse-website/field"
	"github.com/enki-verse/enkiverse-website/renderer"
	"github.com/enki-verse/enkiverse-website/systems"
	"github.com/enki-verse/enkiverse-website/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics into an offscreen raster")
	terminal := flag.Bool("terminal", false, "Render into the terminal")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshot := flag.String("snapshot", "", "Write the last headless frame to this .png or .svg file")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int64("max-frames", 0, "Stop after N frames (0 = unlimited)")
	width := flag.Int("width", 0, "Surface width (0 = use config)")
	height := flag.Int("height", 0, "Surface height (0 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *width > 0 {
		cfg.Screen.Width = *width
	}
	if *height > 0 {
		cfg.Screen.Height = *height
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	s, err := newSession(cfg, rngSeed, *outputDir, *logStats)
	if err != nil {
		slog.Error("failed to set up output", "error", err)
		os.Exit(1)
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *headless:
		err = runHeadless(ctx, s, *maxFrames, *snapshot)
	case *terminal:
		err = runTerminal(ctx, s, *maxFrames)
	default:
		runWindow(s, *maxFrames)
	}
	if err != nil {
		slog.Error("run failed", "error", err)
		s.close()
		os.Exit(1)
	}
}

// snapshotSurface is a surface that can be saved after the run.
type snapshotSurface interface {
	field.Surface
	save(path string) error
}

type rasterSnapshot struct{ *renderer.Raster }

func (r rasterSnapshot) save(path string) error { return r.SavePNG(path) }

type vectorSnapshot struct{ *renderer.Vector }

func (v vectorSnapshot) save(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	v.WriteSVG(out)
	return out.Close()
}

func runHeadless(ctx context.Context, s *session, maxFrames int64, snapshot string) error {
	w, h := s.cfg.Screen.Width, s.cfg.Screen.Height
	var surface snapshotSurface = rasterSnapshot{renderer.NewRaster(w, h, background)}
	if strings.EqualFold(filepath.Ext(snapshot), ".svg") {
		surface = vectorSnapshot{renderer.NewVector(w, h, background)}
	}

	sched := field.NewStepScheduler()
	f := s.newField(surface, sched)
	f.Start()

	slog.Info("starting headless field",
		"seed", s.seed,
		"width", w,
		"height", h,
		"particles", f.Count(),
		"max_frames", maxFrames,
	)

	for maxFrames == 0 || f.Tick() < maxFrames {
		if ctx.Err() != nil || sched.Step() == 0 {
			break
		}
	}
	f.Stop()
	slog.Info("headless field finished", "tick", f.Tick(), "particles", f.Count())

	if snapshot == "" {
		return nil
	}
	if err := surface.save(snapshot); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	slog.Info("snapshot written", "path", snapshot)
	return nil
}

func runTerminal(ctx context.Context, s *session, maxFrames int64) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	term := renderer.NewTerminal(screen)
	sched := field.NewStepScheduler()
	f := s.newField(term, sched)
	f.Start()
	term.Run(ctx, f, sched, s.cfg.Screen.TargetFPS, maxFrames, nil)
	f.Stop()
	return nil
}

// renderFrame runs poll and then at most one field frame. It reports
// whether the field drew, so callers must already be inside a drawing pass.
func renderFrame(f *field.Field, sched *field.StepScheduler, poll func()) bool {
	before := f.Tick()
	poll()
	if f.Tick() != before {
		return true
	}
	sched.Step()
	return f.Tick() != before
}

func runWindow(s *session, maxFrames int64) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(s.cfg.Screen.Width), int32(s.cfg.Screen.Height), "ENKIVERSE")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(s.cfg.Screen.TargetFPS))

	win := renderer.NewWindow(background)
	sched := field.NewStepScheduler()
	f := s.newField(win, sched)
	f.Start()
	defer f.Stop()

	input := &renderer.WindowInput{}
	hud := ui.NewHUD()
	perfPanel := ui.NewPerfPanel(10, 140, systems.NewSystemRegistry())
	showHUD := true

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyR) {
			f.Reinitialize()
		}
		if rl.IsKeyPressed(rl.KeyH) {
			showHUD = !showHUD
		}

		rl.BeginDrawing()
		// Showing the window again draws a frame from inside Poll
		if !renderFrame(f, sched, func() { input.Poll(f) }) {
			win.Clear()
		}
		win.EndFrame()

		if showHUD {
			merges, shrinking := f.LastFrame()
			hud.Draw(ui.HUDData{
				Title:     "ENKIVERSE",
				Particles: f.Count(),
				Tick:      f.Tick(),
				FPS:       rl.GetFPS(),
				Merges:    merges,
				Shrinking: shrinking,
				Pointer:   f.Pointer(),
				Hidden:    !f.Visible(),
			})
			perfPanel.Draw(s.perf.Stats())
			hud.DrawControls(int32(rl.GetScreenHeight()), "R: reseed | H: toggle HUD | Esc: quit")
		}
		rl.EndDrawing()

		if maxFrames > 0 && f.Tick() >= maxFrames {
			break
		}
	}
}
