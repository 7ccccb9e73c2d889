// Field preview tool - interactive particle field tuning with sliders.
//
// Usage: go run ./cmd/fieldpreview [-config config.yaml]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/enki-verse/enkiverse-website/config"
	"github.com/enki-verse/enkiverse-website/field"
	"github.com/enki-verse/enkiverse-website/renderer"
	"github.com/enki-verse/enkiverse-website/systems"
	"github.com/enki-verse/enkiverse-website/telemetry"
	"github.com/enki-verse/enkiverse-website/ui"
)

const (
	windowWidth   = 1200
	windowHeight  = 720
	previewWidth  = 800
	previewHeight = 450
	panelWidth    = windowWidth - previewWidth - 30
)

// previewSurface draws into the preview render texture.
type previewSurface struct {
	*renderer.Window
}

func (previewSurface) Size() (int, int) { return previewWidth, previewHeight }

// slider describes one tunable field value.
type slider struct {
	label    string
	min, max float32
	format   string
	value    *float64
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	defaults := cfg.Field

	rl.InitWindow(windowWidth, windowHeight, "Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	target := rl.LoadRenderTexture(previewWidth, previewHeight)
	defer rl.UnloadRenderTexture(target)

	surface := previewSurface{renderer.NewWindow(color.NRGBA{A: 255})}
	sched := field.NewStepScheduler()
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	seed := int64(12345)

	build := func() *field.Field {
		f := field.New(surface, sched, field.ParamsFromConfig(cfg), rand.New(rand.NewSource(seed)), field.WithPerf(perf))
		f.Start()
		return f
	}
	f := build()

	sliders := []slider{
		{"Density (pixels per particle)", 2000, 40000, "%.0f", &cfg.Field.Density},
		{"Max speed", 0.1, 5, "%.2f", &cfg.Field.MaxSpeed},
		{"Attract divisor (width / n)", 20, 200, "%.0f", &cfg.Field.AttractDivisor},
		{"Shrink divisor (width / n)", 5, 100, "%.0f", &cfg.Field.ShrinkDivisor},
		{"Max merge radius", 10, 200, "%.0f", &cfg.Field.MaxMergeRadius},
		{"Edge alpha", 0, 1, "%.2f", &cfg.Field.EdgeAlpha},
	}

	perfPanel := ui.NewPerfPanel(15, previewHeight+30, systems.NewSystemRegistry())
	paused := false
	preview := rl.Rectangle{X: 10, Y: 10, Width: previewWidth, Height: previewHeight}
	hovering := false

	for !rl.WindowShouldClose() {
		// Pointer in preview coordinates
		mouse := rl.GetMousePosition()
		if rl.CheckCollisionPointRec(mouse, preview) {
			hovering = true
			f.PointerMove(float64(mouse.X-preview.X), float64(mouse.Y-preview.Y))
		} else if hovering {
			hovering = false
			f.PointerOut()
		}

		if !paused {
			rl.BeginTextureMode(target)
			sched.Step()
			surface.EndFrame()
			rl.EndTextureMode()
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Render textures are stored upside down
		rl.DrawTextureRec(target.Texture,
			rl.Rectangle{X: 0, Y: 0, Width: previewWidth, Height: -previewHeight},
			rl.Vector2{X: preview.X, Y: preview.Y}, rl.White)
		rl.DrawRectangleLinesEx(preview, 1, rl.DarkGray)

		merges, shrinking := f.LastFrame()
		g := f.Geometry()
		rl.DrawText(fmt.Sprintf("Particles: %d  Tick: %d  Merges: %d  Shrinking: %d",
			f.Count(), f.Tick(), merges, shrinking), 15, previewHeight+15, 14, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Attract r: %.1f  Shrink r: %.1f", g.AttractRadius, g.ShrinkRadius),
			15, windowHeight-25, 14, rl.DarkGray)
		perfPanel.Draw(perf.Stats())

		// Control panel
		panelX := float32(previewWidth + 20)
		panelY := float32(10)
		rl.DrawText("Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed := false
		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			cur := float32(*s.value)
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"", "", cur, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *s.value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if next != cur {
				*s.value = float64(next)
				changed = true
			}
			panelY += 35
		}
		if changed {
			f.Stop()
			f = build()
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reseed") {
			seed = int64(rl.GetRandomValue(0, 99999))
			f.Stop()
			f = build()
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			cfg.Field = defaults
			f.Stop()
			f = build()
		}
		panelY += 50

		// Output YAML
		snippet := fieldYAML(cfg.Field)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range strings.Split(snippet, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 12, rl.Gray)
			panelY += 14
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-25), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// fieldYAML renders the field section as it would appear in config.yaml.
func fieldYAML(fc config.FieldConfig) string {
	data, err := yaml.Marshal(map[string]config.FieldConfig{"field": fc})
	if err != nil {
		return "# " + err.Error()
	}
	return strings.TrimRight(string(data), "\n")
}
