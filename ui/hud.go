package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/enki-verse/enkiverse-website/systems"
	"github.com/enki-verse/enkiverse-website/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Particles int
	Tick      int64
	FPS       int32
	Merges    int
	Shrinking int
	Pointer   systems.PointerState
	Paused    bool
	Hidden    bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	x, y := r.Theme.Padding, r.Theme.Padding
	r.DrawPanel(x-5, y-5, 230, 120)

	rl.DrawText(data.Title, x, y, 18, rl.White)
	y += 24
	y = r.DrawLabelValue(x, y, "Particles", fmt.Sprintf("%d", data.Particles))
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d  (%d fps)", data.Tick, data.FPS))
	y = r.DrawLabelValue(x, y, "Frame", fmt.Sprintf("%d merged, %d shrinking", data.Merges, data.Shrinking))

	pointer := "outside"
	if data.Pointer.Defined {
		pointer = fmt.Sprintf("%.0f, %.0f", data.Pointer.X, data.Pointer.Y)
	}
	y = r.DrawLabelValue(x, y, "Pointer", pointer)

	switch {
	case data.Hidden:
		rl.DrawText("HIDDEN", x, y, 14, r.Theme.Warn)
	case data.Paused:
		rl.DrawText("PAUSED", x, y, 14, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, h.renderer.Theme.Padding, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-system frame timings.
type PerfPanel struct {
	renderer *Renderer
	registry *systems.SystemRegistry
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32, reg *systems.SystemRegistry) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), registry: reg, x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	x, y := p.x, p.y
	r.DrawPanel(x-5, y-5, 240, 40+int32(len(p.registry.All()))*r.Theme.LineHeight)

	y = r.DrawSectionHeader(x, y, fmt.Sprintf("Frame %s", stats.AvgTickDuration.Round(time.Microsecond)))
	for _, row := range PerfRows(stats, p.registry) {
		fill := r.Theme.BarFill
		if row.Pct > 50 {
			fill = r.Theme.Hot
		} else if row.Pct > 25 {
			fill = r.Theme.Warn
		}
		y = r.DrawBar(x, y, row.Name, float32(row.Pct/100), 150, fill)
	}
}
