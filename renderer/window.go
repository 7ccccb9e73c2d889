//go:build !js

package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/enki-verse/enkiverse-website/field"
)

// OpenGL blend factors. Exclusion (src*(1-dst) + dst*(1-src)) is the closest
// fixed-function match to canvas difference; they agree on black and white.
const (
	glOneMinusDstColor = 0x0307
	glOneMinusSrcColor = 0x0301
	glFuncAdd          = 0x8006
)

// Window is a surface over the current raylib window. Draw calls must happen
// between rl.BeginDrawing and rl.EndDrawing; call EndFrame before
// rl.EndDrawing to close any blend mode opened by SetComposite.
type Window struct {
	background rl.Color
	blending   bool
}

// NewWindow creates a window surface. The raylib window must already exist.
func NewWindow(background color.NRGBA) *Window {
	return &Window{background: toRL(background)}
}

// Size implements field.Surface.
func (w *Window) Size() (int, int) {
	return int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
}

// Clear implements field.Surface.
func (w *Window) Clear() {
	rl.ClearBackground(w.background)
}

// SetComposite implements field.Surface.
func (w *Window) SetComposite(mode field.CompositeMode) {
	if w.blending {
		rl.EndBlendMode()
		w.blending = false
	}
	if mode == field.CompositeDifference {
		rl.SetBlendFactors(glOneMinusDstColor, glOneMinusSrcColor, glFuncAdd)
		rl.BeginBlendMode(rl.BlendCustom)
		w.blending = true
	}
}

// FillRadial implements field.Surface.
func (w *Window) FillRadial(x, y, r float64, inner, outer color.NRGBA) {
	if r <= 0 {
		return
	}
	rl.DrawCircleGradient(int32(x), int32(y), float32(r), toRL(inner), toRL(outer))
}

// EndFrame closes the blend mode so overlays draw normally.
func (w *Window) EndFrame() {
	if w.blending {
		rl.EndBlendMode()
		w.blending = false
	}
}

// toRL converts a straight-alpha color to raylib's color type, which is also
// straight alpha.
func toRL(c color.NRGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// WindowInput forwards raylib window events to a field.
type WindowInput struct {
	lastX, lastY float32
	hovering     bool
	hidden       bool
}

// Poll reads the mouse, resize and visibility state of the current frame.
// Showing a hidden window runs a field frame, so Poll belongs inside the
// drawing pass.
func (in *WindowInput) Poll(f *field.Field) {
	if rl.IsWindowResized() {
		f.Resize()
	}

	hidden := rl.IsWindowMinimized() || rl.IsWindowHidden()
	if hidden != in.hidden {
		in.hidden = hidden
		f.SetVisible(!hidden)
	}

	if !rl.IsCursorOnScreen() {
		if in.hovering {
			in.hovering = false
			f.PointerOut()
		}
		return
	}
	pos := rl.GetMousePosition()
	if !in.hovering || pos.X != in.lastX || pos.Y != in.lastY {
		in.hovering = true
		in.lastX, in.lastY = pos.X, pos.Y
		f.PointerMove(float64(pos.X), float64(pos.Y))
	}
}
