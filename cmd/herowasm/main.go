//go:build js && wasm

// Hero background for the site landing page.
//
// Usage: GOOS=js GOARCH=wasm go build -o assets/js/hero.wasm ./cmd/herowasm
package main

import (
	"log/slog"
	"os"

	"github.com/enki-verse/enkiverse-website/config"
	"github.com/enki-verse/enkiverse-website/field"
	"github.com/enki-verse/enkiverse-website/renderer"
)

const canvasID = "hero-canvas"

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	canvas, ok := renderer.FindCanvas(canvasID)
	if !ok {
		// Pages without the hero keep running without a field
		slog.Debug("no hero canvas on page", "id", canvasID)
		return
	}

	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return
	}

	canvas.FitWindow()
	f := field.New(canvas, renderer.NewAnimationFrames(), field.ParamsFromConfig(cfg), nil)
	renderer.BindPage(canvas, f)

	f.Start()
	slog.Info("hero field started", "particles", f.Count())

	// Callbacks run on the JS event loop; keep the module alive
	select {}
}
