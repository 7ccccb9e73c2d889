package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Field.Density != 12000 {
		t.Errorf("density = %v, want 12000", cfg.Field.Density)
	}
	if cfg.Field.AttractDivisor != 90 || cfg.Field.ShrinkDivisor != 25 {
		t.Errorf("divisors = %v/%v, want 90/25", cfg.Field.AttractDivisor, cfg.Field.ShrinkDivisor)
	}
	if cfg.Field.MaxMergeRadius != 100 {
		t.Errorf("max_merge_radius = %v, want 100", cfg.Field.MaxMergeRadius)
	}
	if len(cfg.Derived.Palette) != 1 {
		t.Fatalf("palette len = %d, want 1", len(cfg.Derived.Palette))
	}
	want := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if cfg.Derived.Palette[0] != want {
		t.Errorf("palette[0] = %v, want %v", cfg.Derived.Palette[0], want)
	}
	if cfg.Images.MaxBytes != 5*1024*1024 {
		t.Errorf("max_bytes = %d, want 5MiB", cfg.Images.MaxBytes)
	}
	if cfg.Images.MaxPixels != 40_000_000 {
		t.Errorf("max_pixels = %d, want 40000000", cfg.Images.MaxPixels)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := []byte("field:\n  density: 6000\n  palette: [\"#ff0000\", \"#00ff00\"]\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Field.Density != 6000 {
		t.Errorf("density = %v, want 6000", cfg.Field.Density)
	}
	// Fields absent from the overlay keep their defaults
	if cfg.Field.ShrinkRate != 0.5 {
		t.Errorf("shrink_rate = %v, want 0.5", cfg.Field.ShrinkRate)
	}
	if len(cfg.Derived.Palette) != 2 {
		t.Fatalf("palette len = %d, want 2", len(cfg.Derived.Palette))
	}
	if cfg.Derived.Palette[0].R != 255 || cfg.Derived.Palette[0].G != 0 {
		t.Errorf("palette[0] = %v, want red", cfg.Derived.Palette[0])
	}
}

func TestLoadBadPalette(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("field:\n  palette: [\"not-a-color\"]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid palette entry")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Field.Density = 9000

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load snapshot error: %v", err)
	}
	if reloaded.Field.Density != 9000 {
		t.Errorf("density = %v, want 9000", reloaded.Field.Density)
	}
}
