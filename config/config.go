// Package config provides configuration loading and access for the site tooling.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Content   ContentConfig   `yaml:"content"`
	Images    ImagesConfig    `yaml:"images"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FieldConfig holds particle field parameters.
type FieldConfig struct {
	Density        float64  `yaml:"density"`          // Surface pixels per particle
	MinRadius      float64  `yaml:"min_radius"`       // Spawn radius lower bound (inclusive)
	MaxRadius      float64  `yaml:"max_radius"`       // Spawn radius upper bound (exclusive)
	MaxSpeed       float64  `yaml:"max_speed"`        // Velocity components drawn from [-max, max]
	AttractDivisor float64  `yaml:"attract_divisor"`  // attractRadius = width / this
	ShrinkDivisor  float64  `yaml:"shrink_divisor"`   // shrinkRadius = width / this
	PushFactor     float64  `yaml:"push_factor"`      // Fraction of pointer delta applied per frame
	ShrinkRate     float64  `yaml:"shrink_rate"`      // Size lost per frame inside shrink zone
	RegrowRate     float64  `yaml:"regrow_rate"`      // Size regained per frame outside it
	MaxMergeRadius float64  `yaml:"max_merge_radius"` // Cap on merged particle size
	EdgeAlpha      float64  `yaml:"edge_alpha"`       // Gradient alpha at the particle rim
	Palette        []string `yaml:"palette"`          // Hex colors, chosen uniformly
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Frames per stats window
	PerfWindow  int `yaml:"perf_window"`  // Frames averaged by the perf collector
}

// ContentConfig holds content store settings.
type ContentConfig struct {
	APIBase      string `yaml:"api_base"`
	Owner        string `yaml:"owner"`
	Repo         string `yaml:"repo"`
	Branch       string `yaml:"branch"`
	TokenEnv     string `yaml:"token_env"`
	CommitPrefix string `yaml:"commit_prefix"`
	DataDir      string `yaml:"data_dir"`
	ImagesDir    string `yaml:"images_dir"`
	TimeoutSec   int    `yaml:"timeout_sec"`
}

// ImagesConfig holds upload processing limits.
type ImagesConfig struct {
	MaxWidth     int      `yaml:"max_width"`
	Quality      int      `yaml:"quality"`
	ThumbWidth   int      `yaml:"thumb_width"`
	ThumbHeight  int      `yaml:"thumb_height"`
	ThumbQuality int      `yaml:"thumb_quality"`
	MaxBytes     int64    `yaml:"max_bytes"`
	MaxPixels    int64    `yaml:"max_pixels"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Palette []color.NRGBA // Field.Palette parsed
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	if len(c.Field.Palette) == 0 {
		c.Field.Palette = []string{"#ffffff"}
	}

	palette, err := ParsePalette(c.Field.Palette)
	if err != nil {
		return err
	}
	c.Derived.Palette = palette
	return nil
}

// ParsePalette converts hex color strings into opaque non-premultiplied colors.
func ParsePalette(hexes []string) ([]color.NRGBA, error) {
	out := make([]color.NRGBA, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("parsing palette color %q: %w", h, err)
		}
		r, g, b := c.RGB255()
		out = append(out, color.NRGBA{R: r, G: g, B: b, A: 255})
	}
	return out, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
