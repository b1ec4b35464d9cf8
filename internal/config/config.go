// Package config loads cliprec settings from a YAML file, a .env file and
// CLIPREC_* environment variables, in that order of precedence (lowest
// first). Command-line flags are applied on top by the binaries.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"

	"github.com/junsooki/cliprec/internal/encoder"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CLIPREC_"

// Config holds all runtime configuration.
type Config struct {
	OutputDir   string   `yaml:"output_dir"`
	FPS         int      `yaml:"fps"`
	FrameLimit  int      `yaml:"frame_limit"`
	Formats     []string `yaml:"formats"`
	PNG8        bool     `yaml:"png8"`
	AsyncEncode bool     `yaml:"async_encode"`
	LogLevel    string   `yaml:"log_level"`

	Window  WindowConfig  `yaml:"window"`
	Overlay OverlayConfig `yaml:"overlay"`
	Mirror  MirrorConfig  `yaml:"mirror"`
}

// WindowConfig sizes the demo window.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// OverlayConfig sizes the capture rectangle handles.
type OverlayConfig struct {
	TouchSize     float64 `yaml:"touch_size"`
	BoundarySize  float64 `yaml:"boundary_size"`
	MinDistance   float64 `yaml:"min_distance"`
	DefaultWidth  float64 `yaml:"default_width"`
	DefaultHeight float64 `yaml:"default_height"`
}

// MirrorConfig configures the live preview.
type MirrorConfig struct {
	Enabled      bool   `yaml:"enabled"`
	SignalingURL string `yaml:"signaling_url"`
	ID           string `yaml:"id"`
	Quality      int    `yaml:"quality"`
	FPS          int    `yaml:"fps"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:   "recordings",
		FPS:         16,
		Formats:     []string{"gif", "apng"},
		PNG8:        true,
		AsyncEncode: true,
		LogLevel:    "info",
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			Title:  "cliprec",
		},
		Overlay: OverlayConfig{
			TouchSize:     8,
			BoundarySize:  4,
			MinDistance:   16,
			DefaultWidth:  50,
			DefaultHeight: 50,
		},
		Mirror: MirrorConfig{
			SignalingURL: "ws://localhost:8080",
			Quality:      70,
			FPS:          15,
		},
	}
}

// Load reads path on top of the defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory if needed.
func (cfg *Config) Save(path string) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	return nil
}

// EnvLookup resolves CLIPREC_* variables from the process environment,
// falling back to the values of the .env file at envPath. A missing .env
// file is not an error.
func EnvLookup(envPath string) (func(string) (string, bool), error) {
	dotenv := map[string]string{}
	if envPath != "" {
		values, err := godotenv.Read(envPath)
		switch {
		case err == nil:
			dotenv = values
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %q: %w", envPath, err)
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides fields from CLIPREC_* variables found by lookup.
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok
	}
	var errs *multierror.Error
	setInt := func(name string, dst *int) {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	setBool := func(name string, dst *bool) {
		if v, ok := get(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	setString := func(name string, dst *string) {
		if v, ok := get(name); ok && v != "" {
			*dst = v
		}
	}

	setString("OUTPUT_DIR", &cfg.OutputDir)
	setInt("FPS", &cfg.FPS)
	setInt("FRAME_LIMIT", &cfg.FrameLimit)
	if v, ok := get("FORMATS"); ok {
		cfg.Formats = splitList(v)
	}
	setBool("PNG8", &cfg.PNG8)
	setBool("ASYNC_ENCODE", &cfg.AsyncEncode)
	setString("LOG_LEVEL", &cfg.LogLevel)
	setBool("MIRROR", &cfg.Mirror.Enabled)
	setString("SIGNALING_URL", &cfg.Mirror.SignalingURL)
	setString("MIRROR_ID", &cfg.Mirror.ID)
	setInt("MIRROR_QUALITY", &cfg.Mirror.Quality)
	return errs.ErrorOrNil()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate rejects unknown formats and clamps numeric settings into usable
// ranges.
func (cfg *Config) Validate() error {
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultConfig().OutputDir
	}
	cfg.FPS = clampInt(cfg.FPS, 1, 60)
	cfg.FrameLimit = clampInt(cfg.FrameLimit, 0, 3600)
	formats, err := cfg.AnimatedFormats()
	if err != nil {
		return err
	}
	if len(formats) == 0 {
		return errors.New("at least one recording format is required")
	}

	def := DefaultConfig()
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		cfg.Window.Width, cfg.Window.Height = def.Window.Width, def.Window.Height
	}
	o := &cfg.Overlay
	if o.TouchSize < 0 {
		o.TouchSize = def.Overlay.TouchSize
	}
	if o.BoundarySize <= 0 {
		o.BoundarySize = def.Overlay.BoundarySize
	}
	if o.MinDistance < 1 {
		o.MinDistance = def.Overlay.MinDistance
	}
	if o.DefaultWidth <= o.MinDistance {
		o.DefaultWidth = max(def.Overlay.DefaultWidth, o.MinDistance+1)
	}
	if o.DefaultHeight <= o.MinDistance {
		o.DefaultHeight = max(def.Overlay.DefaultHeight, o.MinDistance+1)
	}

	cfg.Mirror.Quality = clampInt(cfg.Mirror.Quality, 1, 100)
	cfg.Mirror.FPS = clampInt(cfg.Mirror.FPS, 1, 60)
	if cfg.Mirror.ID == "" {
		cfg.Mirror.ID = fmt.Sprintf("cliprec-%s", RandomID())
	}
	return nil
}

// AnimatedFormats parses Formats. Only animated formats are accepted.
func (cfg *Config) AnimatedFormats() ([]encoder.Format, error) {
	formats := make([]encoder.Format, 0, len(cfg.Formats))
	for _, name := range cfg.Formats {
		f, err := encoder.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !f.Animated() {
			return nil, fmt.Errorf("format %q cannot hold a recording", name)
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// StillFormat is the screenshot format.
func (cfg *Config) StillFormat() encoder.Format {
	if cfg.PNG8 {
		return encoder.FormatPNG8
	}
	return encoder.FormatPNG
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// RandomID returns a short random hex string for peer identifiers.
func RandomID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}
