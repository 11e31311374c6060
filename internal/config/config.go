// Package config loads viewer settings from a TOML file.
package config

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/philipparndt/goview/internal/capture"
)

// maxFileSize bounds what Load is willing to read
const maxFileSize = 1 << 20

// Settings are the user tunable viewer options. Command-line flags override
// values read from a file.
type Settings struct {
	FOV           float64  `toml:"fov" comment:"vertical field of view in degrees"`
	Padding       float64  `toml:"padding" comment:"camera distance multiplier applied after framing"`
	Near          float64  `toml:"near"`
	Far           float64  `toml:"far"`
	Width         int      `toml:"width" comment:"capture width in pixels"`
	Height        int      `toml:"height" comment:"capture height in pixels"`
	Background    string   `toml:"background" comment:"#rrggbb"`
	Transparent   bool     `toml:"transparent"`
	Format        string   `toml:"format" comment:"png, jpeg, bmp or tiff"`
	OutputDir     string   `toml:"output_dir"`
	Wireframe     bool     `toml:"wireframe"`
	WatchDebounce Duration `toml:"watch_debounce"`
}

// Duration is a time.Duration written as a string such as "300ms"
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the settings used when no file is given
func Default() Settings {
	return Settings{
		FOV:           75,
		Padding:       1,
		Near:          0.1,
		Far:           1000,
		Width:         1280,
		Height:        720,
		Background:    "#ffffff",
		Format:        "png",
		OutputDir:     ".",
		WatchDebounce: Duration(300 * time.Millisecond),
	}
}

// Load reads a TOML file on top of the defaults. Keys missing from the file
// keep their default values; unknown keys are rejected.
func Load(path string) (Settings, error) {
	cfg := Default()

	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return cfg, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Encode writes the settings as TOML
func (s Settings) Encode() ([]byte, error) {
	return toml.Marshal(s)
}

// Validate checks ranges and formats
func (s Settings) Validate() error {
	if s.FOV <= 0 || s.FOV >= 180 {
		return fmt.Errorf("fov must be in (0, 180), got %v", s.FOV)
	}
	if s.Padding <= 0 {
		return fmt.Errorf("padding must be positive, got %v", s.Padding)
	}
	if s.Near <= 0 || s.Far <= s.Near {
		return fmt.Errorf("clip planes must satisfy 0 < near < far, got near=%v far=%v", s.Near, s.Far)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("capture size must be positive, got %dx%d", s.Width, s.Height)
	}
	if _, err := ParseHexColor(s.Background); err != nil {
		return err
	}
	if _, err := capture.ParseFormat(s.Format); err != nil {
		return err
	}
	if s.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must not be negative")
	}
	return nil
}

// BackgroundColor returns the parsed background, white if it does not parse
func (s Settings) BackgroundColor() color.RGBA {
	c, err := ParseHexColor(s.Background)
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return c
}

// ParseHexColor parses #rgb or #rrggbb, the forms a color input produces
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q, want #rrggbb", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// FormatHexColor is the inverse of ParseHexColor
func FormatHexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
