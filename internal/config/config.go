// Package config loads board settings from a TOML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"SketchBoard/internal/export"
	"SketchBoard/internal/state"
)

const FileName = "config.toml"

// Config holds everything a board needs to start.
type Config struct {
	Width       int     `toml:"width" env:"WIDTH"`
	Height      int     `toml:"height" env:"HEIGHT"`
	PenColor    string  `toml:"pen_color" env:"PEN_COLOR"`
	PenWidth    float64 `toml:"pen_width" env:"PEN_WIDTH"`
	EraserWidth float64 `toml:"eraser_width" env:"ERASER_WIDTH"`
	MaxHistory  int     `toml:"max_history" env:"MAX_HISTORY"`
	ExportName  string  `toml:"export_name" env:"EXPORT_NAME"`
	Addr        string  `toml:"addr" env:"ADDR"`
	Advertise   bool    `toml:"advertise" env:"ADVERTISE"`
}

// Default mirrors the page the board was first drawn in: a red pen and
// a "board.jpg" download.
func Default() Config {
	return Config{
		Width:       1280,
		Height:      800,
		PenColor:    "red",
		PenWidth:    3,
		EraserWidth: 20,
		MaxHistory:  0,
		ExportName:  "board.jpg",
		Addr:        ":8888",
		Advertise:   false,
	}
}

// Load reads path on top of the defaults, then applies SKETCHBOARD_*
// environment variables. An empty path or a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "SKETCHBOARD_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	return f.Close()
}

// DefaultPath is $XDG_CONFIG_HOME/sketchboard/config.toml, falling back to
// ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "sketchboard", FileName)
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid board size %dx%d", c.Width, c.Height)
	}
	if c.PenWidth <= 0 {
		return fmt.Errorf("invalid pen width %v", c.PenWidth)
	}
	if c.EraserWidth <= 0 {
		return fmt.Errorf("invalid eraser width %v", c.EraserWidth)
	}
	if _, err := state.ParseColor(c.PenColor); err != nil {
		return fmt.Errorf("pen color: %w", err)
	}
	if _, err := export.FormatFor(c.ExportName); err != nil {
		return fmt.Errorf("export name: %w", err)
	}
	return nil
}

// Pen returns the parsed pen color. Validate has already accepted it.
func (c Config) Pen() color.Color {
	pc, err := state.ParseColor(c.PenColor)
	if err != nil {
		return color.Black
	}
	return pc
}

// Settings builds the initial tool settings.
func (c Config) Settings() *state.ToolSettings {
	return state.NewToolSettings(c.Pen(), c.PenWidth, c.EraserWidth)
}
