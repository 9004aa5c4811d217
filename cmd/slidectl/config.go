package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	goslide "github.com/VantageDataChat/GoSlide"
)

// Config is the slidectl configuration file.
type Config struct {
	// Scale maps design units to pixels. Ignored when Width is set.
	Scale float64 `yaml:"scale"`
	// Width is the output width in pixels; height follows the slide aspect.
	Width       int         `yaml:"width"`
	Format      string      `yaml:"format"`
	JPEGQuality int         `yaml:"jpegQuality"`
	FontDirs    []string    `yaml:"fontDirs"`
	ImageDir    string      `yaml:"imageDir"`
	Theme       ThemeConfig `yaml:"theme"`
	Log         LogConfig   `yaml:"log"`
}

// ThemeConfig overrides fields of the default theme.
type ThemeConfig struct {
	FontFamily string  `yaml:"fontFamily"`
	FontSize   float64 `yaml:"fontSize"`
	Background string  `yaml:"background"`
	TextColor  string  `yaml:"textColor"`
	Accent     string  `yaml:"accent"`
	ShapeFill  string  `yaml:"shapeFill"`
	Border     string  `yaml:"border"`
	HeaderFill string  `yaml:"headerFill"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

func defaultConfig() Config {
	return Config{
		Scale:       1,
		Format:      "png",
		JPEGQuality: 90,
		Log:         LogConfig{Level: "info", Format: "text"},
	}
}

// loadConfig reads a YAML file over the defaults. An empty path returns the
// defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	return cfg, nil
}

// apply returns t with every set field of c applied.
func (c ThemeConfig) apply(t goslide.Theme) (goslide.Theme, error) {
	if c.FontFamily != "" {
		t.FontFamily = c.FontFamily
	}
	if c.FontSize > 0 {
		t.FontSize = c.FontSize
	}
	for _, f := range []struct {
		name string
		val  string
		dst  *goslide.Color
	}{
		{"background", c.Background, &t.Background},
		{"textColor", c.TextColor, &t.TextColor},
		{"accent", c.Accent, &t.Accent},
		{"shapeFill", c.ShapeFill, &t.ShapeFill},
		{"border", c.Border, &t.BorderColor},
		{"headerFill", c.HeaderFill, &t.HeaderFill},
	} {
		if f.val == "" {
			continue
		}
		col, ok := goslide.ParseColor(f.val)
		if !ok {
			return t, fmt.Errorf("theme %s: invalid color %q", f.name, f.val)
		}
		*f.dst = col
	}
	return t, nil
}

func newLogger(c LogConfig, w io.Writer) (*slog.Logger, error) {
	name := c.Level
	if name == "" {
		name = "info"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", c.Format)
}
