package config

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/codraw/internal/theme"
)

type yamlFile struct {
	Theme    string                       `yaml:"theme"`
	SaveDir  string                       `yaml:"save_dir"`
	LogLevel string                       `yaml:"log_level"`
	Canvas   Canvas                       `yaml:"canvas"`
	Generate Generate                     `yaml:"generate"`
	Notify   Notify                       `yaml:"notify"`
	Themes   map[string]map[string]string `yaml:"themes"`
}

// ParseYAML reads a YAML configuration document. Keys left out keep their
// defaults.
func ParseYAML(r io.Reader) (*Config, error) {
	var f yamlFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	cfg := &Config{
		Theme:    f.Theme,
		SaveDir:  f.SaveDir,
		LogLevel: f.LogLevel,
		Canvas:   f.Canvas,
		Generate: f.Generate,
		Notify:   f.Notify,
		Themes:   make(map[string]*theme.Theme),
	}
	cfg.Generate.Backend = strings.ToLower(cfg.Generate.Backend)

	names := make([]string, 0, len(f.Themes))
	for name := range f.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := theme.Default()
		t.Name = name
		for k, v := range f.Themes[name] {
			if err := t.Set(k, v); err != nil {
				return nil, fmt.Errorf("theme %s: %w", name, err)
			}
		}
		cfg.Themes[name] = t
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero values from New.
func (c *Config) applyDefaults() {
	d := New()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Canvas.Width == 0 {
		c.Canvas.Width = d.Canvas.Width
	}
	if c.Canvas.Height == 0 {
		c.Canvas.Height = d.Canvas.Height
	}
	if c.Canvas.Pen == "" {
		c.Canvas.Pen = d.Canvas.Pen
	}
	if c.Canvas.Brush == 0 {
		c.Canvas.Brush = d.Canvas.Brush
	}
	if c.Canvas.Background == "" {
		c.Canvas.Background = d.Canvas.Background
	}
	if c.Generate.Backend == "" {
		c.Generate.Backend = d.Generate.Backend
	}
	if c.Generate.Endpoint == "" {
		c.Generate.Endpoint = d.Generate.Endpoint
	}
	if c.Generate.Model == "" {
		c.Generate.Model = d.Generate.Model
	}
	if c.Generate.Timeout == 0 {
		c.Generate.Timeout = d.Generate.Timeout
	}
	if c.Generate.Listen == "" {
		c.Generate.Listen = d.Generate.Listen
	}
	if c.Themes == nil {
		c.Themes = make(map[string]*theme.Theme)
	}
}

// Validate reports settings no component can work with.
func (c *Config) Validate() error {
	switch {
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	case c.Canvas.Brush <= 0:
		return fmt.Errorf("brush must be positive")
	case c.Canvas.HistoryLimit < 0:
		return fmt.Errorf("history_limit cannot be negative")
	case c.Generate.Timeout < 0:
		return fmt.Errorf("timeout cannot be negative")
	}
	switch c.Generate.Backend {
	case BackendGemini, BackendHTTP:
	default:
		return fmt.Errorf("unknown backend %q", c.Generate.Backend)
	}
	return nil
}

// YAML renders c as a YAML document. The API key is never written.
func (c *Config) YAML() ([]byte, error) {
	f := yamlFile{
		Theme:    c.Theme,
		SaveDir:  c.SaveDir,
		LogLevel: c.LogLevel,
		Canvas:   c.Canvas,
		Generate: c.Generate,
		Notify:   c.Notify,
	}
	f.Generate.APIKey = ""
	if len(c.Themes) > 0 {
		f.Themes = make(map[string]map[string]string, len(c.Themes))
		for name, t := range c.Themes {
			f.Themes[name] = themeValues(t)
		}
	}
	return yaml.Marshal(&f)
}
