package config

import (
	"fmt"
	"image/color"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/example/codraw/internal/theme"
)

// Canvas holds drawing defaults.
type Canvas struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Pen          string  `yaml:"pen"`
	Brush        float64 `yaml:"brush"`
	Background   string  `yaml:"background"`
	HistoryLimit int     `yaml:"history_limit"`
}

// Generate holds generation service settings.
type Generate struct {
	// Backend is "gemini" to call the Gemini API directly or "http" to
	// use a remote /api/generate route.
	Backend    string        `yaml:"backend"`
	Endpoint   string        `yaml:"endpoint"`
	Model      string        `yaml:"model"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	Listen     string        `yaml:"listen"`
	ArchiveDir string        `yaml:"archive_dir"`
	SaveToFile bool          `yaml:"save_to_file"`
}

// Notify holds notification settings.
type Notify struct {
	Generate bool `yaml:"generate"`
	Failure  bool `yaml:"failure"`
	Save     bool `yaml:"save"`
	Copy     bool `yaml:"copy"`
}

// Config holds the application configuration.
type Config struct {
	Theme    string
	SaveDir  string
	LogLevel string
	Canvas   Canvas
	Generate Generate
	Notify   Notify
	Themes   map[string]*theme.Theme
}

const (
	BackendGemini = "gemini"
	BackendHTTP   = "http"
)

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		Canvas: Canvas{
			Width:      960,
			Height:     540,
			Pen:        "#000000",
			Brush:      5,
			Background: "#FFFFFF",
		},
		Generate: Generate{
			Backend:  BackendGemini,
			Endpoint: "http://localhost:3000/api/generate",
			Model:    "gemini-2.0-flash-exp-image-generation",
			Timeout:  2 * time.Minute,
			Listen:   ":3000",
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String returns the configuration in rc format. The API key is never
// written out.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.LogLevel != "" {
		fmt.Fprintf(&sb, "log_level = %s\n", c.LogLevel)
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "pen = %s\n", c.Canvas.Pen)
	fmt.Fprintf(&sb, "brush = %g\n", c.Canvas.Brush)
	fmt.Fprintf(&sb, "background = %s\n", c.Canvas.Background)
	fmt.Fprintf(&sb, "history_limit = %d\n", c.Canvas.HistoryLimit)
	sb.WriteString("\n")

	sb.WriteString("[generate]\n")
	fmt.Fprintf(&sb, "backend = %s\n", c.Generate.Backend)
	fmt.Fprintf(&sb, "endpoint = %s\n", c.Generate.Endpoint)
	fmt.Fprintf(&sb, "model = %s\n", c.Generate.Model)
	fmt.Fprintf(&sb, "timeout = %s\n", c.Generate.Timeout)
	fmt.Fprintf(&sb, "listen = %s\n", c.Generate.Listen)
	if c.Generate.ArchiveDir != "" {
		fmt.Fprintf(&sb, "archive_dir = %s\n", c.Generate.ArchiveDir)
	}
	fmt.Fprintf(&sb, "save_to_file = %v\n", c.Generate.SaveToFile)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "generate = %v\n", c.Notify.Generate)
	fmt.Fprintf(&sb, "failure = %v\n", c.Notify.Failure)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	var names []string
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		values := themeValues(t)
		for _, field := range theme.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", field, values[field])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// themeValues returns the hex value of every colour field of t.
func themeValues(t *theme.Theme) map[string]string {
	v := reflect.ValueOf(t).Elem()
	out := make(map[string]string)
	for _, field := range theme.Fields() {
		out[field] = toHex(v.FieldByName(field).Interface().(color.RGBA))
	}
	return out
}

func toHex(c color.RGBA) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}
