package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ApplyEnv overrides settings from CODRAW_* variables. GEMINI_API_KEY is
// honoured when CODRAW_API_KEY is unset. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}
	str("CODRAW_THEME", &c.Theme)
	str("CODRAW_SAVE_DIR", &c.SaveDir)
	str("CODRAW_LOG_LEVEL", &c.LogLevel)
	str("CODRAW_PEN", &c.Canvas.Pen)
	str("CODRAW_BACKGROUND", &c.Canvas.Background)
	str("CODRAW_ENDPOINT", &c.Generate.Endpoint)
	str("CODRAW_MODEL", &c.Generate.Model)
	str("CODRAW_LISTEN", &c.Generate.Listen)
	str("CODRAW_ARCHIVE_DIR", &c.Generate.ArchiveDir)
	str("GEMINI_API_KEY", &c.Generate.APIKey)
	str("CODRAW_API_KEY", &c.Generate.APIKey)

	if v := getenv("CODRAW_BACKEND"); v != "" {
		if err := setGenerateField(&c.Generate, "backend", v); err != nil {
			return fmt.Errorf("CODRAW_BACKEND: %w", err)
		}
	}
	if v := getenv("CODRAW_BRUSH"); v != "" {
		if err := setCanvasField(&c.Canvas, "brush", v); err != nil {
			return fmt.Errorf("CODRAW_BRUSH: %w", err)
		}
	}
	if v := getenv("CODRAW_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CODRAW_TIMEOUT: %w", err)
		}
		c.Generate.Timeout = d
	}
	if v := getenv("CODRAW_SIZE"); v != "" {
		w, h, err := ParseSize(v)
		if err != nil {
			return fmt.Errorf("CODRAW_SIZE: %w", err)
		}
		c.Canvas.Width, c.Canvas.Height = w, h
	}
	return nil
}

// ParseSize parses "WIDTHxHEIGHT".
func ParseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q must look like 960x540", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("bad width: %w", err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("bad height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q must be positive", s)
	}
	return w, h, nil
}
