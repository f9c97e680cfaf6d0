package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/codraw/internal/theme"
)

// Parse reads rc-format configuration: "key = value" lines grouped under
// [canvas], [generate], [notify] and [theme.<name>] sections.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			current = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		key, value, ok := splitKeyValue(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case current != nil:
			err = current.Set(key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		case section == "canvas":
			err = setCanvasField(&cfg.Canvas, key, value)
		case section == "generate":
			err = setGenerateField(&cfg.Generate, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			name := section
			if name == "" {
				name = "root"
			}
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, name, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitKeyValue accepts "key = value" and "key: value". Values may be
// double quoted.
func splitKeyValue(line string) (string, string, bool) {
	i := strings.IndexAny(line, "=:")
	if i < 0 {
		return "", "", false
	}
	key := strings.TrimSpace(line[:i])
	value := strings.TrimSpace(line[i+1:])
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "log_level":
		cfg.LogLevel = value
	}
	return nil
}

func setCanvasField(c *Canvas, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "width":
		c.Width, err = parsePositive(key, value)
	case "height":
		c.Height, err = parsePositive(key, value)
	case "pen":
		c.Pen = value
	case "background":
		c.Background = value
	case "brush":
		c.Brush, err = strconv.ParseFloat(value, 64)
		if err == nil && c.Brush <= 0 {
			err = fmt.Errorf("brush must be positive")
		}
	case "history_limit":
		c.HistoryLimit, err = strconv.Atoi(value)
		if err == nil && c.HistoryLimit < 0 {
			err = fmt.Errorf("history_limit cannot be negative")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

func setGenerateField(g *Generate, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "backend":
		v := strings.ToLower(value)
		if v != BackendGemini && v != BackendHTTP {
			return fmt.Errorf("unknown backend %q", value)
		}
		g.Backend = v
	case "endpoint":
		g.Endpoint = value
	case "model":
		g.Model = value
	case "api_key":
		g.APIKey = value
	case "timeout":
		g.Timeout, err = time.ParseDuration(value)
	case "listen":
		g.Listen = value
	case "archive_dir":
		g.ArchiveDir = value
	case "save_to_file":
		g.SaveToFile, err = strconv.ParseBool(value)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "generate":
		n.Generate = b
	case "failure":
		n.Failure = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func parsePositive(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return n, nil
}
