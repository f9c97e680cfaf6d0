package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/codraw/internal/appstate"
	"github.com/example/codraw/internal/config"
	"github.com/example/codraw/internal/generate"
)

// editorFlags configure a drawing session. Defaults come from the loaded
// configuration so -h shows the effective values.
type editorFlags struct {
	size         string
	pen          string
	background   string
	brush        float64
	historyLimit int
}

func (f *editorFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&f.size, "size", fmt.Sprintf("%dx%d", cfg.Canvas.Width, cfg.Canvas.Height), "canvas size as WIDTHxHEIGHT")
	fs.StringVar(&f.pen, "pen", cfg.Canvas.Pen, "pen color name or hex value")
	fs.StringVar(&f.background, "background", cfg.Canvas.Background, "canvas color name or hex value")
	fs.Float64Var(&f.brush, "brush", cfg.Canvas.Brush, "brush width in pixels")
	fs.IntVar(&f.historyLimit, "history", cfg.Canvas.HistoryLimit, "maximum undo snapshots kept (0 keeps all)")
}

func (f *editorFlags) options() ([]appstate.EditorOption, error) {
	w, h, err := config.ParseSize(f.size)
	if err != nil {
		return nil, err
	}
	pen, err := appstate.ParseColor(f.pen)
	if err != nil {
		return nil, fmt.Errorf("pen: %w", err)
	}
	bg, err := appstate.ParseColor(f.background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	if f.brush <= 0 {
		return nil, fmt.Errorf("brush must be positive")
	}
	if f.historyLimit < 0 {
		return nil, fmt.Errorf("history cannot be negative")
	}
	return []appstate.EditorOption{
		appstate.WithSize(w, h),
		appstate.WithPen(pen),
		appstate.WithBackground(bg),
		appstate.WithBrush(f.brush),
		appstate.WithHistoryLimit(f.historyLimit),
	}, nil
}

// serviceFlags pick and configure the generation backend.
type serviceFlags struct {
	backend    string
	endpoint   string
	model      string
	apiKey     string
	timeout    time.Duration
	saveToFile bool
	cfg        config.Generate
}

func (f *serviceFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	f.cfg = cfg.Generate
	fs.StringVar(&f.backend, "backend", cfg.Generate.Backend, "generation backend: gemini or http")
	fs.StringVar(&f.endpoint, "endpoint", cfg.Generate.Endpoint, "generate route used by the http backend")
	fs.StringVar(&f.model, "model", cfg.Generate.Model, "Gemini model name")
	fs.StringVar(&f.apiKey, "api-key", "", "Gemini API key (env GEMINI_API_KEY)")
	fs.DurationVar(&f.timeout, "timeout", cfg.Generate.Timeout, "generation timeout")
	fs.BoolVar(&f.saveToFile, "save-to-file", cfg.Generate.SaveToFile, "ask the http backend to archive generated images")
}

// key returns the -api-key flag, or the configured key when it is unset.
func (f *serviceFlags) key() string {
	if f.apiKey != "" {
		return f.apiKey
	}
	return f.cfg.APIKey
}

// service builds the backend. The Gemini backend needs an API key; without
// one it falls back to the http backend.
func (f *serviceFlags) service() (generate.Service, error) {
	key := f.key()
	switch strings.ToLower(f.backend) {
	case config.BackendGemini:
		if key != "" {
			g := generate.NewGemini(key)
			if f.model != "" {
				g.Model = f.model
			}
			if f.timeout > 0 {
				g.HTTPClient.Timeout = f.timeout
			}
			return g, nil
		}
		log.Printf("no Gemini API key set, using %s", f.endpoint)
	case config.BackendHTTP:
	default:
		return nil, fmt.Errorf("unknown backend %q", f.backend)
	}
	c := generate.NewClient(f.endpoint)
	c.SaveToFile = f.saveToFile
	if f.timeout > 0 {
		c.HTTPClient.Timeout = f.timeout
	}
	return c, nil
}
