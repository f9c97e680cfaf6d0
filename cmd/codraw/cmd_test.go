package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/example/codraw/internal/config"
	"github.com/example/codraw/internal/generate"
	"github.com/example/codraw/internal/theme"
)

func newTestRoot(t *testing.T) (*root, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errb bytes.Buffer
	cfg := config.New()
	cfg.SaveDir = t.TempDir()
	return &root{
		program:     "codraw",
		config:      cfg,
		stdout:      &out,
		stderr:      &errb,
		activeTheme: theme.Default(),
	}, &out, &errb
}

func solidPNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// recordingService answers every request with a solid image and keeps the
// requests it saw.
type recordingService struct {
	mu       sync.Mutex
	image    []byte
	requests []generate.Request
}

func (s *recordingService) Generate(_ context.Context, req generate.Request) (generate.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return generate.Response{Success: true, Image: s.image, Message: "here you go"}, nil
}

func (s *recordingService) last(t *testing.T) generate.Request {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		t.Fatal("service was not called")
	}
	return s.requests[len(s.requests)-1]
}

var red = color.RGBA{255, 0, 0, 255}
