package main

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/codraw/internal/generate"
)

func TestGenerateWritesResult(t *testing.T) {
	r, out, _ := newTestRoot(t)
	path := filepath.Join(t.TempDir(), "house.png")
	cmd, err := parseGenerateCmd([]string{"-size", "40x30", "-output", path, "a", "small", "house"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	svc := &recordingService{image: solidPNG(t, 40, 30, red)}
	cmd.svc = svc
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	req := svc.last(t)
	if req.Prompt != "a small house" {
		t.Fatalf("prompt = %q", req.Prompt)
	}
	if len(req.Image) == 0 {
		t.Fatal("blank canvas was not sent")
	}
	if !strings.Contains(out.String(), "saved "+path) || !strings.Contains(out.String(), "here you go") {
		t.Fatalf("output = %q", out.String())
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Size(); got.X != 40 || got.Y != 30 {
		t.Fatalf("output size = %v", got)
	}
}

func TestGenerateTextOnlySendsNoDrawing(t *testing.T) {
	r, _, _ := newTestRoot(t)
	path := filepath.Join(t.TempDir(), "out.png")
	cmd, err := parseGenerateCmd([]string{"-size", "16x16", "-text-only", "-output", path, "lighthouse"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	svc := &recordingService{image: solidPNG(t, 16, 16, red)}
	cmd.svc = svc
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if req := svc.last(t); len(req.Image) != 0 {
		t.Fatalf("text-only request carried %d image bytes", len(req.Image))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateFromFile(t *testing.T) {
	r, _, _ := newTestRoot(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	if err := os.WriteFile(in, solidPNG(t, 16, 16, red), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd, err := parseGenerateCmd([]string{"-size", "16x16", "-file", in, "-output", filepath.Join(dir, "out.png"), "x"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	svc := &recordingService{image: solidPNG(t, 16, 16, red)}
	cmd.svc = svc
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	img, err := png.Decode(strings.NewReader(string(svc.last(t).Image)))
	if err != nil {
		t.Fatal(err)
	}
	if r, g, _, _ := img.At(8, 8).RGBA(); r>>8 != 255 || g>>8 != 0 {
		t.Fatal("input file was not used as the drawing")
	}
}

func TestGenerateFailureLeavesNoFile(t *testing.T) {
	r, _, _ := newTestRoot(t)
	path := filepath.Join(t.TempDir(), "out.png")
	cmd, err := parseGenerateCmd([]string{"-size", "16x16", "-output", path, "x"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cmd.svc = &recordingService{}
	err = cmd.Run()
	if err == nil || !strings.Contains(err.Error(), generate.ErrGenerationFailed.Error()) {
		t.Fatalf("expected generation failure, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("output written after failure: %v", statErr)
	}
}
