package raster

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

func TestNewDefaultsSize(t *testing.T) {
	s := New(0, 0)
	if got := s.Size(); got != image.Pt(DefaultWidth, DefaultHeight) {
		t.Fatalf("unexpected size %v", got)
	}
	if s.Image().RGBAAt(10, 10).A != 0 {
		t.Fatal("new surface should be transparent")
	}
}

func TestFillRectClipsToBounds(t *testing.T) {
	s := New(10, 10)
	s.FillRect(image.Rect(-5, -5, 3, 3), red)
	if got := s.Image().RGBAAt(0, 0); got != red {
		t.Fatalf("pixel (0,0) = %+v, want red", got)
	}
	if got := s.Image().RGBAAt(3, 3); got.A != 0 {
		t.Fatalf("pixel (3,3) should be untouched, got %+v", got)
	}
}

func TestDrawLineSegmentRoundCaps(t *testing.T) {
	s := New(100, 100)
	s.Fill(white)
	s.DrawLineSegment(Pt(20, 50), Pt(80, 50), black, 10, CapRound)
	if got := s.Image().RGBAAt(50, 50); got != black {
		t.Fatalf("centre of stroke = %+v, want black", got)
	}
	// Round caps extend past the end points by half the width.
	if got := s.Image().RGBAAt(16, 50); got == white {
		t.Fatal("round cap should cover the pixel left of the start point")
	}
	if got := s.Image().RGBAAt(50, 30); got != white {
		t.Fatalf("pixel away from the stroke changed: %+v", got)
	}
}

func TestDrawLineSegmentButtCapStopsAtEndpoint(t *testing.T) {
	s := New(100, 100)
	s.Fill(white)
	s.DrawLineSegment(Pt(20, 50), Pt(80, 50), black, 10, CapButt)
	if got := s.Image().RGBAAt(15, 50); got != white {
		t.Fatalf("butt cap should not extend past the start, got %+v", got)
	}
}

func TestZeroLengthSegmentDrawsDot(t *testing.T) {
	s := New(40, 40)
	s.Fill(white)
	s.DrawLineSegment(Pt(20, 20), Pt(20, 20), red, 8, CapRound)
	if got := s.Image().RGBAAt(20, 20); got != red {
		t.Fatalf("dot centre = %+v, want red", got)
	}
}

func TestDrawImageScalesToDestination(t *testing.T) {
	s := New(20, 20)
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetRGBA(x, y, red)
		}
	}
	s.DrawImage(src, s.Bounds())
	for _, p := range []image.Point{{0, 0}, {10, 10}, {19, 19}} {
		got := s.Image().RGBAAt(p.X, p.Y)
		if got.R < 250 || got.G > 5 || got.A < 250 {
			t.Fatalf("pixel %v = %+v, want red", p, got)
		}
	}
}

func TestClear(t *testing.T) {
	s := New(4, 4)
	s.Fill(black)
	s.Clear()
	for i, v := range s.Image().Pix {
		if v != 0 {
			t.Fatalf("byte %d = %d after Clear", i, v)
		}
	}
}

func TestSnapshotRestoreIsExact(t *testing.T) {
	s := New(64, 32)
	s.Fill(white)
	s.DrawLineSegment(Pt(3, 3), Pt(60, 28), red, 5, CapRound)
	want := s.Copy()

	snap, err := s.Snapshot(OriginUser)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	s.Fill(black)
	if err := s.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	for i := range want.Pix {
		if want.Pix[i] != s.Image().Pix[i] {
			t.Fatalf("byte %d differs after restore: %d vs %d", i, s.Image().Pix[i], want.Pix[i])
		}
	}
}

func TestLoadReplacesPixels(t *testing.T) {
	s := New(16, 8)
	s.Fill(white)
	saved := s.Copy()
	s.Fill(red)
	s.Load(saved)
	if got := s.Image().RGBAAt(5, 5); got != white {
		t.Fatalf("pixel after load = %v", got)
	}
}

func TestRestoreRejectsOtherSizes(t *testing.T) {
	small := New(4, 4)
	snap, err := small.Snapshot(OriginUser)
	if err != nil {
		t.Fatal(err)
	}
	if err := New(8, 8).Restore(snap); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
	if err := small.Restore(Snapshot{}); !errors.Is(err, ErrEmptySnapshot) {
		t.Fatalf("expected ErrEmptySnapshot, got %v", err)
	}
}
