package compositor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/example/codraw/internal/generate"
	"github.com/example/codraw/internal/history"
	"github.com/example/codraw/internal/raster"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestFlattenIsOpaque(t *testing.T) {
	s := raster.New(40, 20)
	s.Clear()
	s.FillRect(image.Rect(0, 0, 10, 10), color.RGBA{R: 255, A: 255})
	c := New(color.RGBA{R: 255, G: 255, B: 255})
	out := c.Flatten(s.Image())
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 0xff {
			t.Fatalf("pixel %d alpha = %d", i/4, out.Pix[i])
		}
	}
	if got := out.RGBAAt(30, 15); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("transparent region flattened to %+v", got)
	}
	if got := out.RGBAAt(5, 5); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("drawn region flattened to %+v", got)
	}
}

func TestFlattenPaintsBackgroundUnderSurface(t *testing.T) {
	s := raster.New(40, 20)
	s.Clear()
	c := New(color.RGBA{R: 255, G: 255, B: 255})
	c.SetBackground(solid(4, 2, color.RGBA{B: 255, A: 255}))
	out := c.Flatten(s.Image())
	if got := out.RGBAAt(20, 10); got.B < 250 || got.R > 5 {
		t.Fatalf("background not visible: %+v", got)
	}
	data, err := c.FlattenPNG(s.Image())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("FlattenPNG output: %v", err)
	}
}

func TestSubmitMakesOneCall(t *testing.T) {
	calls := 0
	svc := generate.ServiceFunc(func(_ context.Context, req generate.Request) (generate.Response, error) {
		calls++
		if req.Prompt != "add a sun" || string(req.Image) != "png" {
			t.Fatalf("request %+v", req)
		}
		return generate.Response{Success: false, Error: "busy"}, nil
	})
	_, err := Submit(context.Background(), svc, "add a sun", []byte("png"))
	if !errors.Is(err, generate.ErrGenerationFailed) {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Fatalf("service called %d times", calls)
	}
}

func TestSubmitWrapsTransportErrors(t *testing.T) {
	svc := generate.ServiceFunc(func(context.Context, generate.Request) (generate.Response, error) {
		return generate.Response{}, errors.New("connection refused")
	})
	if _, err := Submit(context.Background(), svc, "p", nil); !errors.Is(err, generate.ErrGenerationFailed) {
		t.Fatalf("err = %v", err)
	}
}

func TestDecode(t *testing.T) {
	img, err := Decode(encodePNG(t, solid(3, 3, color.RGBA{G: 255, A: 255})))
	if err != nil || img.Bounds().Dx() != 3 {
		t.Fatalf("Decode = %v, %v", img, err)
	}
	for _, data := range [][]byte{nil, []byte("not an image")} {
		if _, err := Decode(data); !errors.Is(err, ErrDecodeFailed) {
			t.Fatalf("Decode(%q) err = %v", data, err)
		}
	}
}

func TestApplyGeneratedRecordsGeneratedSnapshot(t *testing.T) {
	s := raster.New(40, 20)
	s.Fill(color.White)
	c := New(color.RGBA{R: 255, G: 255, B: 255})
	h := history.New(s, history.WithRestoreHook(c.Sync))
	if err := h.Init(); err != nil {
		t.Fatal(err)
	}
	gen := encodePNG(t, solid(80, 40, color.RGBA{R: 255, A: 255}))
	if err := c.ApplyGeneratedPNG(gen, s, h); err != nil {
		t.Fatal(err)
	}
	if h.Index() != 1 {
		t.Fatalf("index = %d, want 1", h.Index())
	}
	cur, _ := h.Current()
	if cur.Origin() != raster.OriginGenerated {
		t.Fatalf("origin = %v", cur.Origin())
	}
	if c.Background() == nil {
		t.Fatal("background layer not set")
	}
	if got := s.Image().RGBAAt(20, 10); got.R < 250 || got.G > 5 {
		t.Fatalf("surface not repainted: %+v", got)
	}

	h.Undo()
	if c.Background() != nil {
		t.Fatal("undo to a user snapshot should clear the layer")
	}
	h.Redo()
	if c.Background() == nil {
		t.Fatal("redo to a generated snapshot should restore the layer")
	}
}

func TestApplyGeneratedDecodeFailureChangesNothing(t *testing.T) {
	s := raster.New(40, 20)
	s.Fill(color.White)
	c := New(color.RGBA{R: 255, G: 255, B: 255})
	h := history.New(s)
	if err := h.Init(); err != nil {
		t.Fatal(err)
	}
	before, _ := s.Snapshot(raster.OriginUser)
	err := c.ApplyGeneratedPNG([]byte("garbage"), s, h)
	if !errors.Is(err, ErrDecodeFailed) {
		t.Fatalf("err = %v", err)
	}
	after, _ := s.Snapshot(raster.OriginUser)
	if h.Len() != 1 || !after.Equal(before) || c.Background() != nil {
		t.Fatal("failed apply changed state")
	}
}

type failingRecorder struct{}

func (failingRecorder) Record(raster.Origin) error { return errors.New("disk full") }

func TestApplyGeneratedRecordFailureRestoresCanvas(t *testing.T) {
	s := raster.New(40, 20)
	s.Fill(color.White)
	s.DrawLineSegment(raster.Pt(2, 10), raster.Pt(38, 10), color.RGBA{B: 255, A: 255}, 4, raster.CapRound)
	c := New(color.RGBA{R: 255, G: 255, B: 255})
	before := s.Copy()

	err := c.ApplyGenerated(solid(40, 20, color.RGBA{R: 255, A: 255}), s, failingRecorder{})
	if err == nil {
		t.Fatal("expected record error")
	}
	if c.Background() != nil {
		t.Fatal("layer kept after failed record")
	}
	if !bytes.Equal(s.Image().Pix, before.Pix) {
		t.Fatal("surface left repainted after failed record")
	}
}
