package clipboard

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

type memBackend struct {
	png  []byte
	text string
}

func (m *memBackend) writePNG(data []byte) error  { m.png = append([]byte(nil), data...); return nil }
func (m *memBackend) readPNG() ([]byte, error)    { return m.png, nil }
func (m *memBackend) writeText(text string) error { m.text = text; return nil }
func (m *memBackend) readText() (string, error)   { return m.text, nil }

func useBackend(t *testing.T, b backend, err error) {
	t.Helper()
	prev := newBackend
	newBackend = func() (backend, error) { return b, err }
	reset()
	t.Cleanup(func() {
		newBackend = prev
		reset()
	})
}

func TestImageRoundTrip(t *testing.T) {
	useBackend(t, &memBackend{}, nil)
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(1, 1, color.RGBA{R: 200, A: 255})
	if err := WriteImage(img); err != nil {
		t.Fatal(err)
	}
	got, err := ReadImage()
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := got.At(1, 1).RGBA(); r>>8 != 200 {
		t.Fatalf("pixel = %v", got.At(1, 1))
	}
}

func TestEmptyClipboard(t *testing.T) {
	useBackend(t, &memBackend{}, nil)
	if _, err := ReadImage(); !errors.Is(err, ErrNoImage) {
		t.Fatalf("ReadImage err = %v", err)
	}
	if _, err := ReadText(); !errors.Is(err, ErrNoText) {
		t.Fatalf("ReadText err = %v", err)
	}
}

func TestInitErrorIsSticky(t *testing.T) {
	calls := 0
	prev := newBackend
	newBackend = func() (backend, error) {
		calls++
		return nil, ErrNoDisplay
	}
	reset()
	t.Cleanup(func() {
		newBackend = prev
		reset()
	})
	for i := 0; i < 2; i++ {
		if err := WriteText("hello"); !errors.Is(err, ErrNoDisplay) {
			t.Fatalf("err = %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("backend initialized %d times", calls)
	}
}
