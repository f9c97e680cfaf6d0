// Package clipboard copies the flattened drawing to the system clipboard
// and reads pasted images back as a background.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"
)

var (
	ErrNoDisplay   = errors.New("clipboard requires DISPLAY or WAYLAND_DISPLAY")
	ErrUnsupported = errors.New("clipboard is not supported on this platform")
	ErrNoImage     = errors.New("clipboard does not contain image data")
	ErrNoText      = errors.New("clipboard does not contain text data")
)

// backend is a platform clipboard. Image data is always PNG.
type backend interface {
	writePNG(data []byte) error
	readPNG() ([]byte, error)
	writeText(text string) error
	readText() (string, error)
}

var (
	mu      sync.Mutex
	active  backend
	initErr error
	inited  bool
)

// newBackend is provided per platform.
var newBackend = platformBackend

func ensureInit() (backend, error) {
	mu.Lock()
	defer mu.Unlock()
	if !inited {
		inited = true
		active, initErr = newBackend()
	}
	return active, initErr
}

func reset() {
	mu.Lock()
	active, initErr, inited = nil, nil, false
	mu.Unlock()
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return WritePNG(buf.Bytes())
}

// WritePNG publishes already encoded PNG data.
func WritePNG(data []byte) error {
	b, err := ensureInit()
	if err != nil {
		return err
	}
	return b.writePNG(data)
}

// ReadPNG returns the raw PNG data on the clipboard.
func ReadPNG() ([]byte, error) {
	b, err := ensureInit()
	if err != nil {
		return nil, err
	}
	data, err := b.readPNG()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	return data, nil
}

// ReadImage decodes the clipboard image.
func ReadImage() (image.Image, error) {
	data, err := ReadPNG()
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return img, nil
}

// WriteText writes UTF-8 text to the clipboard.
func WriteText(text string) error {
	b, err := ensureInit()
	if err != nil {
		return err
	}
	return b.writeText(text)
}

// ReadText returns UTF-8 text from the clipboard.
func ReadText() (string, error) {
	b, err := ensureInit()
	if err != nil {
		return "", err
	}
	text, err := b.readText()
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
