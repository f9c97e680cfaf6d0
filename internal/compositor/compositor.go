// Package compositor flattens the drawing for export and applies generated
// images as the background layer.
package compositor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/example/codraw/internal/generate"
	"github.com/example/codraw/internal/logging"
	"github.com/example/codraw/internal/raster"
)

// ErrDecodeFailed is returned when a generated image cannot be decoded.
var ErrDecodeFailed = errors.New("decode failed")

// Canvas is the surface a generated image is painted onto.
type Canvas interface {
	Bounds() image.Rectangle
	Fill(c color.Color)
	DrawImage(img image.Image, dst image.Rectangle)
	Copy() *image.RGBA
	Load(img *image.RGBA)
}

// Recorder captures the repainted canvas.
type Recorder interface {
	Record(origin raster.Origin) error
}

// Compositor owns the background layer. The layer is replaced wholesale,
// never drawn into.
type Compositor struct {
	fill  color.RGBA
	layer image.Image
}

// New returns a compositor that flattens onto fill. Fill is forced opaque.
func New(fill color.RGBA) *Compositor {
	fill.A = 0xff
	return &Compositor{fill: fill}
}

// Fill returns the export background colour.
func (c *Compositor) Fill() color.RGBA { return c.fill }

// SetFill changes the export background colour.
func (c *Compositor) SetFill(fill color.RGBA) {
	fill.A = 0xff
	c.fill = fill
}

// Background returns the current layer, or nil.
func (c *Compositor) Background() image.Image { return c.layer }

// SetBackground replaces the layer.
func (c *Compositor) SetBackground(img image.Image) { c.layer = img }

// ClearBackground drops the layer.
func (c *Compositor) ClearBackground() { c.layer = nil }

// Flatten paints the fill, the background layer scaled to cover and src on
// top. The result is fully opaque.
func (c *Compositor) Flatten(src image.Image) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(c.fill), image.Point{}, draw.Src)
	if c.layer != nil {
		xdraw.CatmullRom.Scale(out, out.Bounds(), c.layer, c.layer.Bounds(), xdraw.Over, nil)
	}
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Over)
	return out
}

// FlattenPNG encodes Flatten(src) as PNG.
func (c *Compositor) FlattenPNG(src image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.Flatten(src)); err != nil {
		return nil, fmt.Errorf("encode flattened image: %w", err)
	}
	return buf.Bytes(), nil
}

// Submit makes exactly one call to svc. Transport errors and unsuccessful
// or imageless responses are reported as generate.ErrGenerationFailed.
func Submit(ctx context.Context, svc generate.Service, prompt string, flattened []byte) (generate.Response, error) {
	resp, err := svc.Generate(ctx, generate.Request{Prompt: prompt, Image: flattened})
	if err != nil {
		if !errors.Is(err, generate.ErrGenerationFailed) {
			err = fmt.Errorf("%w: %v", generate.ErrGenerationFailed, err)
		}
		return resp, err
	}
	if err := generate.Check(resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Decode decodes a PNG, JPEG, GIF, WebP or BMP image.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrDecodeFailed)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	logging.Logger().Debug("decoded generated image", "format", format, "size", img.Bounds().Size())
	return img, nil
}

// ApplyGenerated makes img the background layer, repaints canvas with it
// and records the result as a generated snapshot. If recording fails the
// previous layer and pixels are put back.
func (c *Compositor) ApplyGenerated(img image.Image, canvas Canvas, rec Recorder) error {
	prev, pixels := c.layer, canvas.Copy()
	c.layer = img
	canvas.Fill(color.White)
	canvas.DrawImage(img, canvas.Bounds())
	if err := rec.Record(raster.OriginGenerated); err != nil {
		c.layer = prev
		canvas.Load(pixels)
		return fmt.Errorf("record generated image: %w", err)
	}
	return nil
}

// ApplyGeneratedPNG decodes data and applies it. A decode failure leaves
// everything untouched.
func (c *Compositor) ApplyGeneratedPNG(data []byte, canvas Canvas, rec Recorder) error {
	img, err := Decode(data)
	if err != nil {
		return err
	}
	return c.ApplyGenerated(img, canvas, rec)
}

// Sync follows a snapshot loaded back by undo or redo: generated snapshots
// become the layer, anything else clears it.
func (c *Compositor) Sync(snap raster.Snapshot) error {
	if snap.Origin() != raster.OriginGenerated {
		c.layer = nil
		return nil
	}
	img, err := snap.Image()
	if err != nil {
		return fmt.Errorf("%w: snapshot: %v", ErrDecodeFailed, err)
	}
	c.layer = img
	return nil
}
