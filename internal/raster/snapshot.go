package raster

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
)

// Origin records what produced a snapshot. It is set when the snapshot is
// taken and never inferred from pixel content.
type Origin int

const (
	OriginUser Origin = iota
	OriginGenerated
)

func (o Origin) String() string {
	switch o {
	case OriginUser:
		return "user"
	case OriginGenerated:
		return "generated"
	default:
		return "unknown"
	}
}

const dataURLPrefix = "data:image/png;base64,"

var (
	// ErrSizeMismatch is returned when a snapshot does not fit the surface.
	ErrSizeMismatch = errors.New("raster: snapshot size does not match surface")
	// ErrEmptySnapshot is returned when restoring the zero Snapshot.
	ErrEmptySnapshot = errors.New("raster: empty snapshot")
)

var snapshotEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// Snapshot is an immutable PNG encoding of a surface at one instant. The
// zero value holds no image.
type Snapshot struct {
	data   string
	size   image.Point
	origin Origin
}

// Snapshot serializes the current pixels.
func (s *Surface) Snapshot(origin Origin) (Snapshot, error) {
	var buf bytes.Buffer
	if err := snapshotEncoder.Encode(&buf, s.img); err != nil {
		return Snapshot{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return Snapshot{data: buf.String(), size: s.Size(), origin: origin}, nil
}

// Restore replaces the surface pixels with the snapshot content.
func (s *Surface) Restore(snap Snapshot) error {
	if snap.IsZero() {
		return ErrEmptySnapshot
	}
	if snap.size != s.Size() {
		return fmt.Errorf("%w: %v vs %v", ErrSizeMismatch, snap.size, s.Size())
	}
	img, err := snap.Image()
	if err != nil {
		return err
	}
	draw.Draw(s.img, s.img.Bounds(), img, img.Bounds().Min, draw.Src)
	return nil
}

// FromPNG wraps already encoded PNG data, validating that it decodes.
func FromPNG(data []byte, origin Origin) (Snapshot, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return Snapshot{data: string(data), size: image.Pt(cfg.Width, cfg.Height), origin: origin}, nil
}

// ParseDataURL is the inverse of DataURL.
func ParseDataURL(s string, origin Origin) (Snapshot, error) {
	if !strings.HasPrefix(s, dataURLPrefix) {
		return Snapshot{}, fmt.Errorf("decode snapshot: not a PNG data URL")
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, dataURLPrefix))
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return FromPNG(data, origin)
}

// IsZero reports whether the snapshot holds no image.
func (s Snapshot) IsZero() bool { return s.data == "" }

// Origin reports what produced the snapshot.
func (s Snapshot) Origin() Origin { return s.origin }

// Size returns the pixel dimensions of the encoded image.
func (s Snapshot) Size() image.Point { return s.size }

// Len returns the encoded size in bytes.
func (s Snapshot) Len() int { return len(s.data) }

// Equal compares pixel content. The origin tag is not part of the content.
func (s Snapshot) Equal(o Snapshot) bool { return s.data == o.data }

// Bytes returns a copy of the PNG encoding.
func (s Snapshot) Bytes() []byte { return []byte(s.data) }

// DataURL renders the snapshot as a base64 PNG data URL.
func (s Snapshot) DataURL() string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString([]byte(s.data))
}

// Image decodes the snapshot.
func (s Snapshot) Image() (image.Image, error) {
	if s.IsZero() {
		return nil, ErrEmptySnapshot
	}
	img, err := png.Decode(strings.NewReader(s.data))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return img, nil
}
