// Package history keeps a linear undo/redo log of whole-surface snapshots.
package history

import (
	"errors"
	"fmt"

	"github.com/example/codraw/internal/logging"
	"github.com/example/codraw/internal/raster"
)

// ErrNotInitialized is returned by Record before Init has captured the
// initial snapshot.
var ErrNotInitialized = errors.New("history: not initialized")

// Surface is the part of a raster surface the history needs.
type Surface interface {
	Snapshot(origin raster.Origin) (raster.Snapshot, error)
	Restore(snap raster.Snapshot) error
}

// RestoreHook observes every snapshot loaded back by Undo or Redo.
type RestoreHook func(raster.Snapshot) error

// Option configures a History.
type Option func(*History)

// WithLimit bounds the number of retained snapshots. Zero means unbounded.
func WithLimit(n int) Option {
	return func(h *History) {
		if n < 0 {
			n = 0
		}
		h.limit = n
	}
}

// WithRestoreHook registers fn to run after each Undo or Redo.
func WithRestoreHook(fn RestoreHook) Option {
	return func(h *History) { h.onRestore = fn }
}

// History is an ordered list of snapshots with a cursor. Index is -1 until
// Init; afterwards 0 <= Index < Len.
type History struct {
	surface   Surface
	snaps     []raster.Snapshot
	index     int
	limit     int
	onRestore RestoreHook
}

// New returns an uninitialized history bound to surface.
func New(surface Surface, opts ...Option) *History {
	h := &History{surface: surface, index: -1}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Init captures the surface as the only snapshot. Calling it again resets
// the history.
func (h *History) Init() error {
	snap, err := h.surface.Snapshot(raster.OriginUser)
	if err != nil {
		return fmt.Errorf("history init: %w", err)
	}
	h.snaps = []raster.Snapshot{snap}
	h.index = 0
	logging.Logger().Debug("history initialized", "bytes", snap.Len())
	return nil
}

// Record captures the surface, discards any redo entries and appends the
// new snapshot.
func (h *History) Record(origin raster.Origin) error {
	if h.index < 0 {
		return ErrNotInitialized
	}
	snap, err := h.surface.Snapshot(origin)
	if err != nil {
		return fmt.Errorf("history record: %w", err)
	}
	h.snaps = append(h.snaps[:h.index+1], snap)
	h.index = len(h.snaps) - 1
	h.trim()
	logging.Logger().Debug("history recorded", "origin", origin, "index", h.index, "len", len(h.snaps))
	return nil
}

func (h *History) trim() {
	if h.limit <= 0 || len(h.snaps) <= h.limit {
		return
	}
	drop := len(h.snaps) - h.limit
	kept := make([]raster.Snapshot, h.limit)
	copy(kept, h.snaps[drop:])
	h.snaps = kept
	h.index -= drop
}

// Undo steps back one snapshot. It reports false without error at the
// start of the history.
func (h *History) Undo() (bool, error) {
	if !h.CanUndo() {
		return false, nil
	}
	return true, h.move(h.index - 1)
}

// Redo steps forward one snapshot. It reports false without error at the
// end of the history.
func (h *History) Redo() (bool, error) {
	if !h.CanRedo() {
		return false, nil
	}
	return true, h.move(h.index + 1)
}

func (h *History) move(to int) error {
	snap := h.snaps[to]
	if err := h.surface.Restore(snap); err != nil {
		return fmt.Errorf("history restore %d: %w", to, err)
	}
	h.index = to
	if h.onRestore != nil {
		if err := h.onRestore(snap); err != nil {
			return fmt.Errorf("history restore hook: %w", err)
		}
	}
	return nil
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.index >= 0 && h.index < len(h.snaps)-1 }

// Index returns the cursor, or -1 before Init.
func (h *History) Index() int { return h.index }

// Len returns the number of retained snapshots.
func (h *History) Len() int { return len(h.snaps) }

// Current returns the snapshot under the cursor.
func (h *History) Current() (raster.Snapshot, bool) {
	if h.index < 0 {
		return raster.Snapshot{}, false
	}
	return h.snaps[h.index], true
}

// At returns the snapshot at i.
func (h *History) At(i int) (raster.Snapshot, bool) {
	if i < 0 || i >= len(h.snaps) {
		return raster.Snapshot{}, false
	}
	return h.snaps[i], true
}
