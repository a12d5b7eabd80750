// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package canvas

import (
	"errors"
	"fmt"
	"image"
	stddraw "image/draw"
	"sync"
	"sync/atomic"

	"github.com/gogpu/offscreen"
)

// ErrSurfaceConsumed is returned when a renderer tries to acquire an
// offscreen surface that is already owned by another renderer. A surface is
// acquired at most once for its whole lifetime.
var ErrSurfaceConsumed = errors.New("canvas: offscreen surface already owned by a renderer")

// surfaceState is the underlying surface shared by every reference to one
// offscreen canvas. It outlives individual Offscreen facades, which are
// invalidated and re-minted as the surface moves between contexts.
type surfaceState struct {
	width  int
	height int

	mu  sync.Mutex
	pix *image.RGBA

	acquired atomic.Bool
}

// snapshot returns a copy of the current frame for presentation.
func (s *surfaceState) snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := image.NewRGBA(s.pix.Rect)
	copy(out.Pix, s.pix.Pix)
	return out
}

// Offscreen is a drawable surface not attached to on-screen display, whose
// control moves between execution contexts by ownership transfer. It is
// produced by Canvas.TransferControlToOffscreen and typically handed to a
// worker inside a KindCanvas envelope.
type Offscreen struct {
	s     *surfaceState
	moved atomic.Bool
}

// Size returns the surface's pixel resolution.
func (o *Offscreen) Size() (width, height int) {
	return o.s.width, o.s.height
}

// Acquire takes exclusive renderer ownership of the surface. The first call
// succeeds; every later call, through any reference, fails with
// ErrSurfaceConsumed. The render bootstrap calls this while creating the
// surface's GPU target.
func (o *Offscreen) Acquire() error {
	if o.moved.Load() {
		return offscreen.ErrTransferred
	}
	if !o.s.acquired.CompareAndSwap(false, true) {
		return ErrSurfaceConsumed
	}
	return nil
}

// WritePixels replaces the surface contents with img, which must match the
// surface resolution. Only the surface's owning context may call this.
func (o *Offscreen) WritePixels(img image.Image) error {
	if o.moved.Load() {
		return offscreen.ErrTransferred
	}
	b := img.Bounds()
	if b.Dx() != o.s.width || b.Dy() != o.s.height {
		return fmt.Errorf("canvas: frame is %dx%d, surface is %dx%d",
			b.Dx(), b.Dy(), o.s.width, o.s.height)
	}
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	stddraw.Draw(o.s.pix, o.s.pix.Rect, img, b.Min, stddraw.Src)
	return nil
}

// Transfer implements offscreen.Transferable. The returned reference is bound
// to the receiving context; the old one fails every operation with
// ErrTransferred from now on.
func (o *Offscreen) Transfer() (offscreen.Transferable, error) {
	if !o.moved.CompareAndSwap(false, true) {
		return nil, offscreen.ErrTransferred
	}
	return &Offscreen{s: o.s}, nil
}

var _ offscreen.Transferable = (*Offscreen)(nil)
