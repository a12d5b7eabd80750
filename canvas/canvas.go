// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package canvas

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/draw"
)

// Fixed internal resolution defaults. The display scales this up, so the
// values set the logical pixel grid, not the on-screen size.
const (
	DefaultWidth  = 320
	DefaultHeight = 180
)

// Common errors returned by Canvas operations.
var (
	// ErrControlTransferred is returned when drawing control is used after
	// TransferControlToOffscreen.
	ErrControlTransferred = errors.New("canvas: rendering control already transferred")

	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("canvas: invalid dimensions")
)

// Option configures a Canvas during creation.
type Option func(*options)

type options struct {
	name string
}

func defaultOptions() options {
	return options{name: "gameCanvas"}
}

// WithName sets the canvas identifier used in logs. Defaults to "gameCanvas".
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// Canvas is a window-context drawing surface. It owns its pixel storage until
// TransferControlToOffscreen moves exclusive rendering control into an
// Offscreen; after that the canvas only presents frames, it no longer draws.
//
// Canvas is safe for concurrent Present/Transfer calls, but a single window
// context is the expected caller.
type Canvas struct {
	name   string
	width  int
	height int

	mu          sync.Mutex
	surface     *surfaceState
	transferred bool
}

// New creates a canvas with the given internal resolution. Non-positive
// dimensions fail with ErrInvalidDimensions.
func New(width, height int, opts ...Option) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Canvas{
		name:   o.name,
		width:  width,
		height: height,
		surface: &surfaceState{
			width:  width,
			height: height,
			pix:    image.NewRGBA(image.Rect(0, 0, width, height)),
		},
	}, nil
}

// Name returns the canvas identifier.
func (c *Canvas) Name() string { return c.name }

// Size returns the internal pixel resolution.
func (c *Canvas) Size() (width, height int) { return c.width, c.height }

// TransferControlToOffscreen detaches the canvas's surface into a
// transferable Offscreen. It succeeds exactly once; subsequent calls fail
// with ErrControlTransferred. After the call the canvas can still Present,
// but all drawing happens through the Offscreen's owner.
func (c *Canvas) TransferControlToOffscreen() (*Offscreen, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transferred {
		return nil, ErrControlTransferred
	}
	c.transferred = true
	return &Offscreen{s: c.surface}, nil
}

// Present scales the most recently flushed frame onto dst with
// nearest-neighbor filtering, preserving the pixel-art look at any display
// size.
func (c *Canvas) Present(dst draw.Image) error {
	if dst == nil {
		return errors.New("canvas: nil presentation target")
	}
	c.mu.Lock()
	src := c.surface.snapshot()
	c.mu.Unlock()
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return nil
}
