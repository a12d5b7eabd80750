// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package handle bridges a transferred offscreen surface to the native
// window-handle shape a GPU API expects.
//
// The wrapped surface is only safely accessible from the single goroutine of
// the context that received it, yet GPU handle types are nominally
// thread-agnostic. The bridge converts that implicit constraint into an
// explicit runtime check: a WindowHandle request from any other goroutine
// fails with ErrThreadAffinity instead of silently corrupting state. Because
// every context here runs on exactly one goroutine, the check is a
// correctness fence that is not expected to trip in practice.
package handle

import (
	"errors"

	"github.com/gogpu/offscreen/canvas"
	"github.com/gogpu/offscreen/internal/goid"
)

// ErrThreadAffinity is returned when a window handle is requested from a
// goroutine other than the one that constructed the bridge. It indicates a
// programming or environment error; it is fatal to the bootstrap call but
// not to the process.
var ErrThreadAffinity = errors.New("handle: window handle accessed off its owning goroutine")

// WindowHandle is a handle valid for creating a rendering surface. It is only
// issued to the bridge's owning goroutine.
type WindowHandle struct {
	// Surface is the offscreen surface the handle targets.
	Surface *canvas.Offscreen
}

// DisplayHandle identifies the display connection. The concept is
// context-independent here, so obtaining one never fails.
type DisplayHandle struct{}

// Bridge wraps an offscreen surface as a native window-handle source. It is
// created once, immediately before requesting a GPU surface, and is never
// mutated after construction.
type Bridge struct {
	surface *canvas.Offscreen
	owner   int64
}

// NewBridge captures the calling goroutine's identity together with the
// surface. It never fails.
func NewBridge(surface *canvas.Offscreen) *Bridge {
	return &Bridge{surface: surface, owner: goid.ID()}
}

// WindowHandle returns a handle usable for surface creation. Calls from any
// goroutine other than the constructing one fail with ErrThreadAffinity.
func (b *Bridge) WindowHandle() (WindowHandle, error) {
	if goid.ID() != b.owner {
		return WindowHandle{}, ErrThreadAffinity
	}
	return WindowHandle{Surface: b.surface}, nil
}

// DisplayHandle returns the display handle. It always succeeds.
func (b *Bridge) DisplayHandle() DisplayHandle {
	return DisplayHandle{}
}
