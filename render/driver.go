// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/offscreen/handle"
)

// Bootstrap errors, one per negotiation step. Each is fatal to
// initialization: the render path cannot proceed without all four resources.
var (
	// ErrSurfaceCreation is returned when the rendering surface cannot be
	// built from the bridge's handle pair, including when the handle itself
	// is rejected (affinity violation, surface already consumed).
	ErrSurfaceCreation = errors.New("render: surface creation failed")

	// ErrNoCompatibleAdapter is returned when no GPU adapter compatible with
	// the surface is available. There is no software fallback.
	ErrNoCompatibleAdapter = errors.New("render: no compatible GPU adapter")

	// ErrDeviceCreation is returned when the device/queue request fails.
	ErrDeviceCreation = errors.New("render: device creation failed")
)

// PowerPreference selects the adapter power profile.
type PowerPreference uint8

const (
	// PowerPreferenceNone lets the driver pick.
	PowerPreferenceNone PowerPreference = iota

	// PowerPreferenceHighPerformance prefers the discrete GPU.
	PowerPreferenceHighPerformance
)

// AdapterInfo describes the selected GPU.
type AdapterInfo struct {
	// Name is the GPU name (e.g., "NVIDIA GeForce RTX 3080").
	Name string
	// Vendor is the GPU vendor.
	Vendor string
	// Backend is the graphics API in use.
	Backend string
	// Driver is the driver version string.
	Driver string
}

// String returns a human-readable description of the adapter.
func (i AdapterInfo) String() string {
	return fmt.Sprintf("%s (%s, %s)", i.Name, i.Vendor, i.Backend)
}

// AdapterOptions constrain adapter selection.
type AdapterOptions struct {
	// Power is the preferred power profile.
	Power PowerPreference
	// CompatibleSurface, when set, requires an adapter able to present to it.
	CompatibleSurface Surface
}

// DeviceDescriptor describes the requested device.
type DeviceDescriptor struct {
	// Label is an optional debug label.
	Label string
	// RequiredLimits is the limit floor the device must satisfy. The adapter
	// may expose more; the device must not require more.
	RequiredLimits Limits
}

// Driver opens a GPU API for the bootstrap sequence. Implementations bind a
// concrete GPU library; tests use NullDriver.
type Driver interface {
	// Name identifies the driver (e.g., "wgpu", "null").
	Name() string

	// CreateInstance creates a GPU instance restricted to the profile's
	// backend, with no fallback to other backends.
	CreateInstance(profile Profile) (Instance, error)
}

// Instance is a created GPU API instance.
type Instance interface {
	// CreateSurface builds a rendering surface from a bridge's handle pair,
	// taking exclusive renderer ownership of the underlying offscreen
	// surface.
	CreateSurface(win handle.WindowHandle, disp handle.DisplayHandle) (Surface, error)

	// RequestAdapter negotiates a GPU adapter matching the options.
	RequestAdapter(ctx context.Context, opts AdapterOptions) (Adapter, error)

	// Release frees the instance.
	Release()
}

// Surface is a rendering surface created from a window handle.
type Surface interface {
	// Size returns the surface resolution in pixels.
	Size() (width, height int)

	// Format returns the surface's texture format.
	Format() gputypes.TextureFormat

	// Release frees the surface.
	Release()
}

// Adapter is a negotiated GPU adapter.
type Adapter interface {
	// Info describes the adapter.
	Info() AdapterInfo

	// Limits reports the adapter's own limits. Zero fields mean the driver
	// cannot query them; the bootstrap then keeps the profile floor.
	Limits() Limits

	// RequestDevice creates a device/queue pair honoring the descriptor.
	RequestDevice(ctx context.Context, desc DeviceDescriptor) (Device, Queue, error)

	// Release frees the adapter.
	Release()
}

// Device is a created GPU device.
type Device interface {
	// Release frees the device and its queue.
	Release()
}

// Queue is the device's command queue. Its concrete type is driver-specific.
type Queue interface{}
