// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpu implements the render.Driver interface on gogpu/wgpu.
package wgpu

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/offscreen"
	"github.com/gogpu/offscreen/handle"
	"github.com/gogpu/offscreen/render"
)

// Driver binds the bootstrap sequence to gogpu/wgpu.
type Driver struct{}

// New creates the wgpu driver.
func New() *Driver { return &Driver{} }

// Name returns "wgpu".
func (*Driver) Name() string { return "wgpu" }

// CreateInstance creates a wgpu instance. gogpu/wgpu exposes the primary
// native backend set; the constrained profile's capability floor is enforced
// at device creation rather than by backend selection.
func (*Driver) CreateInstance(_ render.Profile) (render.Instance, error) {
	inst := core.NewInstance(&gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
		Flags:    0,
	})
	return &instance{inst: inst}, nil
}

type instance struct {
	inst *core.Instance
}

// CreateSurface acquires the offscreen surface exclusively and prepares its
// presentation state, including the blit shader the present pass uses.
func (i *instance) CreateSurface(win handle.WindowHandle, _ handle.DisplayHandle) (render.Surface, error) {
	if win.Surface == nil {
		return nil, errors.New("wgpu: window handle has no surface")
	}
	if err := win.Surface.Acquire(); err != nil {
		return nil, err
	}
	spirv, err := presentShaderSPIRV()
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile present shader: %w", err)
	}
	w, h := win.Surface.Size()
	return &surface{
		width:        w,
		height:       h,
		format:       gputypes.TextureFormatBGRA8Unorm,
		presentSPIRV: spirv,
	}, nil
}

// RequestAdapter negotiates an adapter. The high-performance preference is
// the only one the bootstrap profile uses.
func (i *instance) RequestAdapter(_ context.Context, _ render.AdapterOptions) (render.Adapter, error) {
	adapterID, err := i.inst.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: request adapter: %w", err)
	}
	return &adapter{id: adapterID}, nil
}

// Release drops the instance reference. The instance needs no explicit
// teardown in the current core implementation.
func (i *instance) Release() {
	i.inst = nil
}

type surface struct {
	width, height int
	format        gputypes.TextureFormat
	presentSPIRV  []uint32
}

func (s *surface) Size() (int, int)               { return s.width, s.height }
func (s *surface) Format() gputypes.TextureFormat { return s.format }
func (s *surface) Release()                       { s.presentSPIRV = nil }

// PresentShader returns the compiled SPIR-V for the fullscreen blit that
// presents the surface texture.
func (s *surface) PresentShader() []uint32 { return s.presentSPIRV }

type adapter struct {
	id core.AdapterID
}

// Info retrieves the adapter description.
func (a *adapter) Info() render.AdapterInfo {
	info, err := core.GetAdapterInfo(a.id)
	if err != nil {
		offscreen.Logger().Warn("failed to get GPU adapter info", "err", err)
		return render.AdapterInfo{Name: "unknown"}
	}
	return render.AdapterInfo{
		Name:    info.Name,
		Vendor:  info.Vendor,
		Backend: fmt.Sprint(info.Backend),
		Driver:  info.Driver,
	}
}

// Limits returns zero limits: core exposes limits per device, not per
// adapter, so the bootstrap keeps the profile floor and RequestDevice
// verifies it after creation.
func (a *adapter) Limits() render.Limits { return render.Limits{} }

// RequestDevice creates a device and retrieves its queue, then verifies the
// created device satisfies the descriptor's limit floor.
func (a *adapter) RequestDevice(_ context.Context, desc render.DeviceDescriptor) (render.Device, render.Queue, error) {
	deviceID, err := core.RequestDevice(a.id, &gputypes.DeviceDescriptor{
		Label:            desc.Label,
		RequiredFeatures: nil,
		RequiredLimits:   gputypes.DefaultLimits(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("wgpu: request device: %w", err)
	}
	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		releaseDevice(deviceID)
		return nil, nil, fmt.Errorf("wgpu: get device queue: %w", err)
	}
	if limits, err := core.GetDeviceLimits(deviceID); err == nil {
		if limits.MaxTextureDimension2D < desc.RequiredLimits.MaxTextureDimension2D {
			releaseDevice(deviceID)
			return nil, nil, fmt.Errorf("wgpu: device texture limit %d below required %d",
				limits.MaxTextureDimension2D, desc.RequiredLimits.MaxTextureDimension2D)
		}
	}
	return &device{id: deviceID}, &queue{id: queueID}, nil
}

// Release drops the adapter.
func (a *adapter) Release() {
	if a.id.IsZero() {
		return
	}
	if err := core.AdapterDrop(a.id); err != nil {
		offscreen.Logger().Warn("failed to release GPU adapter", "err", err)
	}
	a.id = core.AdapterID{}
}

type device struct {
	id core.DeviceID
}

// ID returns the underlying core device id for engine glue.
func (d *device) ID() core.DeviceID { return d.id }

// Poll satisfies gpucontext.Device. Command completion is synchronous in the
// current core implementation, so there is nothing to pump.
func (d *device) Poll(wait bool) {}

// Destroy satisfies gpucontext.Device.
func (d *device) Destroy() { d.Release() }

// Release drops the device. The queue is released with it.
func (d *device) Release() {
	releaseDevice(d.id)
	d.id = core.DeviceID{}
}

func releaseDevice(id core.DeviceID) {
	if id.IsZero() {
		return
	}
	if err := core.DeviceDrop(id); err != nil {
		offscreen.Logger().Warn("failed to release GPU device", "err", err)
	}
}

type queue struct {
	id core.QueueID
}

// ID returns the underlying core queue id for engine glue.
func (q *queue) ID() core.QueueID { return q.id }
