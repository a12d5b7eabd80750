// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"fmt"

	"github.com/gogpu/offscreen"
	"github.com/gogpu/offscreen/handle"
)

// Resources are the GPU resources acquired by one bootstrap, owned as a unit
// by the hosting application. They are created once and released together at
// teardown (or leaked for the process lifetime in the common single-shot
// worker case).
type Resources struct {
	Instance Instance
	Adapter  Adapter
	Device   Device
	Queue    Queue

	// Surface is the rendering surface the resources were negotiated
	// against. The embedding engine presents to it.
	Surface Surface
}

// Release frees all resources in reverse order of creation.
func (r *Resources) Release() {
	if r.Device != nil {
		r.Device.Release()
		r.Device = nil
	}
	if r.Adapter != nil {
		r.Adapter.Release()
		r.Adapter = nil
	}
	if r.Surface != nil {
		r.Surface.Release()
		r.Surface = nil
	}
	if r.Instance != nil {
		r.Instance.Release()
		r.Instance = nil
	}
	r.Queue = nil
}

// Option configures a bootstrap.
type Option func(*options)

type options struct {
	profile Profile
	label   string
}

func defaultOptions() options {
	return options{profile: WebGL2(), label: "offscreen-device"}
}

// WithProfile overrides the constrained capability profile. Defaults to
// WebGL2().
func WithProfile(p Profile) Option {
	return func(o *options) {
		o.profile = p
	}
}

// WithLabel sets the debug label used for the created device.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// Bootstrap acquires a GPU instance, surface, adapter, and device/queue pair
// for the bridged surface, in that order. Each step maps to a distinct error
// kind; any failure releases everything acquired so far and aborts — there is
// no partial or degraded render mode and no retry.
//
// A bridge whose window handle is rejected (affinity violation, surface
// already consumed) short-circuits to ErrSurfaceCreation without attempting
// adapter or device requests.
//
// Bootstrap suspends the calling goroutine while negotiation is in flight;
// other contexts are unaffected.
func Bootstrap(ctx context.Context, drv Driver, bridge *handle.Bridge, opts ...Option) (*Resources, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := offscreen.Logger()

	// Step 1: instance, restricted to the profile's backend.
	inst, err := drv.CreateInstance(o.profile)
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrSurfaceCreation, err)
	}

	// Step 2: surface from the bridge's handle pair.
	win, err := bridge.WindowHandle()
	if err != nil {
		inst.Release()
		return nil, fmt.Errorf("%w: %w", ErrSurfaceCreation, err)
	}
	surf, err := inst.CreateSurface(win, bridge.DisplayHandle())
	if err != nil {
		inst.Release()
		return nil, fmt.Errorf("%w: %w", ErrSurfaceCreation, err)
	}

	// Step 3: adapter compatible with the surface, high-performance
	// preference, no software fallback.
	adapter, err := inst.RequestAdapter(ctx, AdapterOptions{
		Power:             o.profile.Power,
		CompatibleSurface: surf,
	})
	if err != nil {
		surf.Release()
		inst.Release()
		return nil, fmt.Errorf("%w: %w", ErrNoCompatibleAdapter, err)
	}
	log.Info("GPU adapter selected",
		"driver", drv.Name(),
		"adapter", adapter.Info().String(),
		"profile", o.profile.Name)

	// Step 4: device/queue with the profile floor merged with the adapter's
	// own limits.
	limits := o.profile.Limits.Merge(adapter.Limits())
	device, queue, err := adapter.RequestDevice(ctx, DeviceDescriptor{
		Label:          o.label,
		RequiredLimits: limits,
	})
	if err != nil {
		adapter.Release()
		surf.Release()
		inst.Release()
		return nil, fmt.Errorf("%w: %w", ErrDeviceCreation, err)
	}

	return &Resources{
		Instance: inst,
		Adapter:  adapter,
		Device:   device,
		Queue:    queue,
		Surface:  surf,
	}, nil
}
