// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/offscreen/canvas"
	"github.com/gogpu/offscreen/handle"
)

func newBridge(t *testing.T) *handle.Bridge {
	t.Helper()
	cv, err := canvas.New(320, 180)
	if err != nil {
		t.Fatalf("canvas.New: %v", err)
	}
	off, err := cv.TransferControlToOffscreen()
	if err != nil {
		t.Fatalf("TransferControlToOffscreen: %v", err)
	}
	return handle.NewBridge(off)
}

// fakeDriver records the bootstrap call sequence and injects failures.
type fakeDriver struct {
	failAdapter bool
	failDevice  bool

	calls    []string
	released []string
}

func (d *fakeDriver) Name() string { return "fake" }

func (d *fakeDriver) CreateInstance(_ Profile) (Instance, error) {
	d.calls = append(d.calls, "instance")
	return &fakeInstance{d: d}, nil
}

type fakeInstance struct{ d *fakeDriver }

func (i *fakeInstance) CreateSurface(win handle.WindowHandle, _ handle.DisplayHandle) (Surface, error) {
	i.d.calls = append(i.d.calls, "surface")
	if err := win.Surface.Acquire(); err != nil {
		return nil, err
	}
	return &fakeSurface{d: i.d}, nil
}

func (i *fakeInstance) RequestAdapter(_ context.Context, opts AdapterOptions) (Adapter, error) {
	i.d.calls = append(i.d.calls, "adapter")
	if opts.CompatibleSurface == nil {
		return nil, errors.New("fake: adapter requested without surface")
	}
	if i.d.failAdapter {
		return nil, errors.New("fake: no adapter")
	}
	return &fakeAdapter{d: i.d}, nil
}

func (i *fakeInstance) Release() { i.d.released = append(i.d.released, "instance") }

type fakeSurface struct{ d *fakeDriver }

func (s *fakeSurface) Size() (int, int)               { return 320, 180 }
func (s *fakeSurface) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }
func (s *fakeSurface) Release()                       { s.d.released = append(s.d.released, "surface") }

type fakeAdapter struct{ d *fakeDriver }

func (a *fakeAdapter) Info() AdapterInfo { return AdapterInfo{Name: "fake", Vendor: "test"} }

func (a *fakeAdapter) Limits() Limits { return Limits{MaxTextureDimension2D: 8192} }

func (a *fakeAdapter) RequestDevice(_ context.Context, desc DeviceDescriptor) (Device, Queue, error) {
	a.d.calls = append(a.d.calls, "device")
	if a.d.failDevice {
		return nil, nil, errors.New("fake: device refused")
	}
	return &fakeDevice{d: a.d, limits: desc.RequiredLimits}, struct{}{}, nil
}

func (a *fakeAdapter) Release() { a.d.released = append(a.d.released, "adapter") }

type fakeDevice struct {
	d      *fakeDriver
	limits Limits
}

func (dv *fakeDevice) Release() { dv.d.released = append(dv.d.released, "device") }

func TestBootstrap_Success(t *testing.T) {
	drv := &fakeDriver{}
	res, err := Bootstrap(context.Background(), drv, newBridge(t))
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if res.Instance == nil || res.Adapter == nil || res.Device == nil || res.Queue == nil || res.Surface == nil {
		t.Fatal("Bootstrap returned incomplete resources")
	}
	if w, h := res.Surface.Size(); w != 320 || h != 180 {
		t.Errorf("surface size = %dx%d, want 320x180", w, h)
	}

	want := []string{"instance", "surface", "adapter", "device"}
	if len(drv.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", drv.calls, want)
	}
	for i := range want {
		if drv.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", drv.calls, want)
		}
	}

	// The profile floor was raised to the adapter's texture limit but nothing
	// else.
	dev := res.Device.(*fakeDevice)
	if dev.limits.MaxTextureDimension2D != 8192 {
		t.Errorf("device MaxTextureDimension2D = %d, want 8192", dev.limits.MaxTextureDimension2D)
	}
	if got, want := dev.limits.MaxBindGroups, WebGL2().Limits.MaxBindGroups; got != want {
		t.Errorf("device MaxBindGroups = %d, want profile floor %d", got, want)
	}
}

func TestBootstrap_NullDriver(t *testing.T) {
	res, err := Bootstrap(context.Background(), NullDriver{}, newBridge(t))
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if res.Surface.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("surface format = %v, want RGBA8Unorm", res.Surface.Format())
	}
	res.Release()
	res.Release() // idempotent
}

func TestBootstrap_OffGoroutineBridge(t *testing.T) {
	bridge := newBridge(t)
	drv := &fakeDriver{}

	type result struct {
		res *Resources
		err error
	}
	resc := make(chan result, 1)
	go func() {
		res, err := Bootstrap(context.Background(), drv, bridge)
		resc <- result{res, err}
	}()
	got := <-resc
	if !errors.Is(got.err, ErrSurfaceCreation) {
		t.Fatalf("err = %v, want ErrSurfaceCreation", got.err)
	}
	if !errors.Is(got.err, handle.ErrThreadAffinity) {
		t.Errorf("err = %v, want wrapped ErrThreadAffinity", got.err)
	}

	// The handle rejection short-circuits: no surface, adapter, or device
	// request was attempted.
	for _, c := range drv.calls {
		if c != "instance" {
			t.Errorf("unexpected driver call %q after handle rejection", c)
		}
	}
	if len(drv.released) != 1 || drv.released[0] != "instance" {
		t.Errorf("released = %v, want [instance]", drv.released)
	}
}

func TestBootstrap_ConsumedSurface(t *testing.T) {
	bridge := newBridge(t)
	if _, err := Bootstrap(context.Background(), &fakeDriver{}, bridge); err != nil {
		t.Fatalf("first Bootstrap: %v", err)
	}

	_, err := Bootstrap(context.Background(), &fakeDriver{}, bridge)
	if !errors.Is(err, ErrSurfaceCreation) {
		t.Fatalf("err = %v, want ErrSurfaceCreation", err)
	}
	if !errors.Is(err, canvas.ErrSurfaceConsumed) {
		t.Errorf("err = %v, want wrapped ErrSurfaceConsumed", err)
	}
}

func TestBootstrap_AdapterFailureReleasesEverything(t *testing.T) {
	drv := &fakeDriver{failAdapter: true}
	_, err := Bootstrap(context.Background(), drv, newBridge(t))
	if !errors.Is(err, ErrNoCompatibleAdapter) {
		t.Fatalf("err = %v, want ErrNoCompatibleAdapter", err)
	}
	if len(drv.released) != 2 || drv.released[0] != "surface" || drv.released[1] != "instance" {
		t.Errorf("released = %v, want [surface instance]", drv.released)
	}
}

func TestBootstrap_DeviceFailureReleasesEverything(t *testing.T) {
	drv := &fakeDriver{failDevice: true}
	_, err := Bootstrap(context.Background(), drv, newBridge(t))
	if !errors.Is(err, ErrDeviceCreation) {
		t.Fatalf("err = %v, want ErrDeviceCreation", err)
	}
	want := []string{"adapter", "surface", "instance"}
	if len(drv.released) != len(want) {
		t.Fatalf("released = %v, want %v", drv.released, want)
	}
	for i := range want {
		if drv.released[i] != want[i] {
			t.Fatalf("released = %v, want %v", drv.released, want)
		}
	}
}

func TestLimits_Merge(t *testing.T) {
	tests := []struct {
		name    string
		adapter Limits
		want    uint32
	}{
		{"adapter above floor", Limits{MaxTextureDimension2D: 16384}, 16384},
		{"adapter below floor", Limits{MaxTextureDimension2D: 1024}, 2048},
		{"adapter unknown", Limits{}, 2048},
	}
	floor := WebGL2().Limits
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := floor.Merge(tt.adapter)
			if merged.MaxTextureDimension2D != tt.want {
				t.Errorf("MaxTextureDimension2D = %d, want %d", merged.MaxTextureDimension2D, tt.want)
			}
			// Capability fields never move off the floor.
			if merged.MaxBindGroups != floor.MaxBindGroups ||
				merged.MaxUniformBufferBindingSize != floor.MaxUniformBufferBindingSize ||
				merged.MaxStorageBuffersPerShaderStage != floor.MaxStorageBuffersPerShaderStage {
				t.Error("Merge changed capability fields")
			}
		})
	}
}

func TestProvider_NullResources(t *testing.T) {
	res, err := Bootstrap(context.Background(), NullDriver{}, newBridge(t))
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	p := NewProvider(res)

	// The null driver's device does not implement gpucontext.Device, so the
	// provider reports an absent GPU context.
	if p.Device() != nil {
		t.Error("null device surfaced as a live gpucontext.Device")
	}
	if got := p.SurfaceFormat(); got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("SurfaceFormat() = %v, want RGBA8Unorm", got)
	}

	res.Surface = nil
	if got := p.SurfaceFormat(); got != gputypes.TextureFormatUndefined {
		t.Errorf("SurfaceFormat() without surface = %v, want Undefined", got)
	}
}
