// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"errors"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/offscreen/handle"
)

// NullDriver is a Driver that acquires no real GPU resources. It follows the
// full bootstrap sequence — including exclusive surface acquisition — and
// returns functioning stand-ins, so protocol code and tests run on machines
// without a GPU.
type NullDriver struct{}

// Name returns "null".
func (NullDriver) Name() string { return "null" }

// CreateInstance returns a no-op instance.
func (NullDriver) CreateInstance(profile Profile) (Instance, error) {
	return &nullInstance{profile: profile}, nil
}

type nullInstance struct {
	profile Profile
}

func (i *nullInstance) CreateSurface(win handle.WindowHandle, _ handle.DisplayHandle) (Surface, error) {
	if win.Surface == nil {
		return nil, errors.New("null: window handle has no surface")
	}
	if err := win.Surface.Acquire(); err != nil {
		return nil, err
	}
	w, h := win.Surface.Size()
	return &nullSurface{width: w, height: h}, nil
}

func (i *nullInstance) RequestAdapter(_ context.Context, _ AdapterOptions) (Adapter, error) {
	return &nullAdapter{profile: i.profile}, nil
}

func (i *nullInstance) Release() {}

type nullSurface struct {
	width, height int
}

func (s *nullSurface) Size() (int, int)               { return s.width, s.height }
func (s *nullSurface) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }
func (s *nullSurface) Release()                       {}

type nullAdapter struct {
	profile Profile
}

func (a *nullAdapter) Info() AdapterInfo {
	return AdapterInfo{Name: "null", Vendor: "gogpu", Backend: "none"}
}

func (a *nullAdapter) Limits() Limits { return a.profile.Limits }

func (a *nullAdapter) RequestDevice(_ context.Context, _ DeviceDescriptor) (Device, Queue, error) {
	return nullDevice{}, nullQueue{}, nil
}

func (a *nullAdapter) Release() {}

type nullDevice struct{}

func (nullDevice) Release() {}

type nullQueue struct{}
