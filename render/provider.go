// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Provider exposes bootstrapped Resources as a gpucontext.DeviceProvider, the
// integration point GPU frameworks in the gogpu ecosystem accept. The
// embedding engine receives the already-negotiated device instead of
// performing its own windowing setup.
//
// A device that does not implement gpucontext.Device (the null driver's
// stand-in) surfaces as nil, matching how engines treat an absent GPU
// context.
type Provider struct {
	res *Resources
}

// NewProvider wraps res for handoff to an embedding engine.
func NewProvider(res *Resources) *Provider {
	return &Provider{res: res}
}

// Device returns the bootstrapped device.
func (p *Provider) Device() gpucontext.Device {
	if d, ok := p.res.Device.(gpucontext.Device); ok {
		return d
	}
	return nil
}

// Queue returns the bootstrapped queue.
func (p *Provider) Queue() gpucontext.Queue {
	if q, ok := p.res.Queue.(gpucontext.Queue); ok {
		return q
	}
	return nil
}

// Adapter returns the bootstrapped adapter.
func (p *Provider) Adapter() gpucontext.Adapter {
	if a, ok := p.res.Adapter.(gpucontext.Adapter); ok {
		return a
	}
	return nil
}

// SurfaceFormat returns the negotiated surface format.
func (p *Provider) SurfaceFormat() gputypes.TextureFormat {
	if p.res.Surface == nil {
		return gputypes.TextureFormatUndefined
	}
	return p.res.Surface.Format()
}

// Ensure Provider implements gpucontext.DeviceProvider.
var _ gpucontext.DeviceProvider = (*Provider)(nil)
