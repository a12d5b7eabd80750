// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render performs the one-time GPU bootstrap for a transferred
// offscreen surface.
//
// The embedding engine's default initialization assumes it owns the canvas it
// renders to; a transferred surface breaks that assumption. Bootstrap performs
// the instance/surface/adapter/device negotiation manually against a
// constrained ("WebGL2-class") capability profile and returns the acquired
// resources as a single unit for injection into the engine.
//
// The GPU API is consumed through the small Driver interface so the protocol
// and its tests stay independent of the concrete GPU library; the wgpu
// subpackage provides the real implementation on gogpu/wgpu.
package render
