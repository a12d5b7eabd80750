// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

// Limits is the subset of GPU limits the constrained profile cares about.
type Limits struct {
	// MaxTextureDimension2D is the maximum 2D texture size.
	MaxTextureDimension2D uint32

	// MaxBindGroups is the maximum number of bind groups.
	MaxBindGroups uint32

	// MaxUniformBufferBindingSize is the maximum uniform buffer binding, in
	// bytes.
	MaxUniformBufferBindingSize uint32

	// MaxStorageBuffersPerShaderStage bounds storage buffer bindings. Zero on
	// the constrained profile: WebGL2-class hardware has no storage buffers.
	MaxStorageBuffersPerShaderStage uint32

	// MaxBufferSize is the maximum buffer size, in bytes.
	MaxBufferSize uint64
}

// Merge raises l's resolution-dependent fields to the adapter's values while
// keeping every capability field at the profile floor. This mirrors the
// constrained profile's rule: texture resolution may follow the hardware,
// required capabilities may not. Zero adapter fields are treated as unknown
// and leave the floor untouched.
func (l Limits) Merge(adapter Limits) Limits {
	if adapter.MaxTextureDimension2D > l.MaxTextureDimension2D {
		l.MaxTextureDimension2D = adapter.MaxTextureDimension2D
	}
	return l
}

// Profile is a constrained capability target compatible with a specific
// graphics-API subset.
type Profile struct {
	// Name identifies the profile in logs.
	Name string

	// Limits is the required-limit floor for device creation.
	Limits Limits

	// Power is the adapter power preference.
	Power PowerPreference
}

// WebGL2 returns the constrained profile matching WebGL2-class capabilities:
// small texture dimensions, four bind groups, 16 KiB uniform bindings, no
// storage buffers.
func WebGL2() Profile {
	return Profile{
		Name: "webgl2",
		Limits: Limits{
			MaxTextureDimension2D:           2048,
			MaxBindGroups:                   4,
			MaxUniformBufferBindingSize:     16384,
			MaxStorageBuffersPerShaderStage: 0,
			MaxBufferSize:                   1 << 28,
		},
		Power: PowerPreferenceHighPerformance,
	}
}
