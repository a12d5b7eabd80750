// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"strings"
	"testing"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/offscreen/render"
)

// Compile-time interface checks.
var (
	_ render.Driver     = (*Driver)(nil)
	_ render.Instance   = (*instance)(nil)
	_ render.Surface    = (*surface)(nil)
	_ render.Adapter    = (*adapter)(nil)
	_ render.Device     = (*device)(nil)
	_ gpucontext.Device = (*device)(nil)
)

func TestDriver_Name(t *testing.T) {
	if got := New().Name(); got != "wgpu" {
		t.Errorf("Name() = %q, want wgpu", got)
	}
}

func TestPresentShaderSource(t *testing.T) {
	// The embedded WGSL must carry both entry points the present pipeline
	// binds.
	for _, entry := range []string{"vs_main", "fs_main"} {
		if !strings.Contains(presentWGSL, entry) {
			t.Errorf("present shader missing entry point %s", entry)
		}
	}
}
