// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
)

//go:embed present.wgsl
var presentWGSL string

var presentShader struct {
	once  sync.Once
	spirv []uint32
	err   error
}

// presentShaderSPIRV compiles the embedded present shader once and caches the
// result for every surface created by this driver.
func presentShaderSPIRV() ([]uint32, error) {
	presentShader.once.Do(func() {
		presentShader.spirv, presentShader.err = compileWGSL(presentWGSL)
	})
	return presentShader.spirv, presentShader.err
}

// compileWGSL compiles WGSL source to SPIR-V uint32 words.
func compileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	return spirvCode, nil
}
