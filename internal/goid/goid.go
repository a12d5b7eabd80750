// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package goid extracts the current goroutine's identity for ownership
// checks. The identity is only ever compared for equality; it carries no
// other meaning.
package goid

import (
	"runtime"
)

// ID returns the current goroutine's id.
//
// The id is parsed from the runtime.Stack header, which begins
// "goroutine N [status]:". There is no public runtime API for this; the
// header format has been stable since Go 1.0.
func ID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// Skip "goroutine " and accumulate digits up to the following space.
	const prefix = len("goroutine ")
	var id int64
	for _, c := range buf[prefix:n] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
