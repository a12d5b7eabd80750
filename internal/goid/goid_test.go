// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package goid

import "testing"

func TestID_StableWithinGoroutine(t *testing.T) {
	first := ID()
	if first <= 0 {
		t.Fatalf("ID() = %d, want positive", first)
	}
	if second := ID(); second != first {
		t.Errorf("ID() changed within one goroutine: %d then %d", first, second)
	}
}

func TestID_DiffersAcrossGoroutines(t *testing.T) {
	mine := ID()
	other := make(chan int64, 1)
	go func() { other <- ID() }()
	if got := <-other; got == mine {
		t.Errorf("ID() identical across goroutines: %d", got)
	}
}
