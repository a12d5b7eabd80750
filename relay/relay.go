// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package relay forwards messages between a parent endpoint and a worker
// endpoint. The relay owns no message semantics of its own: every envelope
// arriving from one side is reposted verbatim to the other, transferables
// included, preserving per-direction ordering.
package relay

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/offscreen"
)

// ErrForwardFailed reports that an envelope could not be reposted to the
// destination endpoint.
var ErrForwardFailed = errors.New("relay: forward failed")

// Source identifies which endpoint an envelope arrived from.
type Source int

const (
	// SourceParent marks envelopes arriving from the parent endpoint.
	SourceParent Source = iota
	// SourceWorker marks envelopes arriving from the worker endpoint.
	SourceWorker
)

// String returns "parent" or "worker".
func (s Source) String() string {
	if s == SourceParent {
		return "parent"
	}
	return "worker"
}

// Relay pumps envelopes between two ports in both directions. It is the
// intermediary in the three-party topology: the parent and the worker never
// hold a direct channel to each other unless they establish one by
// transferring a port through the relay.
type Relay struct {
	parent *offscreen.Port
	worker *offscreen.Port

	quit chan struct{}
	wg   sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool
}

// New creates a relay between the parent-facing and worker-facing ports. The
// relay assumes receive ownership of both; callers must not call Receive on
// them while the relay runs.
func New(parent, worker *offscreen.Port) *Relay {
	return &Relay{
		parent: parent,
		worker: worker,
		quit:   make(chan struct{}),
	}
}

// Start launches one forwarding loop per direction. Starting twice is a
// no-op.
func (r *Relay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.stopped {
		return
	}
	r.started = true

	r.wg.Add(2)
	go r.pump(r.parent, SourceParent)
	go r.pump(r.worker, SourceWorker)
}

// Stop shuts down both forwarding loops and waits for them to exit. In-flight
// envelopes already posted to a destination port remain readable there. Stop
// is idempotent.
func (r *Relay) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	started := r.started
	r.mu.Unlock()

	close(r.quit)
	if started {
		r.wg.Wait()
	}
}

// Forward reposts one envelope arriving from the given source to the opposite
// endpoint. A failed forward affects only that envelope.
func (r *Relay) Forward(e offscreen.Envelope, from Source) error {
	dst := r.worker
	if from == SourceWorker {
		dst = r.parent
	}

	if err := dst.Post(e); err != nil {
		return fmt.Errorf("%w: %s->%s %s: %w", ErrForwardFailed, from, opposite(from), e.Kind, err)
	}
	offscreen.Logger().Debug("relayed message",
		"from", from.String(),
		"to", opposite(from).String(),
		"kind", e.Kind.String(),
		"transfer", len(e.Transfer))
	return nil
}

// pump drains src until the relay stops or src closes. Forward failures are
// logged and skipped; the loop never terminates because of one envelope.
func (r *Relay) pump(src *offscreen.Port, from Source) {
	defer r.wg.Done()
	for {
		select {
		case <-r.quit:
			return
		case e := <-src.Events():
			if err := r.Forward(e, from); err != nil {
				offscreen.Logger().Warn("dropping relayed message", "err", err)
			}
		case <-src.Done():
			// Drain whatever was posted before the close.
			for {
				e, ok := src.Receive()
				if !ok {
					return
				}
				if err := r.Forward(e, from); err != nil {
					offscreen.Logger().Warn("dropping relayed message", "err", err)
				}
			}
		}
	}
}

func opposite(s Source) Source {
	if s == SourceParent {
		return SourceWorker
	}
	return SourceParent
}
