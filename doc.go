// Package offscreen hands an exclusive rendering surface from a top-level
// context to a worker context and keeps the three parties involved — parent,
// window, and worker — synchronized through asynchronous message passing.
//
// # Overview
//
// Some message payloads carry transferable resources (message ports, the
// surface itself) that can only be owned by one side at a time. Sending such a
// message moves the resource: the sender's reference is invalidated and the
// receiver takes exclusive ownership.
//
// The module is organized into:
//   - Root package: the message envelope, port pairs, and transfer semantics
//   - canvas: the window-side canvas producing the transferable surface
//   - handle: the bridge exposing the surface as a native window handle
//   - render: the one-time GPU bootstrap against the constrained profile
//   - relay: bidirectional parent <-> worker message forwarding
//   - worker: the worker-side inbox and its handoff state machine
//   - host: the window-side session tying the pieces together
//
// # Execution model
//
// Each context is a single-goroutine event loop; there is no shared mutable
// state between contexts beyond the moved resources themselves. Ports preserve
// per-sender FIFO ordering. Delivery is at-most-once with no acknowledgement
// or retry.
//
// # Quick start
//
//	parent, windowSide := offscreen.NewChannel()
//	session, err := host.Start(windowSide, wgpu.New())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer session.Stop()
package offscreen
