// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package host assembles the window context: it creates the canvas, detaches
// its offscreen surface, spawns the rendering worker, starts the relay
// between the parent and the worker, and performs the canvas handoff.
package host

import (
	"fmt"

	"github.com/gogpu/offscreen"
	"github.com/gogpu/offscreen/canvas"
	"github.com/gogpu/offscreen/relay"
	"github.com/gogpu/offscreen/render"
	"github.com/gogpu/offscreen/worker"
)

// WorkerName is the default name of the spawned rendering worker.
const WorkerName = worker.DefaultName

// Option configures a session.
type Option func(*options)

type options struct {
	width, height int
	canvasOpts    []canvas.Option
	workerOpts    []worker.Option
}

func defaultOptions() options {
	return options{width: canvas.DefaultWidth, height: canvas.DefaultHeight}
}

// WithCanvasSize overrides the canvas pixel dimensions.
func WithCanvasSize(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithCanvasOptions forwards options to the canvas.
func WithCanvasOptions(opts ...canvas.Option) Option {
	return func(o *options) {
		o.canvasOpts = append(o.canvasOpts, opts...)
	}
}

// WithWorkerOptions forwards options to the spawned worker.
func WithWorkerOptions(opts ...worker.Option) Option {
	return func(o *options) {
		o.workerOpts = append(o.workerOpts, opts...)
	}
}

// Session is a running window context: a canvas whose surface has been handed
// off, the worker rendering to it, and the relay joining the worker to the
// parent.
type Session struct {
	Canvas *canvas.Canvas
	Worker *worker.Worker
	Relay  *relay.Relay

	windowPort *offscreen.Port
}

// Start builds and starts a session. The parent port is the session's uplink;
// every worker message that is not consumed locally is relayed to it, and its
// messages are relayed to the worker. The canvas surface is transferred to
// the worker immediately, so by the time Start returns the handoff message is
// already queued on the worker's port.
func Start(parent *offscreen.Port, drv render.Driver, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cv, err := canvas.New(o.width, o.height, o.canvasOpts...)
	if err != nil {
		return nil, fmt.Errorf("host: create canvas: %w", err)
	}
	surface, err := cv.TransferControlToOffscreen()
	if err != nil {
		return nil, fmt.Errorf("host: detach surface: %w", err)
	}

	windowEnd, workerEnd := offscreen.NewChannel()

	wk := worker.New(workerEnd, drv, o.workerOpts...)
	wk.Start()

	rl := relay.New(parent, windowEnd)
	rl.Start()

	err = windowEnd.Post(offscreen.Envelope{
		Kind:     offscreen.KindCanvas,
		Payload:  surface,
		Transfer: []offscreen.Transferable{surface},
	})
	if err != nil {
		rl.Stop()
		windowEnd.Close()
		wk.Stop()
		return nil, fmt.Errorf("host: canvas handoff: %w", err)
	}

	offscreen.Logger().Info("session started",
		"canvas", cv.Name(),
		"width", o.width,
		"height", o.height,
		"driver", drv.Name())

	return &Session{
		Canvas:     cv,
		Worker:     wk,
		Relay:      rl,
		windowPort: windowEnd,
	}, nil
}

// Stop tears the session down: the relay stops forwarding, the worker loop
// exits and releases its GPU resources, and the window-worker channel closes.
func (s *Session) Stop() {
	s.Relay.Stop()
	s.Worker.Stop()
	s.windowPort.Close()
}
