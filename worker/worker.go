// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package worker runs the rendering context: a dedicated event loop that
// receives the offscreen canvas handoff, bootstraps GPU resources against it,
// and then drives a frame loop while exchanging messages with the rest of the
// application through its port.
package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/offscreen"
	"github.com/gogpu/offscreen/canvas"
	"github.com/gogpu/offscreen/handle"
	"github.com/gogpu/offscreen/render"
)

// DefaultName is the worker name used when none is configured.
const DefaultName = "App"

// pendingLimit bounds the queue of messages that arrive before the canvas
// handoff completes. Messages beyond the limit are dropped with a warning.
const pendingLimit = 32

// State is the worker lifecycle state.
type State int32

const (
	// StateAwaitingCanvas is the initial state: the worker is listening on
	// its port for the canvas handoff.
	StateAwaitingCanvas State = iota
	// StateReady means GPU resources are bootstrapped and the frame loop is
	// running.
	StateReady
)

// String returns the state name.
func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "awaiting-canvas"
}

// PortHandler receives a dedicated port established for a named channel.
type PortHandler func(channel string, port *offscreen.Port)

// MessageHandler receives application messages the worker does not consume
// itself.
type MessageHandler func(e offscreen.Envelope)

// ReadyFunc runs once on the worker goroutine after GPU bootstrap succeeds.
type ReadyFunc func(res *render.Resources, surface *canvas.Offscreen)

// FrameFunc renders one frame. It runs on the worker goroutine at the
// configured interval once the worker is ready.
type FrameFunc func(res *render.Resources, surface *canvas.Offscreen)

// Option configures a Worker.
type Option func(*Worker)

// WithName sets the worker name used in logs and as the device label prefix.
// Defaults to DefaultName.
func WithName(name string) Option {
	return func(w *Worker) { w.name = name }
}

// WithProfile overrides the GPU capability profile used for bootstrap.
func WithProfile(p render.Profile) Option {
	return func(w *Worker) { w.profile = p }
}

// WithFrameFunc installs the frame callback, invoked every interval once the
// worker is ready.
func WithFrameFunc(fn FrameFunc, interval time.Duration) Option {
	return func(w *Worker) {
		w.frame = fn
		w.frameEvery = interval
	}
}

// WithReadyFunc installs a callback that runs once after bootstrap, before
// any queued messages are replayed.
func WithReadyFunc(fn ReadyFunc) Option {
	return func(w *Worker) { w.onReady = fn }
}

// WithMessageHandler installs the handler for application messages.
func WithMessageHandler(fn MessageHandler) Option {
	return func(w *Worker) { w.onMessage = fn }
}

// WithPortHandler registers a plugin channel handler at construction time,
// equivalent to calling Register before Start.
func WithPortHandler(channel string, handler PortHandler) Option {
	return func(w *Worker) { w.handlers[channel] = handler }
}

// Worker is the rendering context's inbox and event loop. All callbacks run
// on the worker's own goroutine; the Worker's exported methods are safe to
// call from other goroutines.
type Worker struct {
	name       string
	port       *offscreen.Port
	drv        render.Driver
	profile    render.Profile
	frame      FrameFunc
	frameEvery time.Duration
	onReady    ReadyFunc
	onMessage  MessageHandler

	// handlers is fixed at Start; delivered tracks exactly-once port handoff
	// per channel and is touched only by the loop goroutine.
	handlers  map[string]PortHandler
	delivered map[string]bool

	state atomic.Int32

	// Loop-goroutine state.
	res     *render.Resources
	surface *canvas.Offscreen
	pending []offscreen.Envelope

	quit chan struct{}
	done chan struct{}

	errMu sync.Mutex
	err   error

	startOnce sync.Once
	stopOnce  sync.Once
}

// New creates a worker that listens on port and bootstraps GPU resources with
// drv once the canvas arrives. The worker assumes receive ownership of the
// port.
func New(port *offscreen.Port, drv render.Driver, opts ...Option) *Worker {
	w := &Worker{
		name:       DefaultName,
		port:       port,
		drv:        drv,
		profile:    render.WebGL2(),
		frameEvery: time.Second / 60,
		handlers:   make(map[string]PortHandler),
		delivered:  make(map[string]bool),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Register installs a handler for a named plugin channel. The worker requests
// the channel from the parent once it is ready and hands the established port
// to the handler exactly once. Register must be called before Start.
func (w *Worker) Register(channel string, handler PortHandler) {
	w.handlers[channel] = handler
}

// Start launches the worker's event loop.
func (w *Worker) Start() {
	w.startOnce.Do(func() {
		go w.run()
	})
}

// Stop shuts the worker down and waits for the loop to exit. Resources
// acquired by the bootstrap are released.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.quit) })
	<-w.done
}

// Done is closed when the worker's loop has exited, whether by Stop, port
// closure, or a fatal bootstrap failure.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Err reports why the worker exited. It is nil while the worker runs and
// after a clean port-closure exit; a bootstrap failure surfaces here.
func (w *Worker) Err() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}

// State returns the current lifecycle state.
func (w *Worker) State() State {
	return State(w.state.Load())
}

// Resources returns the bootstrapped GPU resources, or nil before the worker
// is ready.
func (w *Worker) Resources() *render.Resources {
	if w.State() != StateReady {
		return nil
	}
	return w.res
}

// RequestPluginChannel asks the parent, through the relay, to establish a
// dedicated channel with the given name. The parent answers with a
// channel-created message carrying a transferred port.
func (w *Worker) RequestPluginChannel(channel string) error {
	return w.port.Post(offscreen.Envelope{
		Kind:    offscreen.KindPluginChannelRequest,
		Payload: offscreen.ChannelInfo{Channel: channel},
	})
}

func (w *Worker) setErr(err error) {
	w.errMu.Lock()
	w.err = err
	w.errMu.Unlock()
}

func (w *Worker) run() {
	defer close(w.done)
	defer func() {
		if w.res != nil {
			w.res.Release()
		}
	}()
	var tick <-chan time.Time
	var ticker *time.Ticker
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-w.quit:
			return
		case e := <-w.port.Events():
			fatal := w.dispatch(e)
			if fatal {
				return
			}
			if w.State() == StateReady && ticker == nil && w.frame != nil {
				ticker = time.NewTicker(w.frameEvery)
				tick = ticker.C
			}
		case <-w.port.Done():
			// Drain messages that were in flight when the channel closed.
			for {
				e, ok := w.port.Receive()
				if !ok {
					return
				}
				if w.dispatch(e) {
					return
				}
			}
		case <-tick:
			w.frame(w.res, w.surface)
		}
	}
}

// dispatch routes one envelope. It returns true when the worker must exit.
func (w *Worker) dispatch(e offscreen.Envelope) bool {
	if e.Kind == offscreen.KindCanvas {
		return w.handleCanvas(e)
	}
	if w.State() != StateReady {
		if len(w.pending) >= pendingLimit {
			offscreen.Logger().Warn("dropping message received before canvas handoff",
				"worker", w.name, "kind", e.Kind.String())
			return false
		}
		w.pending = append(w.pending, e)
		return false
	}
	w.deliver(e)
	return false
}

// handleCanvas performs the GPU bootstrap against the transferred surface.
// A bootstrap failure is fatal for the worker.
func (w *Worker) handleCanvas(e offscreen.Envelope) bool {
	log := offscreen.Logger()
	if w.State() == StateReady {
		log.Warn("dropping duplicate canvas handoff", "worker", w.name)
		return false
	}

	surface, ok := e.Payload.(*canvas.Offscreen)
	if !ok && len(e.Transfer) > 0 {
		surface, ok = e.Transfer[0].(*canvas.Offscreen)
	}
	if !ok || surface == nil {
		log.Warn("dropping canvas message without a surface",
			"worker", w.name, "err", offscreen.ErrMissingTransferable)
		return false
	}

	// The bridge is constructed here so its affinity is bound to the worker
	// goroutine, the only place the window handle may be produced.
	bridge := handle.NewBridge(surface)
	res, err := render.Bootstrap(context.Background(), w.drv, bridge,
		render.WithProfile(w.profile),
		render.WithLabel(w.name+"-device"))
	if err != nil {
		log.Error("GPU bootstrap failed", "worker", w.name, "err", err)
		w.setErr(err)
		return true
	}

	w.res = res
	w.surface = surface
	w.state.Store(int32(StateReady))
	wsurf, hsurf := surface.Size()
	log.Info("worker ready", "worker", w.name, "width", wsurf, "height", hsurf)

	if w.onReady != nil {
		w.onReady(res, surface)
	}

	// Replay messages that arrived before the handoff, in arrival order.
	pending := w.pending
	w.pending = nil
	for _, qe := range pending {
		w.deliver(qe)
	}

	for channel := range w.handlers {
		if err := w.RequestPluginChannel(channel); err != nil {
			log.Warn("plugin channel request failed",
				"worker", w.name, "channel", channel, "err", err)
		}
	}
	return false
}

// deliver hands a post-handoff envelope to its consumer.
func (w *Worker) deliver(e offscreen.Envelope) {
	log := offscreen.Logger()
	switch e.Kind {
	case offscreen.KindPluginChannelCreated:
		info, ok := e.Payload.(offscreen.ChannelInfo)
		if !ok {
			log.Warn("dropping channel-created message with bad payload", "worker", w.name)
			return
		}
		var port *offscreen.Port
		if len(e.Transfer) > 0 {
			port, _ = e.Transfer[0].(*offscreen.Port)
		}
		if port == nil {
			log.Warn("dropping channel-created message without a port",
				"worker", w.name, "channel", info.Channel,
				"err", offscreen.ErrMissingTransferable)
			return
		}
		if w.delivered[info.Channel] {
			log.Warn("dropping duplicate channel-created message",
				"worker", w.name, "channel", info.Channel)
			return
		}
		handler, ok := w.handlers[info.Channel]
		if !ok {
			log.Warn("dropping channel-created message for unknown channel",
				"worker", w.name, "channel", info.Channel)
			return
		}
		w.delivered[info.Channel] = true
		handler(info.Channel, port)
	default:
		if w.onMessage != nil {
			w.onMessage(e)
			return
		}
		log.Debug("unhandled message", "worker", w.name, "kind", e.Kind.String())
	}
}
