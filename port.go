package offscreen

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// portBuffer is the per-direction delivery queue depth. Contexts drain their
// inbox continuously, so the buffer only absorbs short bursts; a full buffer
// blocks the sender until the receiver catches up or the channel closes.
const portBuffer = 64

// link is the shared state of an entangled port pair. Closing either port
// closes the link for both.
type link struct {
	aToB chan Envelope
	bToA chan Envelope
	done chan struct{}
	once sync.Once
}

func (l *link) close() {
	l.once.Do(func() { close(l.done) })
}

// Port is one endpoint of an entangled message channel pair, the in-process
// equivalent of a browser MessagePort. Messages posted on one port arrive on
// its peer in FIFO order.
//
// A Port is itself a Transferable: listing it in an envelope's transfer list
// moves it to the receiving context and invalidates the sender's reference.
//
// A Port is owned by a single context and is not safe for concurrent use from
// multiple goroutines of the same context.
type Port struct {
	send  chan Envelope
	recv  chan Envelope
	l     *link
	moved atomic.Bool
}

// NewChannel creates an entangled pair of ports. Envelopes posted on one port
// are received on the other.
func NewChannel() (*Port, *Port) {
	l := &link{
		aToB: make(chan Envelope, portBuffer),
		bToA: make(chan Envelope, portBuffer),
		done: make(chan struct{}),
	}
	a := &Port{send: l.aToB, recv: l.bToA, l: l}
	b := &Port{send: l.bToA, recv: l.aToB, l: l}
	return a, b
}

// Post sends an envelope to the peer port.
//
// Every resource in the envelope's transfer list is moved before the send:
// the sender's references are invalidated and the envelope is rewritten to
// carry the receiver-bound references. When the payload is itself one of the
// transferables (the canvas handoff), it is rewritten too.
//
// Post fails with ErrTransferred if this port was moved to another context or
// if a listed transferable has already been moved, and with ErrPortClosed if
// either side of the channel is closed. A failed Post does not close the
// channel.
func (p *Port) Post(e Envelope) error {
	if p.moved.Load() {
		return ErrTransferred
	}
	for i, t := range e.Transfer {
		moved, err := t.Transfer()
		if err != nil {
			return fmt.Errorf("offscreen: transferable %d: %w", i, err)
		}
		if pt, ok := e.Payload.(Transferable); ok && pt == t {
			e.Payload = moved
		}
		e.Transfer[i] = moved
	}
	select {
	case <-p.l.done:
		return ErrPortClosed
	case p.send <- e:
		return nil
	}
}

// Receive blocks until an envelope arrives or the channel closes. It returns
// false once the channel is closed and all pending envelopes have been
// drained, or if this port was moved to another context.
func (p *Port) Receive() (Envelope, bool) {
	if p.moved.Load() {
		return Envelope{}, false
	}
	select {
	case e := <-p.recv:
		return e, true
	case <-p.l.done:
	}
	// The channel closed; deliver anything that was already in flight.
	select {
	case e := <-p.recv:
		return e, true
	default:
		return Envelope{}, false
	}
}

// Events exposes the inbound queue for use in select loops. Use together with
// Done to observe channel teardown; the returned channel itself is never
// closed.
func (p *Port) Events() <-chan Envelope {
	return p.recv
}

// Done is closed when either side of the channel closes.
func (p *Port) Done() <-chan struct{} {
	return p.l.done
}

// Close tears down the channel for both sides. Pending envelopes already
// delivered to the peer's queue remain receivable. Close is idempotent; a
// moved port cannot close the channel it no longer owns.
func (p *Port) Close() {
	if p.moved.Load() {
		return
	}
	p.l.close()
}

// Transfer implements Transferable. The returned port shares the channel; the
// old reference fails every operation with ErrTransferred from now on.
func (p *Port) Transfer() (Transferable, error) {
	if !p.moved.CompareAndSwap(false, true) {
		return nil, ErrTransferred
	}
	return &Port{send: p.send, recv: p.recv, l: p.l}, nil
}

var _ Transferable = (*Port)(nil)
