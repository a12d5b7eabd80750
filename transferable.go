package offscreen

import "errors"

// Errors shared by the transfer protocol.
var (
	// ErrTransferred is returned when a resource is used through a reference
	// whose ownership has already moved to another context.
	ErrTransferred = errors.New("offscreen: resource was transferred to another context")

	// ErrPortClosed is returned when posting to or through a port whose
	// channel has been closed on either side.
	ErrPortClosed = errors.New("offscreen: message port is closed")

	// ErrMissingTransferable is returned when a message that must carry a
	// transferred resource arrives without one. The affected message is
	// dropped; the error is never fatal.
	ErrMissingTransferable = errors.New("offscreen: expected transferable missing from message")
)

// Transferable is a resource that moves between contexts by ownership
// transfer rather than copy.
//
// Transfer invalidates the reference it is called on and returns a fresh
// reference bound to the receiving context. It is called by the sending port
// during Post; application code normally never calls it directly. After it
// returns, any use of the old reference fails with ErrTransferred.
// Transferring an already-moved resource fails with ErrTransferred.
type Transferable interface {
	Transfer() (Transferable, error)
}
