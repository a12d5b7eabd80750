package offscreen

// Kind discriminates protocol messages. The string forms match the wire-level
// type tags of the original browser protocol.
type Kind uint8

const (
	// KindOther is an application-defined message relayed verbatim.
	KindOther Kind = iota

	// KindCanvas carries the one-time surface handoff from window to worker.
	// Its payload is the offscreen surface, which must also appear in the
	// envelope's transfer list.
	KindCanvas

	// KindPluginChannelRequest asks the parent to create a plugin channel.
	// Worker-originated; the payload is a ChannelInfo naming the requested
	// channel and nothing is transferred.
	KindPluginChannelRequest

	// KindPluginChannelCreated delivers a negotiated plugin channel.
	// Parent-originated; the payload is a ChannelInfo and the transfer list
	// carries the channel's port(s).
	KindPluginChannelCreated
)

// String returns the wire-level name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCanvas:
		return "CANVAS"
	case KindPluginChannelRequest:
		return "PLUGIN_CHANNEL_REQUEST"
	case KindPluginChannelCreated:
		return "PLUGIN_CHANNEL_CREATED"
	default:
		return "OTHER"
	}
}

// ChannelInfo is the payload of the plugin channel negotiation messages.
type ChannelInfo struct {
	// Channel identifies the plugin channel being requested or delivered.
	Channel string
}

// Envelope is a typed message wrapper carrying a discriminated payload and an
// explicit list of transferable resources to move with it.
//
// Every resource listed in Transfer must be reachable from Payload or be the
// payload itself. After a successful send the sender's reference to each
// transferred resource is invalid; ownership has unconditionally moved to the
// receiver.
//
// Envelopes are constructed immediately before a send and discarded after
// delivery; they are never persisted.
type Envelope struct {
	Kind     Kind
	Payload  any
	Transfer []Transferable
}
