package network

// PeerHandle is the worker pool's view of a single connected peer: enough to
// reply to it directly. The actual socket/framing is out of scope (see
// SPEC_FULL.md §1 Non-goals) — TCPTransport in tcp.go is the concrete
// implementation, and main.go wires it in.
type PeerHandle interface {
	// ID identifies the peer for logging.
	ID() string
	// Send writes msg to this peer. Errors are logged and otherwise
	// ignored: a single peer's failure must never abort the worker pool
	// (spec §7).
	Send(msg Message) error
}

// Transport is the worker pool's view of the wider peer set: broadcasting
// and inbound delivery. Inbound messages arrive on the channel returned by
// Inbox; Broadcast fans a message out to every currently connected peer.
type Transport interface {
	// Inbox returns the bounded channel of decoded (message, peer) pairs
	// the pool reads from.
	Inbox() <-chan Envelope
	// Broadcast sends msg to every connected peer. Must not block on, or
	// be called while holding, any core lock (spec §5).
	Broadcast(msg Message)
}

// Envelope pairs a decoded message with the peer it arrived from.
type Envelope struct {
	Message Message
	Peer    PeerHandle
}

// InboxCapacity is the bounded peer-to-worker-pool queue size mandated by
// the concurrency model: backpressure against an abusive peer.
const InboxCapacity = 10_000
