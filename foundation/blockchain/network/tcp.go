package network

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
)

// TCPTransport is the concrete, raw-socket Transport: every peer connection
// (inbound or outbound) is framed as a 4-byte big-endian length prefix
// followed by a Message encoded via this package's wire codec. No library
// in the retrieved examples implements a peer-to-peer socket transport for
// this protocol, so this is built directly on net and bufio-free io, the
// standard library's own framing primitives (see DESIGN.md).
type TCPTransport struct {
	listener net.Listener
	inbox    chan Envelope
	log      EventHandler

	mu    sync.Mutex
	peers map[string]*tcpPeer
}

// NewTCPTransport binds addr and returns a Transport ready to Serve.
func NewTCPTransport(addr string, log EventHandler) (*TCPTransport, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("network: tcp: listen %s: %w", addr, err)
	}

	return &TCPTransport{
		listener: l,
		inbox:    make(chan Envelope, InboxCapacity),
		log:      log,
		peers:    make(map[string]*tcpPeer),
	}, nil
}

// Addr returns the transport's bound local address.
func (t *TCPTransport) Addr() string {
	return t.listener.Addr().String()
}

// Serve accepts inbound connections until the listener is closed.
func (t *TCPTransport) Serve() {
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			t.log("network: tcp: accept: %s", err)
			return
		}
		t.adopt(conn)
	}
}

// Connect dials addr and registers the resulting connection as a peer. It
// does not retry; callers needing the "retry once per second until first
// success" startup behavior loop on Connect themselves.
func (t *TCPTransport) Connect(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	t.adopt(conn)
	return nil
}

// Close shuts down the listener and every peer connection.
func (t *TCPTransport) Close() error {
	t.mu.Lock()
	for _, p := range t.peers {
		p.conn.Close()
	}
	t.mu.Unlock()
	return t.listener.Close()
}

func (t *TCPTransport) adopt(conn net.Conn) {
	p := &tcpPeer{id: conn.RemoteAddr().String(), conn: conn}

	t.mu.Lock()
	t.peers[p.id] = p
	t.mu.Unlock()

	t.log("network: tcp: peer connected: %s", p.id)

	go t.readLoop(p)
}

func (t *TCPTransport) readLoop(p *tcpPeer) {
	defer func() {
		t.mu.Lock()
		delete(t.peers, p.id)
		t.mu.Unlock()
		p.conn.Close()
		t.log("network: tcp: peer disconnected: %s", p.id)
	}()

	for {
		data, err := readFrame(p.conn)
		if err != nil {
			if err != io.EOF {
				t.log("network: tcp: %s: read frame: %s", p.id, err)
			}
			return
		}

		msg, err := Decode(data)
		if err != nil {
			t.log("network: tcp: %s: decode: %s", p.id, err)
			continue // malformed message: drop and continue per the peer-level error design
		}

		t.inbox <- Envelope{Message: msg, Peer: p}
	}
}

// Inbox returns the shared channel every accepted/connected peer's decoded
// messages are pushed onto.
func (t *TCPTransport) Inbox() <-chan Envelope {
	return t.inbox
}

// Broadcast sends msg to every currently connected peer, logging (not
// failing) on a dead connection; core locks are never held during the
// writes below since Broadcast is always called after the caller has
// released them.
func (t *TCPTransport) Broadcast(msg Message) {
	t.mu.Lock()
	peers := make([]*tcpPeer, 0, len(t.peers))
	for _, p := range t.peers {
		peers = append(peers, p)
	}
	t.mu.Unlock()

	for _, p := range peers {
		if err := p.Send(msg); err != nil {
			t.log("network: tcp: broadcast to %s: %s", p.id, err)
		}
	}
}

// tcpPeer is the PeerHandle backed by a live net.Conn.
type tcpPeer struct {
	id   string
	mu   sync.Mutex
	conn net.Conn
}

func (p *tcpPeer) ID() string { return p.id }

func (p *tcpPeer) Send(msg Message) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return writeFrame(p.conn, data)
}

func writeFrame(w io.Writer, data []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}

	n := binary.BigEndian.Uint32(lenBuf[:])
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}
