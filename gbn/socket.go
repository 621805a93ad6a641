package gbn

import (
	"context"
	"net"

	"github.com/soypat/gbnet/gbnerr"
	"github.com/soypat/gbnet/packet"
)

// Socket is a connection handle exposing a socket-like stream API. A
// Socket wraps a datagram-send/receive capability (a net.PacketConn — the
// caller is responsible for constructing and, if relevant, dialing or
// binding it; raw socket creation and hostname resolution are left to the
// caller) and carries exactly one connection's state at a time.
type Socket struct {
	conn net.PacketConn
	cfg  config

	state     connState
	localAddr net.Addr

	rxbuf [packet.Size]byte // scratch decode buffer, reused across calls
	txbuf [packet.Size]byte // scratch encode buffer, reused across calls
}

// Open wraps conn in a new Socket in the CLOSED state. conn is typically a
// *net.UDPConn or a channel.Conn layered over one; Open performs no network
// I/O itself.
func Open(conn net.PacketConn, opts ...Option) *Socket {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Socket{conn: conn, cfg: cfg}
	s.state.reset()
	return s
}

// Bind transitions CLOSED -> BOUND and records local as the socket's local
// address for informational purposes; it performs no network binding
// itself, since conn is already constructed and, if applicable, bound by
// the caller.
func (s *Socket) Bind(local net.Addr) error {
	if s.state.status != StatusClosed {
		return &gbnerr.IllegalState{Op: "bind", Have: s.state.status.String(), Want: "CLOSED"}
	}
	s.localAddr = local
	s.state.status = StatusBound
	return nil
}

// Listen transitions BOUND -> LISTENING. There is no backlog: a Socket
// hosts at most one connection.
func (s *Socket) Listen() error {
	if s.state.status != StatusBound {
		return &gbnerr.IllegalState{Op: "listen", Have: s.state.status.String(), Want: "BOUND"}
	}
	s.state.status = StatusListening
	return nil
}

// Accept blocks until a peer completes the SYN/SYNACK handshake against
// this Socket, then returns it, now ESTABLISHED. Only one connection may
// occupy a given state object at a time, and there is no multiplexing, so
// Accept returns the receiver itself rather than a new child Socket.
func (s *Socket) Accept(ctx context.Context) (*Socket, error) {
	if s.state.status != StatusListening {
		return nil, &gbnerr.IllegalState{Op: "accept", Have: s.state.status.String(), Want: "LISTENING"}
	}
	if err := s.acceptHandshake(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Connect transitions CLOSED -> ESTABLISHED by running the client side of
// the SYN/SYNACK handshake against peer.
func (s *Socket) Connect(ctx context.Context, peer net.Addr) error {
	if s.state.status != StatusClosed {
		return &gbnerr.IllegalState{Op: "connect", Have: s.state.status.String(), Want: "CLOSED"}
	}
	return s.connectHandshake(ctx, peer)
}

// Send transmits b over the established connection using Go-Back-N,
// returning the number of bytes transmitted. See sender.go for the full
// retransmission and window-adaptation logic.
func (s *Socket) Send(b []byte) (int, error) {
	if s.state.status == StatusBound || s.state.status == StatusBroken {
		return 0, &gbnerr.IllegalState{Op: "send", Have: s.state.status.String(), Want: "not BOUND or BROKEN"}
	}
	return s.send(b)
}

// Recv reads the next in-order segment into buf, or returns 0 with no error
// once the peer's FIN has been received. See receiver.go for the full
// validation and cumulative-ACK logic.
func (s *Socket) Recv(buf []byte) (int, error) {
	if s.state.status != StatusEstablished {
		return 0, &gbnerr.IllegalState{Op: "recv", Have: s.state.status.String(), Want: "ESTABLISHED"}
	}
	return s.recv(buf)
}

// Close tears the connection down. From SYN_SENT, SYN_RCVD or ESTABLISHED
// it runs the initiator close handshake (see close.go); from BOUND,
// LISTENING, FIN_SENT, FIN_RCVD or BROKEN it releases the socket directly;
// from CLOSED it reports AlreadyClosed.
func (s *Socket) Close() error {
	switch s.state.status {
	case StatusClosed:
		return &gbnerr.AlreadyClosed{Op: "close"}
	case StatusSynSent, StatusSynRcvd, StatusEstablished:
		err := s.closeInitiator()
		s.state.reset()
		return err
	default: // BOUND, LISTENING, FIN_SENT, FIN_RCVD, BROKEN
		s.state.reset()
		return nil
	}
}
