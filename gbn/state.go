// Package gbn implements a reliable, ordered, byte-stream transport over an
// unreliable datagram service using Go-Back-N retransmission with an
// adaptive {1,2,4} transmission window. A Socket plays the role of a
// connection handle: it is created by Open and moves through a small state
// machine (CLOSED, BOUND, LISTENING, SYN_SENT, SYN_RCVD, ESTABLISHED,
// FIN_SENT, FIN_RCVD, BROKEN) as the handshake, data transfer and teardown
// proceed.
package gbn

import "net"

// Status is the connection lifecycle state of a Socket.
type Status uint8

const (
	StatusClosed Status = iota
	StatusBound
	StatusListening
	StatusSynSent
	StatusSynRcvd
	StatusEstablished
	StatusFinSent
	StatusFinRcvd
	StatusBroken
)

func (s Status) String() string {
	switch s {
	case StatusClosed:
		return "CLOSED"
	case StatusBound:
		return "BOUND"
	case StatusListening:
		return "LISTENING"
	case StatusSynSent:
		return "SYN_SENT"
	case StatusSynRcvd:
		return "SYN_RCVD"
	case StatusEstablished:
		return "ESTABLISHED"
	case StatusFinSent:
		return "FIN_SENT"
	case StatusFinRcvd:
		return "FIN_RCVD"
	case StatusBroken:
		return "BROKEN"
	default:
		return "STATUS(?)"
	}
}

// connState is the per-Socket connection state: status, the last sequence
// number successfully transmitted or accepted, the next sequence number the
// peer is expected to use, the peer's address, and the current transmission
// window. It is attached to a Socket rather than kept process-wide, since a
// process may hold more than one Socket at a time even though each Socket
// itself hosts only one connection.
type connState struct {
	status       Status
	seqnum       uint8
	expectedSeq  uint8
	peerAddr     net.Addr
	window       window
	numTimeouts  atomicCounter
}

// reset restores connState to its CLOSED zero value, releasing the peer
// address and collapsing the window. Called on Close.
func (c *connState) reset() {
	c.status = StatusClosed
	c.seqnum = 0
	c.expectedSeq = 0
	c.peerAddr = nil
	c.window = newWindow()
	c.numTimeouts.Store(0)
}
