// Package pipenet provides an in-memory net.PacketConn pair connected by
// buffered channels, used to drive deterministic protocol tests without
// binding real UDP sockets.
package pipenet

import (
	"errors"
	"net"
	"time"
)

// addr is a trivial net.Addr identifying one end of a Pair.
type addr string

func (a addr) Network() string { return "pipenet" }
func (a addr) String() string  { return string(a) }

// datagram is one message in flight between the two ends of a Pair.
type datagram struct {
	b    []byte
	from net.Addr
}

// Pair returns two connected net.PacketConn endpoints named a and b. Writes
// to one are delivered to the other's ReadFrom.
func Pair(a, b string) (net.PacketConn, net.PacketConn) {
	toA := make(chan datagram, 64)
	toB := make(chan datagram, 64)
	ca := &conn{local: addr(a), recv: toA, send: toB, closed: make(chan struct{})}
	cb := &conn{local: addr(b), recv: toB, send: toA, closed: make(chan struct{})}
	return ca, cb
}

var errClosed = errors.New("pipenet: use of closed connection")

type conn struct {
	local net.Addr
	recv  chan datagram
	send  chan datagram

	deadline time.Time
	closed   chan struct{}
}

func (c *conn) ReadFrom(p []byte) (n int, addr net.Addr, err error) {
	var timer *time.Timer
	var timeoutCh <-chan time.Time
	if !c.deadline.IsZero() {
		d := time.Until(c.deadline)
		if d <= 0 {
			return 0, nil, deadlineExceededError{}
		}
		timer = time.NewTimer(d)
		defer timer.Stop()
		timeoutCh = timer.C
	}
	select {
	case dg := <-c.recv:
		n = copy(p, dg.b)
		return n, dg.from, nil
	case <-timeoutCh:
		return 0, nil, deadlineExceededError{}
	case <-c.closed:
		return 0, nil, errClosed
	}
}

func (c *conn) WriteTo(p []byte, _ net.Addr) (n int, err error) {
	cp := make([]byte, len(p))
	copy(cp, p)
	select {
	case c.send <- datagram{b: cp, from: c.local}:
		return len(p), nil
	default:
		// Receiver not keeping up; drop silently like a real unreliable
		// datagram transport would under buffer pressure.
		return len(p), nil
	}
}

func (c *conn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

func (c *conn) LocalAddr() net.Addr { return c.local }

func (c *conn) SetDeadline(t time.Time) error {
	c.deadline = t
	return nil
}
func (c *conn) SetReadDeadline(t time.Time) error  { return c.SetDeadline(t) }
func (c *conn) SetWriteDeadline(time.Time) error    { return nil }

type deadlineExceededError struct{}

func (deadlineExceededError) Error() string   { return "pipenet: i/o timeout" }
func (deadlineExceededError) Timeout() bool   { return true }
func (deadlineExceededError) Temporary() bool { return true }
