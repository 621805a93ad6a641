package gbn

import (
	"net"
	"sync/atomic"
	"time"
)

// atomicCounter is an asynchronous-safe timeout counter: timer expiry and
// the send/recv call path are logically concurrent, even though in this
// implementation the "timer" is a deadline checked inline rather than a
// goroutine, so the field is still declared atomic to document and enforce
// that contract.
type atomicCounter struct {
	v atomic.Int32
}

func (c *atomicCounter) Load() int     { return int(c.v.Load()) }
func (c *atomicCounter) Store(n int)   { c.v.Store(int32(n)) }
func (c *atomicCounter) Add(delta int) int {
	return int(c.v.Add(int32(delta)))
}

// armTimer arms the single logical per-reply timer by setting a read
// deadline timeout seconds in the future on conn. Disarming on success is
// implicit: the next armTimer call (or a SetReadDeadline with the zero
// time) simply replaces it.
func armTimer(conn net.PacketConn, timeout time.Duration) error {
	return conn.SetReadDeadline(time.Now().Add(timeout))
}

// disarmTimer clears any deadline set by armTimer.
func disarmTimer(conn net.PacketConn) error {
	return conn.SetReadDeadline(time.Time{})
}

// isTimeout reports whether err is a deadline expiry: a net.Error that
// reports Timeout() true.
func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}

// timeoutOutcome is returned by timeoutBudget to tell the caller what
// happened on this attempt of a reply-awaiting operation.
type timeoutOutcome int

const (
	// outcomeReady means a datagram was received; the caller should
	// inspect it and decide whether to accept, retry, or re-arm.
	outcomeReady timeoutOutcome = iota
	// outcomeRetry means the attempt timed out but the budget remains;
	// the caller should resend and loop.
	outcomeRetry
	// outcomeBroken means the timeout threshold was reached; status is
	// already BROKEN and the caller must return ConnectionBroken.
	outcomeBroken
)

// timeoutBudget centralizes the "five consecutive timeouts declares the
// connection BROKEN" policy that both the handshake and close paths rely on
// identically; rather than duplicate the loop at each call site, it is
// factored once here.
func (s *Socket) timeoutBudget(err error) timeoutOutcome {
	if err == nil {
		s.state.numTimeouts.Store(0)
		return outcomeReady
	}
	if !isTimeout(err) {
		return outcomeReady // non-timeout errors are handled by the caller directly.
	}
	n := s.state.numTimeouts.Add(1)
	if n >= s.cfg.timeoutThreshold {
		s.state.status = StatusBroken
		return outcomeBroken
	}
	return outcomeRetry
}
