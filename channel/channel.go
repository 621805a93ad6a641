// Package channel implements the unreliable channel shim that sits between
// the Go-Back-N engine and an underlying datagram transport: it wraps a
// net.PacketConn and simulates packet loss and single-bit corruption with
// configurable probabilities.
package channel

import (
	"net"
	"sync"

	"github.com/soypat/gbnet/internal/prand"
)

// Default simulated-channel parameters.
const (
	DefaultLossProb = 0.09
	DefaultCorrProb = 0.001
)

// Conn wraps a net.PacketConn, the datagram send/receive capability the
// Go-Back-N engine is built against, and is the sole source of simulated
// loss and corruption in this implementation; a real network's own packet
// loss and bit errors enter the engine through the exact same error paths,
// since the shim otherwise passes ReadFrom/WriteTo straight through.
type Conn struct {
	net.PacketConn

	mu       sync.Mutex
	rng      *prand.Source
	lossProb float64
	corrProb float64
}

// New wraps conn with the default loss and corruption probabilities.
func New(conn net.PacketConn) *Conn {
	return &Conn{
		PacketConn: conn,
		rng:        prand.NewSource(prand.Seed()),
		lossProb:   DefaultLossProb,
		corrProb:   DefaultCorrProb,
	}
}

// SetProbabilities overrides the loss and corruption probabilities. Either
// may be 0 to disable that fault, as required by the loss=0/corr=0 round-
// trip law.
func (c *Conn) SetProbabilities(lossProb, corrProb float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lossProb = lossProb
	c.corrProb = corrProb
}

// ReadFrom reads the next datagram off the underlying connection, applying
// simulated loss and corruption per call:
//
//  1. With probability lossProb the datagram actually read is silently
//     discarded and the read retried, as if it never crossed the network.
//     The caller still only ever sees a well-formed buffer or a real error
//     (including a deadline timeout, if the retries run past it), never
//     undefined memory.
//  2. Otherwise, with probability corrProb, one byte of the datagram is
//     chosen uniformly at random and its lowest bit is flipped before the
//     datagram is handed back to the caller.
func (c *Conn) ReadFrom(buf []byte) (n int, addr net.Addr, err error) {
	for {
		n, addr, err = c.PacketConn.ReadFrom(buf)
		if err != nil {
			return 0, addr, err
		}
		c.mu.Lock()
		lost := c.rng.Float64() < c.lossProb
		var corrupt bool
		if !lost {
			corrupt = c.rng.Float64() < c.corrProb
		}
		idx := 0
		if corrupt && n > 0 {
			idx = c.rng.Intn(n)
		}
		c.mu.Unlock()
		if lost {
			continue
		}
		if corrupt {
			buf[idx] ^= 0x01
		}
		return n, addr, nil
	}
}
