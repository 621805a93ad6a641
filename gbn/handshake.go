package gbn

import (
	"context"
	"log/slog"
	"net"

	"github.com/soypat/gbnet/gbnerr"
	"github.com/soypat/gbnet/internal/prand"
	"github.com/soypat/gbnet/packet"
)

// connectHandshake picks a random initial sequence number, sends SYN, and
// retries on timeout up to the shared timeout budget. A corrupt or
// out-of-order SYNACK is fatal for this call: no further retries are
// attempted at this stage.
func (s *Socket) connectHandshake(ctx context.Context, peer net.Addr) error {
	s.state.peerAddr = peer
	s.state.status = StatusSynSent
	s.state.numTimeouts.Store(0)

	rng := prand.NewSource(prand.Seed())
	initSeq := uint8(rng.Uint32())

	syn := packet.NewSYN(initSeq)
	n, err := syn.Marshal(s.txbuf[:])
	if err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.conn.WriteTo(s.txbuf[:n], peer); err != nil {
			return &gbnerr.Transport{Op: "connect", Err: err}
		}
		s.trace("connect: sent SYN", slog.Int("seq", int(initSeq)))
		if err := armTimer(s.conn, s.cfg.timeout); err != nil {
			return &gbnerr.Transport{Op: "connect", Err: err}
		}

		_, _, rerr := s.conn.ReadFrom(s.rxbuf[:])
		switch s.timeoutBudget(rerr) {
		case outcomeBroken:
			return &gbnerr.Broken{Op: "connect"}
		case outcomeRetry:
			continue
		}
		if rerr != nil {
			return &gbnerr.Transport{Op: "connect", Err: rerr}
		}
		disarmTimer(s.conn)

		var reply packet.Packet
		ok, _ := packet.Unmarshal(s.rxbuf[:], &reply)
		if !ok {
			return &gbnerr.HandshakeCorrupt{Op: "connect"}
		}
		if reply.Type != packet.SYNACK || reply.Seq != initSeq {
			return &gbnerr.HandshakeOutOfOrder{Op: "connect"}
		}

		s.state.seqnum = initSeq + 1
		s.state.expectedSeq = s.state.seqnum
		s.state.status = StatusEstablished
		s.state.numTimeouts.Store(0)
		s.debug("connect: established", slog.Int("isn", int(initSeq)))
		return nil
	}
}

// acceptHandshake blocks for a SYN (discarding corrupt ones and
// re-blocking, with no timeout), then replies with an unreliable,
// unretransmitted SYNACK and moves straight to ESTABLISHED without
// waiting for further confirmation. A lost SYNACK surfaces later as
// client-side timeouts.
//
// Unexpected packets arriving here that are not SYN get an RST reply
// instead of a silent drop or a misinterpretation as data.
func (s *Socket) acceptHandshake(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, addr, err := s.conn.ReadFrom(s.rxbuf[:])
		if err != nil {
			return &gbnerr.Transport{Op: "accept", Err: err}
		}

		var req packet.Packet
		ok, _ := packet.Unmarshal(s.rxbuf[:], &req)
		if !ok {
			s.trace("accept: discarding corrupt packet")
			continue
		}
		if req.Type != packet.SYN {
			s.sendRST(addr, req.Seq)
			continue
		}

		s.state.peerAddr = addr
		s.state.seqnum = req.Seq
		s.state.expectedSeq = req.Seq + 1
		s.state.status = StatusSynRcvd

		synack := packet.NewSYNACK(req.Seq)
		n, err := synack.Marshal(s.txbuf[:])
		if err != nil {
			return err
		}
		if _, err := s.conn.WriteTo(s.txbuf[:n], addr); err != nil {
			return &gbnerr.Transport{Op: "accept", Err: err}
		}

		s.state.status = StatusEstablished
		s.state.numTimeouts.Store(0)
		s.debug("accept: established", slog.Any("peer", addr), slog.Int("seq", int(req.Seq)))
		return nil
	}
}

// sendRST replies to addr with an RST packet, best-effort: a failed send
// here is not itself a protocol error, since the caller that provoked it
// gets nothing back either way and will time out on its own.
func (s *Socket) sendRST(addr net.Addr, seq uint8) {
	rst := packet.NewRST(seq)
	n, err := rst.Marshal(s.txbuf[:])
	if err != nil {
		return
	}
	s.conn.WriteTo(s.txbuf[:n], addr)
	s.warn("rejected connection attempt with RST", slog.Any("peer", addr))
}
