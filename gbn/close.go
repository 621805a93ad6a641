package gbn

import (
	"github.com/soypat/gbnet/gbnerr"
	"github.com/soypat/gbnet/packet"
)

// closeInitiator sends FIN with seqnum set to the connection's
// expected_seqnum, and retries under the same shared timeout budget as
// connect. A reply that fails validation here is retried immediately
// without charging the timeout counter — unlike connect's SYNACK, which
// is fatal on the first corrupt or out-of-order reply.
func (s *Socket) closeInitiator() error {
	s.state.status = StatusFinSent
	s.state.seqnum = s.state.expectedSeq
	s.state.numTimeouts.Store(0)

	fin := packet.NewFIN(s.state.seqnum)
	n, err := fin.Marshal(s.txbuf[:])
	if err != nil {
		return err
	}

	for {
		if _, err := s.conn.WriteTo(s.txbuf[:n], s.state.peerAddr); err != nil {
			return &gbnerr.Transport{Op: "close", Err: err}
		}
		if err := armTimer(s.conn, s.cfg.timeout); err != nil {
			return &gbnerr.Transport{Op: "close", Err: err}
		}

		_, _, rerr := s.conn.ReadFrom(s.rxbuf[:])
		switch s.timeoutBudget(rerr) {
		case outcomeBroken:
			return &gbnerr.Broken{Op: "close"}
		case outcomeRetry:
			continue
		}
		if rerr != nil {
			return &gbnerr.Transport{Op: "close", Err: rerr}
		}
		disarmTimer(s.conn)

		var reply packet.Packet
		ok, _ := packet.Unmarshal(s.rxbuf[:], &reply)
		if !ok || reply.Type != packet.FINACK || reply.Seq != s.state.seqnum {
			continue
		}
		return nil
	}
}
