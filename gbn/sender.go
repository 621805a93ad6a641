package gbn

import (
	"log/slog"

	"github.com/soypat/gbnet/gbnerr"
	"github.com/soypat/gbnet/packet"
)

// send is the Go-Back-N sender: the buffer is split into
// ceil(len/MaxPayload) segments, transmitted in bursts sized by the
// adaptive window, and retransmitted from the oldest unacknowledged
// segment on any timeout, corrupt ACK, or out-of-order ACK.
func (s *Socket) send(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	total := (len(b) + packet.MaxPayload - 1) / packet.MaxPayload
	if total > 1024 {
		total = 1024 // at most 1024 segments per send call
		b = b[:total*packet.MaxPayload]
	}

	startSeq := s.state.seqnum
	segs := make([]packet.Packet, total)
	for i := 0; i < total; i++ {
		lo := i * packet.MaxPayload
		hi := lo + packet.MaxPayload
		if hi > len(b) {
			hi = len(b)
		}
		p, err := packet.NewDATA(startSeq+uint8(i), b[lo:hi])
		if err != nil {
			return 0, err
		}
		segs[i] = p
	}

	s.state.window = newWindow()
	packetsAcked := 0
	var maxSeenSeq uint8
	haveSeen := false

	bytesAcked := func() int {
		n := 0
		for i := 0; i < packetsAcked; i++ {
			n += int(segs[i].PayloadLen)
		}
		return n
	}

	next := 0 // index of the next segment to transmit
	for packetsAcked < total {
		next = max(next, packetsAcked)
		burst := s.state.window.numToSend
		if room := packetsAcked + s.state.window.size - next; burst > room {
			burst = room // at most window.size segments in flight
		}
		if err := armTimer(s.conn, s.cfg.timeout); err != nil {
			return bytesAcked(), &gbnerr.Transport{Op: "send", Err: err}
		}
		for i := 0; i < burst && next < total; i++ {
			idx := next
			next++
			n, err := segs[idx].Marshal(s.txbuf[:])
			if err != nil {
				return bytesAcked(), err
			}
			if _, err := s.conn.WriteTo(s.txbuf[:n], s.state.peerAddr); err != nil {
				return bytesAcked(), &gbnerr.Transport{Op: "send", Err: err}
			}
			if idx == total-1 {
				break // final segment of the input; nothing more to send this burst
			}
		}

		_, _, rerr := s.conn.ReadFrom(s.rxbuf[:])
		switch s.timeoutBudget(rerr) {
		case outcomeBroken:
			return bytesAcked(), &gbnerr.Broken{Op: "send"}
		case outcomeRetry:
			s.state.window.collapse()
			next = packetsAcked
			s.trace("send: timeout, collapsing window", slog.Int("acked", packetsAcked))
			continue
		}
		if rerr != nil {
			return bytesAcked(), &gbnerr.Transport{Op: "send", Err: rerr}
		}

		var ack packet.Packet
		ok, _ := packet.Unmarshal(s.rxbuf[:], &ack)
		if !ok || ack.Type != packet.DATAACK {
			// Corrupt (or unexpected-type) ACK: same recovery as a
			// timeout, but the timeout counter is not incremented.
			s.state.window.collapse()
			next = packetsAcked
			s.trace("send: corrupt ack, collapsing window")
			continue
		}

		expectedSeq := startSeq + uint8(packetsAcked)
		if ack.Seq == expectedSeq {
			s.state.numTimeouts.Store(0)
			disarmTimer(s.conn)
			s.state.window.grow()
			packetsAcked++
			maxSeenSeq = ack.Seq
			haveSeen = true
			continue
		}

		// Out-of-order cumulative ACK.
		baseline := maxSeenSeq
		if !haveSeen {
			baseline = startSeq - 1
		}
		if seqGreater(ack.Seq, baseline) {
			credit := int(ack.Seq - baseline)
			packetsAcked += credit
			if packetsAcked > total {
				packetsAcked = total
			}
			maxSeenSeq = ack.Seq
			haveSeen = true
		}
		s.state.window.collapse()
		next = packetsAcked
		s.trace("send: out-of-order ack, collapsing window", slog.Int("acked", packetsAcked))
	}

	s.state.seqnum = startSeq + uint8(total)
	s.state.expectedSeq = s.state.seqnum
	disarmTimer(s.conn)
	return len(b), nil
}
