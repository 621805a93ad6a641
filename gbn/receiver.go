package gbn

import (
	"github.com/soypat/gbnet/gbnerr"
	"github.com/soypat/gbnet/packet"
)

// recv blocks for one datagram, validates its checksum and sequence
// number, and either delivers DATA or re-ACKs the last good sequence
// number for anything rejected, looping until a segment is accepted. A FIN
// only drives FIN_RCVD and a FINACK reply when it is fully validated; a
// rejected FIN-typed packet is re-ACKed exactly like any other rejected
// packet instead of unconditionally tagging the ACK type FINACK.
func (s *Socket) recv(buf []byte) (int, error) {
	disarmTimer(s.conn) // the receiver has no timeout of its own

	for {
		_, addr, err := s.conn.ReadFrom(s.rxbuf[:])
		if err != nil {
			if isTimeout(err) {
				continue
			}
			return 0, &gbnerr.Transport{Op: "recv", Err: err}
		}

		var p packet.Packet
		ok, _ := packet.Unmarshal(s.rxbuf[:], &p)
		reject := !ok

		if p.Type == packet.SYN {
			// A new connection attempt against an already-occupied slot:
			// reject explicitly rather than silently dropping it or
			// misinterpreting it as data.
			s.sendRST(addr, p.Seq)
			continue
		}

		if p.Seq != s.state.expectedSeq {
			reject = true
		}

		var n int
		var ackSeq uint8
		ackType := packet.DATAACK
		if reject {
			ackSeq = s.state.expectedSeq - 1
		} else {
			ackSeq = p.Seq
			if p.Type == packet.DATA {
				n = copy(buf, p.Payload())
				s.state.seqnum = p.Seq
				s.state.expectedSeq = p.Seq + 1
			} else if p.Type == packet.FIN {
				ackType = packet.FINACK
			}
		}

		ack := packet.Packet{Type: ackType, Seq: ackSeq}
		wn, merr := ack.Marshal(s.txbuf[:])
		if merr == nil {
			s.conn.WriteTo(s.txbuf[:wn], addr)
		}

		if reject {
			continue
		}
		if p.Type == packet.FIN {
			s.state.status = StatusFinRcvd
			return 0, nil
		}
		return n, nil
	}
}
