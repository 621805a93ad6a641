// Package packet implements the wire format of the Go-Back-N reliable
// transport: a fixed-layout header followed by a 1024-byte payload region,
// and the 16-bit ones-complement checksum that covers the whole record.
package packet

import (
	"encoding/binary"
	"errors"
)

// Type identifies the role a packet plays in the connection lifecycle.
type Type uint8

const (
	SYN     Type = iota // opens a connection
	SYNACK              // acknowledges a SYN
	DATA                // carries application bytes
	DATAACK             // cumulative acknowledgment of DATA
	FIN                 // ends a connection
	FINACK              // acknowledges a FIN
	RST                 // rejects a connection attempt
)

func (t Type) String() string {
	switch t {
	case SYN:
		return "SYN"
	case SYNACK:
		return "SYNACK"
	case DATA:
		return "DATA"
	case DATAACK:
		return "DATAACK"
	case FIN:
		return "FIN"
	case FINACK:
		return "FINACK"
	case RST:
		return "RST"
	default:
		return "TYPE(?)"
	}
}

const (
	// MaxPayload is the number of bytes reserved for the data region of
	// every packet, control or data.
	MaxPayload = 1024
	// HeaderSize is the size in bytes of the fixed fields preceding the
	// data region: type(1) + seq(1) + checksum(2) + payloadlen(2).
	HeaderSize = 6
	// Size is the total on-wire size of a packet: HeaderSize + MaxPayload.
	Size = HeaderSize + MaxPayload
)

var (
	ErrShortBuffer  = errors.New("packet: buffer shorter than Size")
	ErrPayloadTooBig = errors.New("packet: payload exceeds MaxPayload")
)

// Packet is the in-memory representation of one on-wire record. The zero
// value is a valid (empty, control-sized) packet.
type Packet struct {
	Type       Type
	Seq        uint8
	PayloadLen uint16
	Data       [MaxPayload]byte
}

// Payload returns the valid portion of Data, i.e. Data[:PayloadLen].
func (p *Packet) Payload() []byte {
	return p.Data[:p.PayloadLen]
}

// SetPayload copies b into Data and sets PayloadLen. b must not exceed
// MaxPayload bytes.
func (p *Packet) SetPayload(b []byte) error {
	if len(b) > MaxPayload {
		return ErrPayloadTooBig
	}
	p.PayloadLen = uint16(len(b))
	copy(p.Data[:p.PayloadLen], b)
	return nil
}

// Marshal encodes p into buf, which must be at least Size bytes long, and
// returns the number of bytes written (always Size). The checksum field is
// computed over the entire record with itself zeroed: 16-bit
// ones-complement sum with carries folded in, then complemented.
func (p *Packet) Marshal(buf []byte) (int, error) {
	if len(buf) < Size {
		return 0, ErrShortBuffer
	}
	buf = buf[:Size]
	buf[0] = byte(p.Type)
	buf[1] = p.Seq
	binary.LittleEndian.PutUint16(buf[2:4], 0) // checksum placeholder, zeroed for computation
	binary.LittleEndian.PutUint16(buf[4:6], p.PayloadLen)
	copy(buf[HeaderSize:], p.Data[:])
	sum := checksum(buf)
	binary.LittleEndian.PutUint16(buf[2:4], sum)
	return Size, nil
}

// Unmarshal decodes buf (which must be at least Size bytes) into p and
// reports whether the transmitted checksum matches the recomputed one. A
// false return means the packet is CORRUPT; p is still populated with
// whatever fields were decoded.
func Unmarshal(buf []byte, p *Packet) (ok bool, err error) {
	if len(buf) < Size {
		return false, ErrShortBuffer
	}
	buf = buf[:Size]
	wantSum := binary.LittleEndian.Uint16(buf[2:4])

	// Recompute with the transmitted checksum field zeroed, then restore it,
	// leaving the caller's buffer unmodified on return.
	binary.LittleEndian.PutUint16(buf[2:4], 0)
	gotSum := checksum(buf)
	binary.LittleEndian.PutUint16(buf[2:4], wantSum)

	p.Type = Type(buf[0])
	p.Seq = buf[1]
	p.PayloadLen = binary.LittleEndian.Uint16(buf[4:6])
	if int(p.PayloadLen) > MaxPayload {
		p.PayloadLen = MaxPayload
	}
	copy(p.Data[:], buf[HeaderSize:])
	return gotSum == wantSum, nil
}

// checksum computes the 16-bit ones-complement checksum of buf, viewed as a
// sequence of 16-bit little-endian words, folding carries into the low 16
// bits and returning the bitwise complement of the result. buf's length
// must be even; Size (1030) always is.
func checksum(buf []byte) uint16 {
	var sum uint32
	for i := 0; i+1 < len(buf); i += 2 {
		sum += uint32(binary.LittleEndian.Uint16(buf[i : i+2]))
	}
	if len(buf)&1 != 0 {
		sum += uint32(buf[len(buf)-1])
	}
	for sum>>16 != 0 {
		sum = (sum & 0xffff) + (sum >> 16)
	}
	return ^uint16(sum)
}
