package packet

// NewSYN returns a SYN packet carrying the client's initial sequence number.
func NewSYN(seq uint8) Packet {
	return Packet{Type: SYN, Seq: seq}
}

// NewSYNACK returns a SYNACK packet echoing the peer's sequence number.
func NewSYNACK(seq uint8) Packet {
	return Packet{Type: SYNACK, Seq: seq}
}

// NewFIN returns a FIN packet carrying seq.
func NewFIN(seq uint8) Packet {
	return Packet{Type: FIN, Seq: seq}
}

// NewFINACK returns a FINACK packet echoing seq.
func NewFINACK(seq uint8) Packet {
	return Packet{Type: FINACK, Seq: seq}
}

// NewRST returns an RST packet, used to reject a connection attempt made
// against a socket that cannot currently accept one.
func NewRST(seq uint8) Packet {
	return Packet{Type: RST, Seq: seq}
}

// NewDATA returns a DATA packet stamped with seq and carrying payload,
// which must not exceed MaxPayload bytes.
func NewDATA(seq uint8, payload []byte) (Packet, error) {
	p := Packet{Type: DATA, Seq: seq}
	if err := p.SetPayload(payload); err != nil {
		return Packet{}, err
	}
	return p, nil
}

// NewDATAACK returns a cumulative DATAACK packet for seq.
func NewDATAACK(seq uint8) Packet {
	return Packet{Type: DATAACK, Seq: seq}
}
