package packet_test

import (
	"bytes"
	"testing"

	"github.com/soypat/gbnet/packet"
)

func TestRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("hello world"), 94)[:1024]
	p, err := packet.NewDATA(42, payload)
	if err != nil {
		t.Fatal(err)
	}
	var buf [packet.Size]byte
	n, err := p.Marshal(buf[:])
	if err != nil {
		t.Fatal(err)
	}
	if n != packet.Size {
		t.Fatalf("marshal wrote %d bytes, want %d", n, packet.Size)
	}

	var got packet.Packet
	ok, err := packet.Unmarshal(buf[:], &got)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("checksum mismatch on uncorrupted packet")
	}
	if got.Type != packet.DATA || got.Seq != 42 || got.PayloadLen != 1024 {
		t.Fatalf("got %+v", got)
	}
	if !bytes.Equal(got.Payload(), payload) {
		t.Fatal("payload mismatch after round trip")
	}
}

func TestEncodeDecodeIdempotent(t *testing.T) {
	// encode(decode(p)) == p for any well-formed packet.
	p, err := packet.NewDATA(7, []byte("abc"))
	if err != nil {
		t.Fatal(err)
	}
	var buf1, buf2 [packet.Size]byte
	p.Marshal(buf1[:])

	var mid packet.Packet
	if ok, err := packet.Unmarshal(buf1[:], &mid); err != nil || !ok {
		t.Fatalf("unmarshal: ok=%v err=%v", ok, err)
	}
	mid.Marshal(buf2[:])
	if !bytes.Equal(buf1[:], buf2[:]) {
		t.Fatal("encode(decode(p)) != p")
	}
}

func TestChecksumDetectsCorruption(t *testing.T) {
	p := packet.NewSYN(5)
	var buf [packet.Size]byte
	p.Marshal(buf[:])

	buf[100] ^= 0x01 // flip low bit of a payload byte

	var got packet.Packet
	ok, err := packet.Unmarshal(buf[:], &got)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected checksum mismatch after corruption")
	}
}

func TestChecksumFieldRestoredAfterVerify(t *testing.T) {
	p := packet.NewSYN(9)
	var buf [packet.Size]byte
	p.Marshal(buf[:])
	before := append([]byte(nil), buf[:]...)

	var got packet.Packet
	packet.Unmarshal(buf[:], &got)

	if !bytes.Equal(buf[:], before) {
		t.Fatal("Unmarshal must not mutate the input buffer")
	}
}

func TestBoundaryPayloadSizes(t *testing.T) {
	p0, err := packet.NewDATA(0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p0.PayloadLen != 0 {
		t.Fatalf("len=0 should yield PayloadLen 0, got %d", p0.PayloadLen)
	}

	full := bytes.Repeat([]byte{1}, packet.MaxPayload)
	pFull, err := packet.NewDATA(0, full)
	if err != nil {
		t.Fatal(err)
	}
	if pFull.PayloadLen != packet.MaxPayload {
		t.Fatalf("full segment should carry PayloadLen %d, got %d", packet.MaxPayload, pFull.PayloadLen)
	}

	pOne, err := packet.NewDATA(0, []byte{0xAB})
	if err != nil {
		t.Fatal(err)
	}
	if pOne.PayloadLen != 1 {
		t.Fatalf("len=1 should yield PayloadLen 1, got %d", pOne.PayloadLen)
	}
}

func TestPayloadTooBigRejected(t *testing.T) {
	_, err := packet.NewDATA(0, make([]byte, packet.MaxPayload+1))
	if err != packet.ErrPayloadTooBig {
		t.Fatalf("want ErrPayloadTooBig, got %v", err)
	}
}

func TestMarshalShortBuffer(t *testing.T) {
	p := packet.NewSYN(1)
	_, err := p.Marshal(make([]byte, packet.Size-1))
	if err != packet.ErrShortBuffer {
		t.Fatalf("want ErrShortBuffer, got %v", err)
	}
}
