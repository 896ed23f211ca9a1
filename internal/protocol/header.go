// Package protocol defines the 12-byte DRTP header shared by the
// handshake, teardown, and all three reliability engines, plus the
// chunking and control-packet helpers built on top of it.
package protocol

import (
	"encoding/binary"
	"errors"
)

// HeaderSize is the fixed wire size of a DRTP header, in bytes.
const HeaderSize = 12

// MaxPacketSize is the largest datagram this protocol ever sends.
const MaxPacketSize = 1472

// MaxPayloadSize is the largest chunk a data packet may carry.
const MaxPayloadSize = MaxPacketSize - HeaderSize

// Flag bits, low nibble of the flags field.
const (
	FlagSYN = 1 << 3
	FlagACK = 1 << 2
	FlagFIN = 1 << 1
)

// ErrShortHeader is returned by Decode when the buffer is too short
// to contain a full header.
var ErrShortHeader = errors.New("protocol: buffer shorter than 12-byte header")

// Header is the decoded form of a DRTP packet header.
type Header struct {
	Seq    uint16
	Ack    uint16
	Flags  uint16
	Window uint16
}

// Encode serializes seq, ack, flags, and window into a 12-byte header
// and appends payload, returning the full packet.
func Encode(seq, ack, flags, window uint16, payload []byte) []byte {
	buf := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint16(buf[0:2], seq)
	binary.BigEndian.PutUint16(buf[2:4], ack)
	binary.BigEndian.PutUint16(buf[4:6], flags)
	binary.BigEndian.PutUint16(buf[6:8], window)
	// bytes 8:12 stay reserved/zero
	copy(buf[HeaderSize:], payload)
	return buf
}

// Decode parses the first 12 bytes of b into a Header. The payload,
// if any, is b[HeaderSize:].
func Decode(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrShortHeader
	}
	return Header{
		Seq:    binary.BigEndian.Uint16(b[0:2]),
		Ack:    binary.BigEndian.Uint16(b[2:4]),
		Flags:  binary.BigEndian.Uint16(b[4:6]),
		Window: binary.BigEndian.Uint16(b[6:8]),
	}, nil
}

// FlagBits extracts the SYN, ACK, and FIN bits from a flags value.
func FlagBits(flags uint16) (syn, ack, fin bool) {
	return flags&FlagSYN != 0, flags&FlagACK != 0, flags&FlagFIN != 0
}

// Payload returns the bytes of pkt following the header, or nil if
// pkt is shorter than a header.
func Payload(pkt []byte) []byte {
	if len(pkt) <= HeaderSize {
		return nil
	}
	return pkt[HeaderSize:]
}

// Chunk splits data into chunks of at most size bytes each, in order.
// An empty input yields no chunks.
func Chunk(data []byte, size int) [][]byte {
	if size <= 0 {
		size = MaxPayloadSize
	}
	var chunks [][]byte
	for i := 0; i < len(data); i += size {
		end := i + size
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[i:end])
	}
	return chunks
}

// SYNPacket builds a client SYN control packet.
func SYNPacket() []byte { return Encode(0, 0, FlagSYN, 0, nil) }

// SYNACKPacket builds a server SYN-ACK control packet.
func SYNACKPacket() []byte { return Encode(0, 0, FlagSYN|FlagACK, 0, nil) }

// ACKPacket builds a pure ACK control packet carrying seq/ack fields
// chosen by the caller (the handshake and teardown use 0/0; the
// engines populate seq/ack per their own conventions).
func ACKPacket(seq, ack uint16) []byte { return Encode(seq, ack, FlagACK, 0, nil) }

// FinAckPacket builds an ACK control packet that also carries FIN=1,
// for an engine that must echo the terminating data packet's flags
// back on its ACK (Go-Back-N, delivering the final in-order packet).
func FinAckPacket(seq, ack uint16) []byte { return Encode(seq, ack, FlagACK|FlagFIN, 0, nil) }

// FINPacket builds a standalone FIN control packet (teardown phase,
// distinct from the FIN bit piggybacked on the last data packet).
func FINPacket() []byte { return Encode(0, 0, FlagFIN, 0, nil) }

// DataPacket builds a data packet for seq carrying payload, optionally
// marking it as the final packet of the transfer with FIN=1.
func DataPacket(seq uint16, payload []byte, fin bool) []byte {
	var flags uint16
	if fin {
		flags = FlagFIN
	}
	return Encode(seq, 0, flags, 0, payload)
}
