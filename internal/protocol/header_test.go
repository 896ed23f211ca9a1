package protocol

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := func(seq, ack, flags, window uint16, payload []byte) bool {
		if len(payload) > MaxPayloadSize {
			payload = payload[:MaxPayloadSize]
		}
		pkt := Encode(seq, ack, flags, window, payload)
		h, err := Decode(pkt)
		if err != nil {
			return false
		}
		if h.Seq != seq || h.Ack != ack || h.Flags != flags || h.Window != window {
			return false
		}
		got := Payload(pkt)
		if len(payload) == 0 {
			return len(got) == 0
		}
		if len(got) != len(payload) {
			return false
		}
		for i := range payload {
			if got[i] != payload[i] {
				return false
			}
		}
		return true
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestDecodeShortBuffer(t *testing.T) {
	_, err := Decode(make([]byte, 11))
	assert.ErrorIs(t, err, ErrShortHeader)
}

func TestFlagBits(t *testing.T) {
	syn, ack, fin := FlagBits(FlagSYN | FlagACK)
	assert.True(t, syn)
	assert.True(t, ack)
	assert.False(t, fin)

	syn, ack, fin = FlagBits(FlagFIN)
	assert.False(t, syn)
	assert.False(t, ack)
	assert.True(t, fin)
}

func TestChunk(t *testing.T) {
	data := make([]byte, 3000)
	for i := range data {
		data[i] = byte(i)
	}
	chunks := Chunk(data, 1460)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1460)
	assert.Len(t, chunks[1], 1460)
	assert.Len(t, chunks[2], 80)
}

func TestChunkEmpty(t *testing.T) {
	assert.Empty(t, Chunk(nil, 1460))
}

func TestControlPacketFlags(t *testing.T) {
	h, err := Decode(SYNPacket())
	require.NoError(t, err)
	syn, ack, fin := FlagBits(h.Flags)
	assert.True(t, syn)
	assert.False(t, ack)
	assert.False(t, fin)

	h, err = Decode(SYNACKPacket())
	require.NoError(t, err)
	syn, ack, fin = FlagBits(h.Flags)
	assert.True(t, syn)
	assert.True(t, ack)
	assert.False(t, fin)

	h, err = Decode(ACKPacket(5, 6))
	require.NoError(t, err)
	assert.EqualValues(t, 5, h.Seq)
	assert.EqualValues(t, 6, h.Ack)
	_, ack, _ = FlagBits(h.Flags)
	assert.True(t, ack)

	h, err = Decode(FINPacket())
	require.NoError(t, err)
	_, _, fin = FlagBits(h.Flags)
	assert.True(t, fin)

	h, err = Decode(FinAckPacket(7, 8))
	require.NoError(t, err)
	assert.EqualValues(t, 7, h.Seq)
	assert.EqualValues(t, 8, h.Ack)
	_, ack, fin = FlagBits(h.Flags)
	assert.True(t, ack)
	assert.True(t, fin)
}

func TestDataPacketFinBit(t *testing.T) {
	pkt := DataPacket(3, []byte("hi"), true)
	h, err := Decode(pkt)
	require.NoError(t, err)
	assert.EqualValues(t, 3, h.Seq)
	_, _, fin := FlagBits(h.Flags)
	assert.True(t, fin)
	assert.Equal(t, []byte("hi"), Payload(pkt))
}
