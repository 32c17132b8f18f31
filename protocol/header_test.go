package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	require := require.New(t)

	h := Header{Size: HeaderSize + 16, Type: CurrentTickInfoResponse, DejaVu: 0xCAFEBABE}
	b, err := h.MarshalBinary()
	require.Nil(err)
	require.Len(b, HeaderSize)

	var back Header
	require.Nil(back.UnmarshalBinary(b))
	require.Equal(h, back)
}

func TestHeaderBoundary(t *testing.T) {
	require := require.New(t)

	var h Header
	err := h.UnmarshalBinary(make([]byte, HeaderSize-1))
	require.ErrorIs(err, ErrMalformedMessage)

	// A declared size below the header size cannot frame anything.
	b, err := Header{Size: HeaderSize, Type: EndResponse}.MarshalBinary()
	require.Nil(err)
	b[0] = HeaderSize - 1
	err = h.UnmarshalBinary(b)
	require.ErrorIs(err, ErrMalformedMessage)

	_, err = Header{Size: MaxMessageSize + 1}.MarshalBinary()
	require.ErrorIs(err, ErrFieldOverflow)
}

func TestNewMessage(t *testing.T) {
	require := require.New(t)

	body := []byte{1, 2, 3, 4}
	packet, err := NewMessage(TickDataRequest, 7, body)
	require.Nil(err)
	require.Len(packet, HeaderSize+len(body))

	var h Header
	require.Nil(h.UnmarshalBinary(packet))
	require.Equal(uint32(HeaderSize+len(body)), h.Size)
	require.Equal(TickDataRequest, h.Type)
	require.Equal(uint32(7), h.DejaVu)
	require.Equal(body, packet[HeaderSize:])

	_, err = NewMessage(TickDataRequest, 7, make([]byte, MaxMessageSize))
	require.ErrorIs(err, ErrFieldOverflow)
}

func TestRandomDejaVu(t *testing.T) {
	require := require.New(t)

	seen := make(map[uint32]bool)
	for i := 0; i < 64; i++ {
		d := RandomDejaVu()
		require.NotZero(d)
		seen[d] = true
	}
	require.Greater(len(seen), 32)
}
