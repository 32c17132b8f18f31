package protocol

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

const (
	// HeaderSize is fixed by the node protocol: 3 byte size, 1 byte
	// type, 4 byte dejavu.
	HeaderSize = 8
	// MaxMessageSize is the largest total size the 24 bit header size
	// field can declare.
	MaxMessageSize = 0xFFFFFF
)

// Header prefixes every packet. Size counts the header itself. DejaVu
// correlates a response run with its request; zero marks
// broadcast-class traffic.
type Header struct {
	Size   uint32
	Type   MessageType
	DejaVu uint32
}

func (h Header) MarshalBinary() ([]byte, error) {
	if h.Size > MaxMessageSize {
		return nil, fmt.Errorf("%w: header size %d", ErrFieldOverflow, h.Size)
	}
	b := make([]byte, HeaderSize)
	b[0] = byte(h.Size)
	b[1] = byte(h.Size >> 8)
	b[2] = byte(h.Size >> 16)
	b[3] = byte(h.Type)
	binary.LittleEndian.PutUint32(b[4:], h.DejaVu)
	return b, nil
}

func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("%w: header %d bytes", ErrMalformedMessage, len(b))
	}
	h.Size = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	h.Type = MessageType(b[3])
	h.DejaVu = binary.LittleEndian.Uint32(b[4:8])
	if h.Size < HeaderSize {
		return fmt.Errorf("%w: declared size %d below header size", ErrMalformedMessage, h.Size)
	}
	return nil
}

// NewMessage frames a body into a complete packet.
func NewMessage(t MessageType, dejaVu uint32, body []byte) ([]byte, error) {
	size := HeaderSize + len(body)
	if size > MaxMessageSize {
		return nil, fmt.Errorf("%w: message size %d", ErrFieldOverflow, size)
	}
	h := Header{Size: uint32(size), Type: t, DejaVu: dejaVu}
	hb, err := h.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(hb, body...), nil
}

// RandomDejaVu draws a fresh non-zero correlation token. Tokens are
// single use, one per request.
func RandomDejaVu() uint32 {
	var b [4]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			panic(err)
		}
		if d := binary.LittleEndian.Uint32(b[:]); d != 0 {
			return d
		}
	}
}
