package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Encoder writes the fixed little-endian layouts of the node protocol.
// Fixed-width writes cannot fail; writes into fixed slots check their
// bounds and refuse to truncate.
type Encoder struct {
	buf *bytes.Buffer
}

func NewEncoder() *Encoder {
	return &Encoder{buf: new(bytes.Buffer)}
}

func (enc *Encoder) Bytes() []byte {
	return enc.buf.Bytes()
}

func (enc *Encoder) Len() int {
	return enc.buf.Len()
}

func (enc *Encoder) Write(b []byte) {
	l, err := enc.buf.Write(b)
	if err != nil {
		panic(err)
	}
	if l != len(b) {
		panic(b)
	}
}

func (enc *Encoder) WriteUint8(d uint8) {
	err := enc.buf.WriteByte(d)
	if err != nil {
		panic(err)
	}
}

func (enc *Encoder) WriteUint16(d uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], d)
	enc.Write(b[:])
}

func (enc *Encoder) WriteUint32(d uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], d)
	enc.Write(b[:])
}

func (enc *Encoder) WriteUint64(d uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], d)
	enc.Write(b[:])
}

func (enc *Encoder) WriteInt16(d int16) {
	enc.WriteUint16(uint16(d))
}

func (enc *Encoder) WriteInt32(d int32) {
	enc.WriteUint32(uint32(d))
}

func (enc *Encoder) WriteInt64(d int64) {
	enc.WriteUint64(uint64(d))
}

// WriteFixedBytes places b into a slot of exactly size bytes, padding
// with zeros. Oversized input is a FieldOverflow, never a truncation.
func (enc *Encoder) WriteFixedBytes(b []byte, size int) error {
	if len(b) > size {
		return fmt.Errorf("%w: %d bytes into a %d byte slot", ErrFieldOverflow, len(b), size)
	}
	enc.Write(b)
	for i := len(b); i < size; i++ {
		enc.WriteUint8(0)
	}
	return nil
}
