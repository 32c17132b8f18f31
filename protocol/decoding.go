package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Decoder reads the fixed little-endian layouts of the node protocol.
// Every short read surfaces as a MalformedMessage.
type Decoder struct {
	buf *bytes.Reader
}

func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: bytes.NewReader(b)}
}

func (dec *Decoder) Read(b []byte) error {
	l, err := dec.buf.Read(b)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if l != len(b) {
		return fmt.Errorf("%w: data short %d %d", ErrMalformedMessage, l, len(b))
	}
	return nil
}

func (dec *Decoder) ReadUint8() (uint8, error) {
	b, err := dec.buf.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return b, nil
}

func (dec *Decoder) ReadUint16() (uint16, error) {
	var b [2]byte
	err := dec.Read(b[:])
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func (dec *Decoder) ReadUint32() (uint32, error) {
	var b [4]byte
	err := dec.Read(b[:])
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func (dec *Decoder) ReadUint64() (uint64, error) {
	var b [8]byte
	err := dec.Read(b[:])
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func (dec *Decoder) ReadInt16() (int16, error) {
	d, err := dec.ReadUint16()
	return int16(d), err
}

func (dec *Decoder) ReadInt32() (int32, error) {
	d, err := dec.ReadUint32()
	return int32(d), err
}

func (dec *Decoder) ReadInt64() (int64, error) {
	d, err := dec.ReadUint64()
	return int64(d), err
}

func (dec *Decoder) Remaining() int {
	return dec.buf.Len()
}

// Finish fails if the buffer still holds bytes the structure did not
// account for.
func (dec *Decoder) Finish() error {
	if l := dec.buf.Len(); l > 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrMalformedMessage, l)
	}
	return nil
}
