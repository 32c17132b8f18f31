package network

import (
	"errors"
	"net"

	"github.com/friendwu/qubicly/protocol"
)

var (
	// ErrConnection marks a transport that cannot be established or
	// maintained.
	ErrConnection = errors.New("connection error")
	// ErrClosed marks a peer that went away mid operation, or a local
	// close.
	ErrClosed = errors.New("connection closed")
	// ErrTimeout marks an elapsed read or write deadline.
	ErrTimeout = errors.New("timeout")
)

// Conn delivers whole protocol messages over a stream that only
// delivers bytes.
type Conn interface {
	RemoteAddr() net.Addr
	// Receive blocks for one complete message: the fixed header, then
	// exactly the body the header declares. A failure after part of a
	// message is consumed closes the connection, framing is lost.
	Receive() (*protocol.Header, []byte, error)
	// Send writes the full buffer or fails.
	Send(data []byte) error
	// Close releases the socket. Safe to call twice.
	Close() error
}
