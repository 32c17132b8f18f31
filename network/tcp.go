package network

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/friendwu/qubicly/config"
	"github.com/friendwu/qubicly/protocol"
)

type TcpConn struct {
	conn         net.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration

	closeOnce sync.Once
	closeErr  error
}

// DialTcp opens a node connection with the default timeouts.
func DialTcp(host string, port int) (*TcpConn, error) {
	return DialTcpTimeout(host, port, config.DefaultConnectTimeout, config.DefaultReadTimeout, config.DefaultWriteTimeout)
}

func DialTcpTimeout(host string, port int, connectTimeout, readTimeout, writeTimeout time.Duration) (*TcpConn, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, connectTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrConnection, addr, err)
	}
	return &TcpConn{
		conn:         conn,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}, nil
}

// NewTcpConn wraps an established stream, mostly for tests against
// in-process stubs.
func NewTcpConn(conn net.Conn, readTimeout, writeTimeout time.Duration) *TcpConn {
	return &TcpConn{
		conn:         conn,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func (c *TcpConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *TcpConn) Receive() (*protocol.Header, []byte, error) {
	err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	if err != nil {
		return nil, nil, c.transportErr(err)
	}

	// A failure after part of a message is consumed loses the framing,
	// so the connection is closed; only a failure before the first
	// header byte leaves it usable.
	header := make([]byte, protocol.HeaderSize)
	if n, err := io.ReadFull(c.conn, header); err != nil {
		if n > 0 {
			c.Close()
		}
		return nil, nil, c.transportErr(err)
	}
	var h protocol.Header
	if err := h.UnmarshalBinary(header); err != nil {
		c.Close()
		return nil, nil, err
	}

	body := make([]byte, h.Size-protocol.HeaderSize)
	if _, err := io.ReadFull(c.conn, body); err != nil {
		c.Close()
		return nil, nil, c.transportErr(err)
	}
	return &h, body, nil
}

func (c *TcpConn) Send(data []byte) error {
	if l := len(data); l < protocol.HeaderSize || l > protocol.MaxMessageSize {
		return fmt.Errorf("%w: send size %d", protocol.ErrFieldOverflow, l)
	}
	err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err != nil {
		return c.transportErr(err)
	}
	// net.Conn.Write loops until the whole buffer is on the wire.
	if _, err := c.conn.Write(data); err != nil {
		return c.transportErr(err)
	}
	return nil
}

func (c *TcpConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

// transportErr classifies a socket failure: deadline, peer or local
// close, or transport fault. Retryability differs for the caller.
func (c *TcpConn) transportErr(err error) error {
	switch {
	case isTimeout(err):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, net.ErrClosed):
		return fmt.Errorf("%w: %v", ErrClosed, err)
	default:
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
