package client

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/friendwu/qubicly/config"
	"github.com/friendwu/qubicly/logger"
	"github.com/friendwu/qubicly/network"
	"github.com/friendwu/qubicly/protocol"
)

// Client speaks the node protocol over one connection. Requests are
// serialized: the engine holds the connection from send until the
// correlated response run resolves, so concurrent callers simply
// queue. Responses for other tokens are sidelined and counted, never
// silently dropped.
type Client struct {
	conn network.Conn

	mutex       sync.Mutex
	unsolicited atomic.Uint64
}

// New wraps an established connection. The client owns it from here
// and releases it on Close.
func New(conn network.Conn) *Client {
	return &Client{conn: conn}
}

// Dial connects to a node with the default timeouts.
func Dial(host string, port int) (*Client, error) {
	return DialTimeout(host, port, config.DefaultConnectTimeout, config.DefaultReadTimeout, config.DefaultWriteTimeout)
}

func DialTimeout(host string, port int, connectTimeout, readTimeout, writeTimeout time.Duration) (*Client, error) {
	conn, err := network.DialTcpTimeout(host, port, connectTimeout, readTimeout, writeTimeout)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// UnsolicitedCount reports how many sidelined messages the connection
// has seen, node broadcasts included.
func (c *Client) UnsolicitedCount() uint64 {
	return c.unsolicited.Load()
}

// roundTrip issues one request and blocks for the first matching
// response body. A terminator without any payload yields a nil body.
func (c *Client) roundTrip(reqType protocol.MessageType, body []byte, respType protocol.MessageType) ([]byte, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	dejaVu, err := c.send(reqType, body)
	if err != nil {
		return nil, err
	}
	for {
		h, respBody, err := c.conn.Receive()
		if err != nil {
			return nil, err
		}
		if h.DejaVu != dejaVu {
			c.sideline(h, respBody)
			continue
		}
		switch h.Type {
		case respType:
			return respBody, nil
		case protocol.EndResponse:
			return nil, nil
		default:
			c.sideline(h, respBody)
		}
	}
}

// roundTripStream issues one request and collects every matching body
// until the node terminates the run.
func (c *Client) roundTripStream(reqType protocol.MessageType, body []byte, respType protocol.MessageType) ([][]byte, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	dejaVu, err := c.send(reqType, body)
	if err != nil {
		return nil, err
	}
	var out [][]byte
	for {
		h, respBody, err := c.conn.Receive()
		if err != nil {
			return nil, err
		}
		if h.DejaVu != dejaVu {
			c.sideline(h, respBody)
			continue
		}
		switch h.Type {
		case respType:
			out = append(out, respBody)
		case protocol.EndResponse:
			return out, nil
		default:
			c.sideline(h, respBody)
		}
	}
}

// publish fires a broadcast-class packet. DejaVu zero, no reply
// expected.
func (c *Client) publish(reqType protocol.MessageType, body []byte) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	packet, err := protocol.NewMessage(reqType, 0, body)
	if err != nil {
		return err
	}
	return c.conn.Send(packet)
}

func (c *Client) send(reqType protocol.MessageType, body []byte) (uint32, error) {
	dejaVu := protocol.RandomDejaVu()
	packet, err := protocol.NewMessage(reqType, dejaVu, body)
	if err != nil {
		return 0, err
	}
	return dejaVu, c.conn.Send(packet)
}

func (c *Client) sideline(h *protocol.Header, body []byte) {
	c.unsolicited.Add(1)
	if h.Type == protocol.ExchangePublicPeers {
		var peers protocol.PublicPeers
		if err := peers.UnmarshalBinary(body); err == nil {
			logger.Verbosef("client %s announced peers %v\n", c.conn.RemoteAddr(), peers.Peers)
			return
		}
	}
	logger.Verbosef("client %s sidelined %s dejavu %d size %d\n", c.conn.RemoteAddr(), h.Type, h.DejaVu, h.Size)
}
