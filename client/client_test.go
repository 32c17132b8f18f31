package client

import (
	"encoding/binary"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/friendwu/qubicly/crypto"
	"github.com/friendwu/qubicly/network"
	"github.com/friendwu/qubicly/protocol"
	"github.com/stretchr/testify/require"
)

func readMessage(conn net.Conn) (*protocol.Header, []byte, error) {
	buf := make([]byte, protocol.HeaderSize)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return nil, nil, err
	}
	var h protocol.Header
	if err := h.UnmarshalBinary(buf); err != nil {
		return nil, nil, err
	}
	body := make([]byte, h.Size-protocol.HeaderSize)
	if _, err := io.ReadFull(conn, body); err != nil {
		return nil, nil, err
	}
	return &h, body, nil
}

func writeMessage(t *testing.T, conn net.Conn, mt protocol.MessageType, dejaVu uint32, body []byte) {
	packet, err := protocol.NewMessage(mt, dejaVu, body)
	require.Nil(t, err)
	_, err = conn.Write(packet)
	require.Nil(t, err)
}

// stubNode answers each inbound request with handle until the peer
// hangs up.
func stubNode(t *testing.T, handle func(conn net.Conn, h *protocol.Header, body []byte)) *Client {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.Nil(t, err)
	t.Cleanup(func() { l.Close() })
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				for {
					h, body, err := readMessage(conn)
					if err != nil {
						return
					}
					handle(conn, h, body)
				}
			}()
		}
	}()

	addr := l.Addr().(*net.TCPAddr)
	client, err := DialTimeout(addr.IP.String(), addr.Port, time.Second, time.Second, time.Second)
	require.Nil(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func tickInfoBody(t *testing.T, tick uint32, epoch uint16) []byte {
	body, err := protocol.TickInfo{Tick: tick, Epoch: epoch}.MarshalBinary()
	require.Nil(t, err)
	return body
}

func TestClientGetTickInfo(t *testing.T) {
	require := require.New(t)

	client := stubNode(t, func(conn net.Conn, h *protocol.Header, body []byte) {
		if h.Type != protocol.CurrentTickInfoRequest {
			return
		}
		writeMessage(t, conn, protocol.CurrentTickInfoResponse, h.DejaVu, tickInfoBody(t, 12345678, 150))
	})

	info, err := client.GetTickInfo()
	require.Nil(err)
	require.Equal(uint32(12345678), info.Tick)
	require.Equal(uint16(150), info.Epoch)
	require.Zero(client.UnsolicitedCount())
}

func TestClientCorrelation(t *testing.T) {
	require := require.New(t)

	client := stubNode(t, func(conn net.Conn, h *protocol.Header, body []byte) {
		if h.Type != protocol.CurrentTickInfoRequest {
			return
		}
		// A stale response under another token, then a node broadcast,
		// then the real answer.
		writeMessage(t, conn, protocol.CurrentTickInfoResponse, h.DejaVu+1, tickInfoBody(t, 1, 1))
		writeMessage(t, conn, protocol.ExchangePublicPeers, 0, []byte{45, 152, 160, 28, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
		writeMessage(t, conn, protocol.CurrentTickInfoResponse, h.DejaVu, tickInfoBody(t, 777, 160))
	})

	info, err := client.GetTickInfo()
	require.Nil(err)
	require.Equal(uint32(777), info.Tick)
	require.Equal(uint64(2), client.UnsolicitedCount())
}

func TestClientStreamUntilEnd(t *testing.T) {
	require := require.New(t)

	seed := crypto.K12Hash([]byte("issuer seed"))
	kp, err := crypto.Ed25519Factory{}.FromSubSeed(crypto.Key(seed))
	require.Nil(err)
	id := crypto.IdentityFromPubKey(kp.PublicKey(), false)

	// 48 byte issuance record followed by the 776 byte universe anchor.
	pub := kp.PublicKey()
	assetBody := make([]byte, 48+776)
	copy(assetBody, pub[:])
	assetBody[32] = 1 // issuance record type
	copy(assetBody[33:40], "QXT")
	assetBody[40] = 2 // decimal places

	client := stubNode(t, func(conn net.Conn, h *protocol.Header, body []byte) {
		if h.Type != protocol.IssuedAssetsRequest {
			return
		}
		writeMessage(t, conn, protocol.IssuedAssetsResponse, h.DejaVu, assetBody)
		writeMessage(t, conn, protocol.IssuedAssetsResponse, h.DejaVu, assetBody)
		writeMessage(t, conn, protocol.EndResponse, h.DejaVu, nil)
	})

	assets, err := client.GetIssuedAssets(id)
	require.Nil(err)
	require.Len(assets, 2)
	require.Equal("QXT", assets[0].Data.AssetName())
	require.Equal(kp.PublicKey(), assets[0].Data.PublicKey)
}

func TestClientTimeoutThenRecover(t *testing.T) {
	require := require.New(t)

	var requests int
	var mtx sync.Mutex
	client := stubNode(t, func(conn net.Conn, h *protocol.Header, body []byte) {
		mtx.Lock()
		requests++
		n := requests
		mtx.Unlock()
		if n == 1 {
			// Swallow the first request entirely.
			return
		}
		writeMessage(t, conn, protocol.CurrentTickInfoResponse, h.DejaVu, tickInfoBody(t, 42, 7))
	})

	_, err := client.GetTickInfo()
	require.ErrorIs(err, network.ErrTimeout)

	// The connection stays usable after a deadline pass.
	info, err := client.GetTickInfo()
	require.Nil(err)
	require.Equal(uint32(42), info.Tick)
}

func TestClientMidMessageStall(t *testing.T) {
	require := require.New(t)

	client := stubNode(t, func(conn net.Conn, h *protocol.Header, body []byte) {
		if h.Type != protocol.CurrentTickInfoRequest {
			return
		}
		// Header plus half the body, then silence.
		packet, err := protocol.NewMessage(protocol.CurrentTickInfoResponse, h.DejaVu, tickInfoBody(t, 9, 9))
		require.Nil(err)
		conn.Write(packet[:protocol.HeaderSize+8])
	})

	_, err := client.GetTickInfo()
	require.ErrorIs(err, network.ErrTimeout)

	// The half-delivered body desynced the stream; the engine must not
	// try to parse its tail as fresh messages.
	_, err = client.GetTickInfo()
	require.ErrorIs(err, network.ErrClosed)
}

func TestClientFutureTickGuard(t *testing.T) {
	require := require.New(t)

	var tickDataRequests int
	var mtx sync.Mutex
	client := stubNode(t, func(conn net.Conn, h *protocol.Header, body []byte) {
		switch h.Type {
		case protocol.CurrentTickInfoRequest:
			writeMessage(t, conn, protocol.CurrentTickInfoResponse, h.DejaVu, tickInfoBody(t, 100, 5))
		case protocol.TickDataRequest:
			mtx.Lock()
			tickDataRequests++
			mtx.Unlock()
			writeMessage(t, conn, protocol.EndResponse, h.DejaVu, nil)
		}
	})

	_, err := client.GetTickData(200)
	require.ErrorIs(err, protocol.ErrPrecondition)
	mtx.Lock()
	require.Zero(tickDataRequests)
	mtx.Unlock()

	// A past tick the node never filled decodes as the empty payload.
	data, err := client.GetTickData(50)
	require.Nil(err)
	require.True(data.IsEmpty())
}

func TestClientBroadcastTransaction(t *testing.T) {
	require := require.New(t)

	seed := crypto.K12Hash([]byte("broadcast sender"))
	kp, err := crypto.Ed25519Factory{}.FromSubSeed(crypto.Key(seed))
	require.Nil(err)
	dest := crypto.K12Hash([]byte("broadcast receiver"))

	tx := protocol.NewTransaction(kp.PublicKey(), crypto.Key(dest), 1000, 12345700)
	require.Nil(tx.SignWith(kp))

	broadcasts := make(chan []byte, 1)
	client := stubNode(t, func(conn net.Conn, h *protocol.Header, body []byte) {
		if h.Type == protocol.BroadcastTransaction && h.DejaVu == 0 {
			broadcasts <- body
		}
	})

	require.Nil(client.BroadcastTransaction(tx))

	var got protocol.Transaction
	require.Nil(got.UnmarshalBinary(<-broadcasts))
	require.Equal(kp.PublicKey(), got.Source)
	require.Equal(crypto.Key(dest), got.Destination)
	require.Equal(int64(1000), got.Amount)
	require.Equal(uint32(12345700), got.Tick)
	require.Equal(tx.Signature, got.Signature)

	wantID, err := tx.ID()
	require.Nil(err)
	gotID, err := got.ID()
	require.Nil(err)
	require.Equal(wantID, gotID)
}

func TestClientBroadcastUnsignedRejected(t *testing.T) {
	require := require.New(t)

	broadcasts := make(chan []byte, 1)
	client := stubNode(t, func(conn net.Conn, h *protocol.Header, body []byte) {
		broadcasts <- body
	})

	tx := protocol.NewTransaction(crypto.Key{1}, crypto.Key{2}, 5, 9)
	err := client.BroadcastTransaction(tx)
	require.ErrorIs(err, protocol.ErrPrecondition)

	// Nothing may reach the wire for an unsigned transaction.
	select {
	case <-broadcasts:
		t.Fatal("unsigned transaction reached the node")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestClientConcurrentCallers(t *testing.T) {
	require := require.New(t)

	client := stubNode(t, func(conn net.Conn, h *protocol.Header, body []byte) {
		if h.Type != protocol.CurrentTickInfoRequest {
			return
		}
		// Echo the request token back through the tick field so each
		// caller can check it got its own answer.
		writeMessage(t, conn, protocol.CurrentTickInfoResponse, h.DejaVu, tickInfoBody(t, h.DejaVu, 9))
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 4; j++ {
				info, err := client.GetTickInfo()
				require.Nil(err)
				require.Equal(uint16(9), info.Epoch)
			}
		}()
	}
	wg.Wait()
	require.Zero(client.UnsolicitedCount())
}

func TestClientAssetFilterFlags(t *testing.T) {
	require := require.New(t)

	requests := make(chan []byte, 1)
	client := stubNode(t, func(conn net.Conn, h *protocol.Header, body []byte) {
		if h.Type != protocol.AssetsRequest {
			return
		}
		requests <- body
		writeMessage(t, conn, protocol.EndResponse, h.DejaVu, nil)
	})

	// An empty issuer on an ownership query stays an exact zero-key
	// match; only owner and contract widen.
	_, err := client.QueryAssetOwnerships("", "QX", "", 0)
	require.Nil(err)
	body := <-requests
	require.Len(body, 112)
	require.Equal(uint16(protocol.AssetOwnershipRecords), binary.LittleEndian.Uint16(body[0:2]))
	require.Equal(uint16(protocol.FlagAnyOwner|protocol.FlagAnyOwnerContract), binary.LittleEndian.Uint16(body[2:4]))
	require.Equal(make([]byte, 32), body[8:40])

	_, err = client.QueryAssetPossessions("", "QX", "", 0, "", 0)
	require.Nil(err)
	body = <-requests
	require.Equal(uint16(protocol.AssetPossessionRecords), binary.LittleEndian.Uint16(body[0:2]))
	require.Equal(uint16(protocol.FlagAnyOwner|protocol.FlagAnyOwnerContract|protocol.FlagAnyPossessor|protocol.FlagAnyPossessorContract), binary.LittleEndian.Uint16(body[2:4]))

	// The issuance query is the one path that widens an empty issuer.
	_, err = client.QueryAssetIssuances("", "")
	require.Nil(err)
	body = <-requests
	require.Equal(uint16(protocol.AssetIssuanceRecords), binary.LittleEndian.Uint16(body[0:2]))
	require.Equal(uint16(protocol.FlagAnyIssuer|protocol.FlagAnyAssetName), binary.LittleEndian.Uint16(body[2:4]))
}

func TestClientGetBalance(t *testing.T) {
	require := require.New(t)

	seed := crypto.K12Hash([]byte("balance holder"))
	kp, err := crypto.Ed25519Factory{}.FromSubSeed(crypto.Key(seed))
	require.Nil(err)
	id := crypto.IdentityFromPubKey(kp.PublicKey(), false)
	pub := kp.PublicKey()

	body := make([]byte, protocol.BalanceSize)
	copy(body, pub[:])
	// incoming 5000, outgoing 1500, little endian.
	body[32] = 0x88
	body[33] = 0x13
	body[40] = 0xDC
	body[41] = 0x05

	client := stubNode(t, func(conn net.Conn, h *protocol.Header, reqBody []byte) {
		if h.Type != protocol.BalanceRequest {
			return
		}
		require.Equal(pub[:], reqBody)
		writeMessage(t, conn, protocol.BalanceResponse, h.DejaVu, body)
	})

	balance, err := client.GetBalance(id)
	require.Nil(err)
	require.Equal(pub, balance.Entity.PublicKey)
	require.Equal(int64(3500), balance.Amount())
}
