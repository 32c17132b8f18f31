package client

import (
	"fmt"

	"github.com/friendwu/qubicly/crypto"
	"github.com/friendwu/qubicly/protocol"
)

func (c *Client) GetTickInfo() (*protocol.TickInfo, error) {
	body, err := c.roundTrip(protocol.CurrentTickInfoRequest, nil, protocol.CurrentTickInfoResponse)
	if err != nil {
		return nil, err
	}
	var info protocol.TickInfo
	if body == nil {
		return &info, nil
	}
	if err := info.UnmarshalBinary(body); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) GetSystemInfo() (*protocol.SystemInfo, error) {
	body, err := c.roundTrip(protocol.SystemInfoRequest, nil, protocol.SystemInfoResponse)
	if err != nil {
		return nil, err
	}
	var info protocol.SystemInfo
	if body == nil {
		return &info, nil
	}
	if err := info.UnmarshalBinary(body); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetBalance returns the spectrum record of an identity with its
// merkle proof.
func (c *Client) GetBalance(id crypto.Identity) (*protocol.Balance, error) {
	pub, err := id.PubKey()
	if err != nil {
		return nil, err
	}
	body, err := c.roundTrip(protocol.BalanceRequest, pub[:], protocol.BalanceResponse)
	if err != nil {
		return nil, err
	}
	var balance protocol.Balance
	if body == nil {
		return &balance, nil
	}
	if err := balance.UnmarshalBinary(body); err != nil {
		return nil, err
	}
	return &balance, nil
}

func (c *Client) GetIssuedAssets(id crypto.Identity) ([]*protocol.IssuedAsset, error) {
	pub, err := id.PubKey()
	if err != nil {
		return nil, err
	}
	bodies, err := c.roundTripStream(protocol.IssuedAssetsRequest, pub[:], protocol.IssuedAssetsResponse)
	if err != nil {
		return nil, err
	}
	assets := make([]*protocol.IssuedAsset, 0, len(bodies))
	for _, b := range bodies {
		var asset protocol.IssuedAsset
		if err := asset.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		assets = append(assets, &asset)
	}
	return assets, nil
}

func (c *Client) GetOwnedAssets(id crypto.Identity) ([]*protocol.OwnedAsset, error) {
	pub, err := id.PubKey()
	if err != nil {
		return nil, err
	}
	bodies, err := c.roundTripStream(protocol.OwnedAssetsRequest, pub[:], protocol.OwnedAssetsResponse)
	if err != nil {
		return nil, err
	}
	assets := make([]*protocol.OwnedAsset, 0, len(bodies))
	for _, b := range bodies {
		var asset protocol.OwnedAsset
		if err := asset.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		assets = append(assets, &asset)
	}
	return assets, nil
}

func (c *Client) GetPossessedAssets(id crypto.Identity) ([]*protocol.PossessedAsset, error) {
	pub, err := id.PubKey()
	if err != nil {
		return nil, err
	}
	bodies, err := c.roundTripStream(protocol.PossessedAssetsRequest, pub[:], protocol.PossessedAssetsResponse)
	if err != nil {
		return nil, err
	}
	assets := make([]*protocol.PossessedAsset, 0, len(bodies))
	for _, b := range bodies {
		var asset protocol.PossessedAsset
		if err := asset.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		assets = append(assets, &asset)
	}
	return assets, nil
}

func (c *Client) GetComputors() (*protocol.Computors, error) {
	body, err := c.roundTrip(protocol.ComputorsRequest, nil, protocol.BroadcastComputors)
	if err != nil {
		return nil, err
	}
	var computors protocol.Computors
	if body == nil {
		return &computors, nil
	}
	if err := computors.UnmarshalBinary(body); err != nil {
		return nil, err
	}
	return &computors, nil
}

// GetTickData fetches the proposed payload of a past tick. Asking for
// a future tick fails before touching the wire for it.
func (c *Client) GetTickData(tick uint32) (*protocol.TickData, error) {
	if err := c.guardFutureTick(tick); err != nil {
		return nil, err
	}
	req, err := protocol.TickRequest{Tick: tick}.MarshalBinary()
	if err != nil {
		return nil, err
	}
	body, err := c.roundTrip(protocol.TickDataRequest, req, protocol.BroadcastFutureTickData)
	if err != nil {
		return nil, err
	}
	var data protocol.TickData
	if body == nil {
		return &data, nil
	}
	if err := data.UnmarshalBinary(body); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetTickTransactions fetches the transactions of a past tick.
func (c *Client) GetTickTransactions(tick uint32) ([]*protocol.Transaction, error) {
	data, err := c.GetTickData(tick)
	if err != nil {
		return nil, err
	}
	nrTx := data.DigestCount()
	if nrTx == 0 {
		return nil, nil
	}

	var req protocol.TickTransactionsRequest
	req.Tick = tick
	for i := (nrTx + 7) / 8; i < len(req.TransactionFlags); i++ {
		req.TransactionFlags[i] = 1
	}
	reqBody, err := req.MarshalBinary()
	if err != nil {
		return nil, err
	}
	bodies, err := c.roundTripStream(protocol.TickTransactionsRequestType, reqBody, protocol.BroadcastTransaction)
	if err != nil {
		return nil, err
	}
	txs := make([]*protocol.Transaction, 0, len(bodies))
	for _, b := range bodies {
		var tx protocol.Transaction
		if err := tx.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		txs = append(txs, &tx)
	}
	return txs, nil
}

// GetQuorumVotes fetches the committee votes on a past tick.
func (c *Client) GetQuorumVotes(tick uint32) ([]*protocol.QuorumTickVote, error) {
	if err := c.guardFutureTick(tick); err != nil {
		return nil, err
	}
	var req protocol.QuorumTickRequest
	req.Tick = tick
	reqBody, err := req.MarshalBinary()
	if err != nil {
		return nil, err
	}
	bodies, err := c.roundTripStream(protocol.QuorumTickRequestType, reqBody, protocol.QuorumTickResponse)
	if err != nil {
		return nil, err
	}
	votes := make([]*protocol.QuorumTickVote, 0, len(bodies))
	for _, b := range bodies {
		var vote protocol.QuorumTickVote
		if err := vote.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		votes = append(votes, &vote)
	}
	return votes, nil
}

func (c *Client) GetTransactionStatus(tick uint32) (*protocol.TransactionStatus, error) {
	req, err := protocol.TickRequest{Tick: tick}.MarshalBinary()
	if err != nil {
		return nil, err
	}
	body, err := c.roundTrip(protocol.TxStatusRequest, req, protocol.TxStatusResponse)
	if err != nil {
		return nil, err
	}
	var status protocol.TransactionStatus
	if body == nil {
		return &status, nil
	}
	if err := status.UnmarshalBinary(body); err != nil {
		return nil, err
	}
	return &status, nil
}

// QuerySmartContract calls a read-only contract function and returns
// the raw output.
func (c *Client) QuerySmartContract(contractIndex, inputType uint32, input []byte) ([]byte, error) {
	call := protocol.ContractFunctionCall{
		ContractIndex: contractIndex,
		InputType:     inputType,
		InputSize:     uint32(len(input)),
	}
	reqBody, err := call.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return c.roundTrip(protocol.ContractFunctionRequest, append(reqBody, input...), protocol.ContractFunctionResponse)
}

// BroadcastTransaction validates and fires a sealed transaction. The
// network sends no acknowledgement; confirmation means watching the
// target tick.
func (c *Client) BroadcastTransaction(tx *protocol.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	body, err := tx.MarshalBinary()
	if err != nil {
		return err
	}
	return c.publish(protocol.BroadcastTransaction, body)
}

func (c *Client) guardFutureTick(tick uint32) error {
	info, err := c.GetTickInfo()
	if err != nil {
		return err
	}
	if info.Tick < tick {
		return fmt.Errorf("%w: tick %d is in the future, latest is %d", protocol.ErrPrecondition, tick, info.Tick)
	}
	return nil
}
