package protocol

import (
	"fmt"

	"github.com/friendwu/qubicly/crypto"
)

// Asset query record types.
const (
	AssetIssuanceRecords   = 0
	AssetOwnershipRecords  = 1
	AssetPossessionRecords = 2
	AssetByUniverseIndex   = 3
)

// Asset query wildcard flags.
const (
	FlagAnyIssuer            = 0b10
	FlagAnyAssetName         = 0b100
	FlagAnyOwner             = 0b1000
	FlagAnyOwnerContract     = 0b10000
	FlagAnyPossessor         = 0b100000
	FlagAnyPossessorContract = 0b1000000
)

type TickRequest struct {
	Tick uint32
}

func (r TickRequest) MarshalBinary() ([]byte, error) {
	enc := NewEncoder()
	enc.WriteUint32(r.Tick)
	return enc.Bytes(), nil
}

type TickTransactionsRequest struct {
	Tick             uint32
	TransactionFlags [NumberOfTransactionsPerTick / 8]byte
}

func (r TickTransactionsRequest) MarshalBinary() ([]byte, error) {
	enc := NewEncoder()
	enc.WriteUint32(r.Tick)
	enc.Write(r.TransactionFlags[:])
	return enc.Bytes(), nil
}

type QuorumTickRequest struct {
	Tick      uint32
	VoteFlags [(NumberOfComputors + 7) / 8]byte
}

func (r QuorumTickRequest) MarshalBinary() ([]byte, error) {
	enc := NewEncoder()
	enc.WriteUint32(r.Tick)
	enc.Write(r.VoteFlags[:])
	return enc.Bytes(), nil
}

type ContractFunctionCall struct {
	ContractIndex uint32
	InputType     uint32
	InputSize     uint32
}

func (r ContractFunctionCall) MarshalBinary() ([]byte, error) {
	enc := NewEncoder()
	enc.WriteUint32(r.ContractIndex)
	enc.WriteUint32(r.InputType)
	enc.WriteUint32(r.InputSize)
	return enc.Bytes(), nil
}

type AssetsByFilterRequest struct {
	RequestType                uint16
	Flags                      uint16
	OwnershipManagingContract  uint16
	PossessionManagingContract uint16
	Issuer                     crypto.Key
	AssetName                  [8]byte
	Owner                      crypto.Key
	Possessor                  crypto.Key
}

func (r AssetsByFilterRequest) MarshalBinary() ([]byte, error) {
	enc := NewEncoder()
	enc.WriteUint16(r.RequestType)
	enc.WriteUint16(r.Flags)
	enc.WriteUint16(r.OwnershipManagingContract)
	enc.WriteUint16(r.PossessionManagingContract)
	enc.Write(r.Issuer[:])
	enc.Write(r.AssetName[:])
	enc.Write(r.Owner[:])
	enc.Write(r.Possessor[:])
	return enc.Bytes(), nil
}

type AssetsByUniverseIndexRequest struct {
	UniverseIndex uint32
}

func (r AssetsByUniverseIndexRequest) MarshalBinary() ([]byte, error) {
	enc := NewEncoder()
	enc.WriteUint16(AssetByUniverseIndex)
	enc.WriteUint16(0)
	enc.WriteUint32(r.UniverseIndex)
	err := enc.WriteFixedBytes(nil, 104)
	if err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// EncodeAssetName places a short asset name into its 8 byte wire slot.
func EncodeAssetName(name string) ([8]byte, error) {
	var slot [8]byte
	if len(name) > len(slot) {
		return slot, fmt.Errorf("%w: asset name %q", ErrFieldOverflow, name)
	}
	copy(slot[:], name)
	return slot, nil
}
