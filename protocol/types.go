package protocol

import "fmt"

// MessageType tags every packet on the node protocol. The numbers are
// pinned by the network and must never change.
type MessageType uint8

const (
	ExchangePublicPeers         MessageType = 0
	BroadcastComputors          MessageType = 2
	QuorumTickResponse          MessageType = 3
	BroadcastFutureTickData     MessageType = 8
	ComputorsRequest            MessageType = 11
	QuorumTickRequestType       MessageType = 14
	TickDataRequest             MessageType = 16
	BroadcastTransaction        MessageType = 24
	CurrentTickInfoRequest      MessageType = 27
	CurrentTickInfoResponse     MessageType = 28
	TickTransactionsRequestType MessageType = 29
	BalanceRequest              MessageType = 31
	BalanceResponse             MessageType = 32
	EndResponse                 MessageType = 35
	IssuedAssetsRequest         MessageType = 36
	IssuedAssetsResponse        MessageType = 37
	OwnedAssetsRequest          MessageType = 38
	OwnedAssetsResponse         MessageType = 39
	PossessedAssetsRequest      MessageType = 40
	PossessedAssetsResponse     MessageType = 41
	ContractFunctionRequest     MessageType = 42
	ContractFunctionResponse    MessageType = 43
	SystemInfoRequest           MessageType = 46
	SystemInfoResponse          MessageType = 47
	AssetsRequest               MessageType = 52
	AssetsResponse              MessageType = 53
	TxStatusRequest             MessageType = 201
	TxStatusResponse            MessageType = 202
)

const (
	NumberOfComputors           = 676
	NumberOfTransactionsPerTick = 1024
	SpectrumDepth               = 24
	AssetsDepth                 = 24
	MinimumQuorumVotes          = 451
)

func (t MessageType) String() string {
	switch t {
	case ExchangePublicPeers:
		return "ExchangePublicPeers"
	case BroadcastComputors:
		return "BroadcastComputors"
	case QuorumTickResponse:
		return "QuorumTickResponse"
	case BroadcastFutureTickData:
		return "BroadcastFutureTickData"
	case ComputorsRequest:
		return "ComputorsRequest"
	case QuorumTickRequestType:
		return "QuorumTickRequest"
	case TickDataRequest:
		return "TickDataRequest"
	case BroadcastTransaction:
		return "BroadcastTransaction"
	case CurrentTickInfoRequest:
		return "CurrentTickInfoRequest"
	case CurrentTickInfoResponse:
		return "CurrentTickInfoResponse"
	case TickTransactionsRequestType:
		return "TickTransactionsRequest"
	case BalanceRequest:
		return "BalanceRequest"
	case BalanceResponse:
		return "BalanceResponse"
	case EndResponse:
		return "EndResponse"
	case IssuedAssetsRequest:
		return "IssuedAssetsRequest"
	case IssuedAssetsResponse:
		return "IssuedAssetsResponse"
	case OwnedAssetsRequest:
		return "OwnedAssetsRequest"
	case OwnedAssetsResponse:
		return "OwnedAssetsResponse"
	case PossessedAssetsRequest:
		return "PossessedAssetsRequest"
	case PossessedAssetsResponse:
		return "PossessedAssetsResponse"
	case ContractFunctionRequest:
		return "ContractFunctionRequest"
	case ContractFunctionResponse:
		return "ContractFunctionResponse"
	case SystemInfoRequest:
		return "SystemInfoRequest"
	case SystemInfoResponse:
		return "SystemInfoResponse"
	case AssetsRequest:
		return "AssetsRequest"
	case AssetsResponse:
		return "AssetsResponse"
	case TxStatusRequest:
		return "TxStatusRequest"
	case TxStatusResponse:
		return "TxStatusResponse"
	}
	return fmt.Sprintf("MessageType(%d)", uint8(t))
}
