package protocol

import (
	"fmt"

	"github.com/friendwu/qubicly/crypto"
)

// TickInfo is the node's view of the current tick, 16 bytes on the
// wire.
type TickInfo struct {
	TickDuration            uint16 `json:"tick_duration"`
	Epoch                   uint16 `json:"epoch"`
	Tick                    uint32 `json:"tick"`
	NumberOfAlignedVotes    uint16 `json:"number_of_aligned_votes"`
	NumberOfMisalignedVotes uint16 `json:"number_of_misaligned_votes"`
	InitialTick             uint32 `json:"initial_tick"`
}

const TickInfoSize = 16

func (t *TickInfo) UnmarshalBinary(b []byte) error {
	if len(b) < TickInfoSize {
		return fmt.Errorf("%w: tick info %d bytes", ErrMalformedMessage, len(b))
	}
	dec := NewDecoder(b)
	var err error
	if t.TickDuration, err = dec.ReadUint16(); err != nil {
		return err
	}
	if t.Epoch, err = dec.ReadUint16(); err != nil {
		return err
	}
	if t.Tick, err = dec.ReadUint32(); err != nil {
		return err
	}
	if t.NumberOfAlignedVotes, err = dec.ReadUint16(); err != nil {
		return err
	}
	if t.NumberOfMisalignedVotes, err = dec.ReadUint16(); err != nil {
		return err
	}
	t.InitialTick, err = dec.ReadUint32()
	return err
}

func (t TickInfo) MarshalBinary() ([]byte, error) {
	enc := NewEncoder()
	enc.WriteUint16(t.TickDuration)
	enc.WriteUint16(t.Epoch)
	enc.WriteUint32(t.Tick)
	enc.WriteUint16(t.NumberOfAlignedVotes)
	enc.WriteUint16(t.NumberOfMisalignedVotes)
	enc.WriteUint32(t.InitialTick)
	return enc.Bytes(), nil
}

// SystemInfo reports epoch and supply level state, 128 bytes on the
// wire.
type SystemInfo struct {
	Version           int16  `json:"version"`
	Epoch             uint16 `json:"epoch"`
	Tick              uint32 `json:"tick"`
	InitialTick       uint32 `json:"initial_tick"`
	LatestCreatedTick uint32 `json:"latest_created_tick"`

	InitialMillisecond uint16 `json:"initial_millisecond"`
	InitialSecond      uint8  `json:"initial_second"`
	InitialMinute      uint8  `json:"initial_minute"`
	InitialHour        uint8  `json:"initial_hour"`
	InitialDay         uint8  `json:"initial_day"`
	InitialMonth       uint8  `json:"initial_month"`
	InitialYear        uint8  `json:"initial_year"`

	NumberOfEntities     uint32 `json:"number_of_entities"`
	NumberOfTransactions uint32 `json:"number_of_transactions"`

	RandomMiningSeed  crypto.Hash `json:"random_mining_seed"`
	SolutionThreshold int32       `json:"solution_threshold"`

	TotalSpectrumAmount               uint64 `json:"total_spectrum_amount"`
	CurrentEntityBalanceDustThreshold uint64 `json:"current_entity_balance_dust_threshold"`
	TargetTickVoteSignature           uint32 `json:"target_tick_vote_signature"`

	Reserve0 uint64 `json:"-"`
	Reserve1 uint64 `json:"-"`
	Reserve2 uint64 `json:"-"`
	Reserve3 uint64 `json:"-"`
	Reserve4 uint64 `json:"-"`
}

const SystemInfoSize = 128

func (s *SystemInfo) UnmarshalBinary(b []byte) error {
	if len(b) < SystemInfoSize {
		return fmt.Errorf("%w: system info %d bytes", ErrMalformedMessage, len(b))
	}
	dec := NewDecoder(b)
	var err error
	if s.Version, err = dec.ReadInt16(); err != nil {
		return err
	}
	if s.Epoch, err = dec.ReadUint16(); err != nil {
		return err
	}
	if s.Tick, err = dec.ReadUint32(); err != nil {
		return err
	}
	if s.InitialTick, err = dec.ReadUint32(); err != nil {
		return err
	}
	if s.LatestCreatedTick, err = dec.ReadUint32(); err != nil {
		return err
	}
	if s.InitialMillisecond, err = dec.ReadUint16(); err != nil {
		return err
	}
	if s.InitialSecond, err = dec.ReadUint8(); err != nil {
		return err
	}
	if s.InitialMinute, err = dec.ReadUint8(); err != nil {
		return err
	}
	if s.InitialHour, err = dec.ReadUint8(); err != nil {
		return err
	}
	if s.InitialDay, err = dec.ReadUint8(); err != nil {
		return err
	}
	if s.InitialMonth, err = dec.ReadUint8(); err != nil {
		return err
	}
	if s.InitialYear, err = dec.ReadUint8(); err != nil {
		return err
	}
	if s.NumberOfEntities, err = dec.ReadUint32(); err != nil {
		return err
	}
	if s.NumberOfTransactions, err = dec.ReadUint32(); err != nil {
		return err
	}
	if err = dec.Read(s.RandomMiningSeed[:]); err != nil {
		return err
	}
	if s.SolutionThreshold, err = dec.ReadInt32(); err != nil {
		return err
	}
	if s.TotalSpectrumAmount, err = dec.ReadUint64(); err != nil {
		return err
	}
	if s.CurrentEntityBalanceDustThreshold, err = dec.ReadUint64(); err != nil {
		return err
	}
	if s.TargetTickVoteSignature, err = dec.ReadUint32(); err != nil {
		return err
	}
	if s.Reserve0, err = dec.ReadUint64(); err != nil {
		return err
	}
	if s.Reserve1, err = dec.ReadUint64(); err != nil {
		return err
	}
	if s.Reserve2, err = dec.ReadUint64(); err != nil {
		return err
	}
	if s.Reserve3, err = dec.ReadUint64(); err != nil {
		return err
	}
	s.Reserve4, err = dec.ReadUint64()
	return err
}

func (s SystemInfo) MarshalBinary() ([]byte, error) {
	enc := NewEncoder()
	enc.WriteInt16(s.Version)
	enc.WriteUint16(s.Epoch)
	enc.WriteUint32(s.Tick)
	enc.WriteUint32(s.InitialTick)
	enc.WriteUint32(s.LatestCreatedTick)
	enc.WriteUint16(s.InitialMillisecond)
	enc.WriteUint8(s.InitialSecond)
	enc.WriteUint8(s.InitialMinute)
	enc.WriteUint8(s.InitialHour)
	enc.WriteUint8(s.InitialDay)
	enc.WriteUint8(s.InitialMonth)
	enc.WriteUint8(s.InitialYear)
	enc.WriteUint32(s.NumberOfEntities)
	enc.WriteUint32(s.NumberOfTransactions)
	enc.Write(s.RandomMiningSeed[:])
	enc.WriteInt32(s.SolutionThreshold)
	enc.WriteUint64(s.TotalSpectrumAmount)
	enc.WriteUint64(s.CurrentEntityBalanceDustThreshold)
	enc.WriteUint32(s.TargetTickVoteSignature)
	enc.WriteUint64(s.Reserve0)
	enc.WriteUint64(s.Reserve1)
	enc.WriteUint64(s.Reserve2)
	enc.WriteUint64(s.Reserve3)
	enc.WriteUint64(s.Reserve4)
	return enc.Bytes(), nil
}

// Entity is one spectrum record, 64 bytes on the wire.
type Entity struct {
	PublicKey                  crypto.Key `json:"public_key"`
	IncomingAmount             int64      `json:"incoming_amount"`
	OutgoingAmount             int64      `json:"outgoing_amount"`
	NumberOfIncomingTransfers  uint32     `json:"number_of_incoming_transfers"`
	NumberOfOutgoingTransfers  uint32     `json:"number_of_outgoing_transfers"`
	LatestIncomingTransferTick uint32     `json:"latest_incoming_transfer_tick"`
	LatestOutgoingTransferTick uint32     `json:"latest_outgoing_transfer_tick"`
}

func (e *Entity) decode(dec *Decoder) error {
	var err error
	if err = dec.Read(e.PublicKey[:]); err != nil {
		return err
	}
	if e.IncomingAmount, err = dec.ReadInt64(); err != nil {
		return err
	}
	if e.OutgoingAmount, err = dec.ReadInt64(); err != nil {
		return err
	}
	if e.NumberOfIncomingTransfers, err = dec.ReadUint32(); err != nil {
		return err
	}
	if e.NumberOfOutgoingTransfers, err = dec.ReadUint32(); err != nil {
		return err
	}
	if e.LatestIncomingTransferTick, err = dec.ReadUint32(); err != nil {
		return err
	}
	e.LatestOutgoingTransferTick, err = dec.ReadUint32()
	return err
}

// Balance returns an entity record with its spectrum proof.
type Balance struct {
	Entity        Entity                     `json:"entity"`
	Tick          uint32                     `json:"tick"`
	SpectrumIndex int32                      `json:"spectrum_index"`
	Siblings      [SpectrumDepth]crypto.Hash `json:"siblings"`
}

const BalanceSize = 64 + 8 + SpectrumDepth*32

func (a *Balance) UnmarshalBinary(b []byte) error {
	if len(b) < BalanceSize {
		return fmt.Errorf("%w: balance %d bytes", ErrMalformedMessage, len(b))
	}
	dec := NewDecoder(b)
	var err error
	if err = a.Entity.decode(dec); err != nil {
		return err
	}
	if a.Tick, err = dec.ReadUint32(); err != nil {
		return err
	}
	if a.SpectrumIndex, err = dec.ReadInt32(); err != nil {
		return err
	}
	for i := range a.Siblings {
		if err = dec.Read(a.Siblings[i][:]); err != nil {
			return err
		}
	}
	return nil
}

// Amount is the spendable balance, incoming minus outgoing.
func (a *Balance) Amount() int64 {
	return a.Entity.IncomingAmount - a.Entity.OutgoingAmount
}

// Computors is the epoch committee: 676 public keys under one
// signature.
type Computors struct {
	Epoch     uint16                        `json:"epoch"`
	PubKeys   [NumberOfComputors]crypto.Key `json:"pub_keys"`
	Signature crypto.Signature              `json:"signature"`
}

const ComputorsSize = 2 + NumberOfComputors*32 + 64

func (c *Computors) UnmarshalBinary(b []byte) error {
	if len(b) < ComputorsSize {
		return fmt.Errorf("%w: computors %d bytes", ErrMalformedMessage, len(b))
	}
	dec := NewDecoder(b)
	var err error
	if c.Epoch, err = dec.ReadUint16(); err != nil {
		return err
	}
	for i := range c.PubKeys {
		if err = dec.Read(c.PubKeys[i][:]); err != nil {
			return err
		}
	}
	return dec.Read(c.Signature[:])
}

// TickData is the full payload a computor proposed for one tick.
type TickData struct {
	ComputorIndex uint16 `json:"computor_index"`
	Epoch         uint16 `json:"epoch"`
	Tick          uint32 `json:"tick"`
	Millisecond   uint16 `json:"millisecond"`
	Second        uint8  `json:"second"`
	Minute        uint8  `json:"minute"`
	Hour          uint8  `json:"hour"`
	Day           uint8  `json:"day"`
	Month         uint8  `json:"month"`
	Year          uint8  `json:"year"`

	Timelock           crypto.Hash                              `json:"timelock"`
	TransactionDigests [NumberOfTransactionsPerTick]crypto.Hash `json:"transaction_digests"`
	ContractFees       [NumberOfTransactionsPerTick]int64       `json:"contract_fees"`
	Signature          crypto.Signature                         `json:"signature"`
}

const TickDataSize = 16 + 32 + NumberOfTransactionsPerTick*32 + NumberOfTransactionsPerTick*8 + 64

func (t *TickData) UnmarshalBinary(b []byte) error {
	if len(b) < TickDataSize {
		return fmt.Errorf("%w: tick data %d bytes", ErrMalformedMessage, len(b))
	}
	dec := NewDecoder(b)
	var err error
	if t.ComputorIndex, err = dec.ReadUint16(); err != nil {
		return err
	}
	if t.Epoch, err = dec.ReadUint16(); err != nil {
		return err
	}
	if t.Tick, err = dec.ReadUint32(); err != nil {
		return err
	}
	if t.Millisecond, err = dec.ReadUint16(); err != nil {
		return err
	}
	if t.Second, err = dec.ReadUint8(); err != nil {
		return err
	}
	if t.Minute, err = dec.ReadUint8(); err != nil {
		return err
	}
	if t.Hour, err = dec.ReadUint8(); err != nil {
		return err
	}
	if t.Day, err = dec.ReadUint8(); err != nil {
		return err
	}
	if t.Month, err = dec.ReadUint8(); err != nil {
		return err
	}
	if t.Year, err = dec.ReadUint8(); err != nil {
		return err
	}
	if err = dec.Read(t.Timelock[:]); err != nil {
		return err
	}
	for i := range t.TransactionDigests {
		if err = dec.Read(t.TransactionDigests[i][:]); err != nil {
			return err
		}
	}
	for i := range t.ContractFees {
		if t.ContractFees[i], err = dec.ReadInt64(); err != nil {
			return err
		}
	}
	return dec.Read(t.Signature[:])
}

// IsEmpty reports a tick the network never filled.
func (t *TickData) IsEmpty() bool {
	if t == nil {
		return true
	}
	return *t == TickData{}
}

// DigestCount counts the non-zero transaction digests of the tick.
func (t *TickData) DigestCount() int {
	n := 0
	for i := range t.TransactionDigests {
		if t.TransactionDigests[i].HasValue() {
			n++
		}
	}
	return n
}

// QuorumTickVote is one computor's vote on a tick, 344 bytes on the
// wire.
type QuorumTickVote struct {
	ComputorIndex uint16 `json:"computor_index"`
	Epoch         uint16 `json:"epoch"`
	Tick          uint32 `json:"tick"`
	Millisecond   uint16 `json:"millisecond"`
	Second        uint8  `json:"second"`
	Minute        uint8  `json:"minute"`
	Hour          uint8  `json:"hour"`
	Day           uint8  `json:"day"`
	Month         uint8  `json:"month"`
	Year          uint8  `json:"year"`

	PreviousResourceTestingDigest uint32 `json:"previous_resource_testing_digest"`
	SaltedResourceTestingDigest   uint32 `json:"salted_resource_testing_digest"`
	PreviousTransactionBodyDigest uint32 `json:"previous_transaction_body_digest"`
	SaltedTransactionBodyDigest   uint32 `json:"salted_transaction_body_digest"`

	PreviousSpectrumDigest crypto.Hash `json:"previous_spectrum_digest"`
	PreviousUniverseDigest crypto.Hash `json:"previous_universe_digest"`
	PreviousComputerDigest crypto.Hash `json:"previous_computer_digest"`
	SaltedSpectrumDigest   crypto.Hash `json:"salted_spectrum_digest"`
	SaltedUniverseDigest   crypto.Hash `json:"salted_universe_digest"`
	SaltedComputerDigest   crypto.Hash `json:"salted_computer_digest"`

	TxDigest                 crypto.Hash `json:"tx_digest"`
	ExpectedNextTickTxDigest crypto.Hash `json:"expected_next_tick_tx_digest"`

	Signature crypto.Signature `json:"signature"`
}

const QuorumTickVoteSize = 16 + 16 + 32*8 + 64

func (v *QuorumTickVote) UnmarshalBinary(b []byte) error {
	if len(b) < QuorumTickVoteSize {
		return fmt.Errorf("%w: quorum vote %d bytes", ErrMalformedMessage, len(b))
	}
	dec := NewDecoder(b)
	var err error
	if v.ComputorIndex, err = dec.ReadUint16(); err != nil {
		return err
	}
	if v.Epoch, err = dec.ReadUint16(); err != nil {
		return err
	}
	if v.Tick, err = dec.ReadUint32(); err != nil {
		return err
	}
	if v.Millisecond, err = dec.ReadUint16(); err != nil {
		return err
	}
	if v.Second, err = dec.ReadUint8(); err != nil {
		return err
	}
	if v.Minute, err = dec.ReadUint8(); err != nil {
		return err
	}
	if v.Hour, err = dec.ReadUint8(); err != nil {
		return err
	}
	if v.Day, err = dec.ReadUint8(); err != nil {
		return err
	}
	if v.Month, err = dec.ReadUint8(); err != nil {
		return err
	}
	if v.Year, err = dec.ReadUint8(); err != nil {
		return err
	}
	if v.PreviousResourceTestingDigest, err = dec.ReadUint32(); err != nil {
		return err
	}
	if v.SaltedResourceTestingDigest, err = dec.ReadUint32(); err != nil {
		return err
	}
	if v.PreviousTransactionBodyDigest, err = dec.ReadUint32(); err != nil {
		return err
	}
	if v.SaltedTransactionBodyDigest, err = dec.ReadUint32(); err != nil {
		return err
	}
	for _, h := range []*crypto.Hash{
		&v.PreviousSpectrumDigest, &v.PreviousUniverseDigest, &v.PreviousComputerDigest,
		&v.SaltedSpectrumDigest, &v.SaltedUniverseDigest, &v.SaltedComputerDigest,
		&v.TxDigest, &v.ExpectedNextTickTxDigest,
	} {
		if err = dec.Read(h[:]); err != nil {
			return err
		}
	}
	return dec.Read(v.Signature[:])
}

// TransactionStatus reports which transactions of a tick moved money.
type TransactionStatus struct {
	CurrentTickOfNode  uint32        `json:"current_tick_of_node"`
	Tick               uint32        `json:"tick"`
	TxCount            uint32        `json:"tx_count"`
	MoneyFlew          []byte        `json:"money_flew"`
	TransactionDigests []crypto.Hash `json:"transaction_digests"`
}

const transactionStatusFixedSize = 12 + (NumberOfTransactionsPerTick+7)/8

func (s *TransactionStatus) UnmarshalBinary(b []byte) error {
	if len(b) < transactionStatusFixedSize {
		return fmt.Errorf("%w: tx status %d bytes", ErrMalformedMessage, len(b))
	}
	dec := NewDecoder(b)
	var err error
	if s.CurrentTickOfNode, err = dec.ReadUint32(); err != nil {
		return err
	}
	if s.Tick, err = dec.ReadUint32(); err != nil {
		return err
	}
	if s.TxCount, err = dec.ReadUint32(); err != nil {
		return err
	}
	s.MoneyFlew = make([]byte, (NumberOfTransactionsPerTick+7)/8)
	if err = dec.Read(s.MoneyFlew); err != nil {
		return err
	}
	if dec.Remaining() != int(s.TxCount)*32 {
		return fmt.Errorf("%w: tx status digests %d for count %d", ErrMalformedMessage, dec.Remaining(), s.TxCount)
	}
	s.TransactionDigests = make([]crypto.Hash, s.TxCount)
	for i := range s.TransactionDigests {
		if err = dec.Read(s.TransactionDigests[i][:]); err != nil {
			return err
		}
	}
	return nil
}

// PublicPeers carries up to four peer addresses, one IPv4 each.
type PublicPeers struct {
	Peers []string `json:"peers"`
}

func (p *PublicPeers) UnmarshalBinary(b []byte) error {
	if len(b) < 16 {
		return fmt.Errorf("%w: public peers %d bytes", ErrMalformedMessage, len(b))
	}
	for i := 0; i < 16; i += 4 {
		if b[i] == 0 && b[i+1] == 0 && b[i+2] == 0 && b[i+3] == 0 {
			continue
		}
		p.Peers = append(p.Peers, fmt.Sprintf("%d.%d.%d.%d", b[i], b[i+1], b[i+2], b[i+3]))
	}
	return nil
}
