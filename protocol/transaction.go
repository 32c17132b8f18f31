package protocol

import (
	"fmt"

	"github.com/friendwu/qubicly/crypto"
)

const (
	// TxBaseSize covers the fixed fields before the variable input:
	// source 32, destination 32, amount 8, tick 4, input type 2,
	// input size 2.
	TxBaseSize = 80
	// MaxInputSize bounds the variable input, pinned by the network.
	MaxInputSize  = 1024
	SignatureSize = 64
)

// Transaction is a transfer scheduled for a future tick. It is mutable
// while unsigned; SignWith seals it and every later mutation attempt
// fails. The signature covers every field before it.
type Transaction struct {
	Source      crypto.Key       `json:"source_public_key"`
	Destination crypto.Key       `json:"destination_public_key"`
	Amount      int64            `json:"amount"`
	Tick        uint32           `json:"tick"`
	InputType   uint16           `json:"input_type"`
	Input       []byte           `json:"input,omitempty"`
	Signature   crypto.Signature `json:"signature"`

	signed bool
}

func NewTransaction(source, destination crypto.Key, amount int64, tick uint32) *Transaction {
	return &Transaction{
		Source:      source,
		Destination: destination,
		Amount:      amount,
		Tick:        tick,
	}
}

// SetInput attaches a typed payload to an unsigned transaction.
func (tx *Transaction) SetInput(inputType uint16, input []byte) error {
	if tx.signed {
		return fmt.Errorf("%w: transaction already signed", ErrPrecondition)
	}
	if len(input) > MaxInputSize {
		return fmt.Errorf("%w: input %d bytes", ErrFieldOverflow, len(input))
	}
	tx.InputType = inputType
	tx.Input = input
	return nil
}

func (tx *Transaction) Signed() bool {
	return tx.signed
}

func (tx *Transaction) marshalUnsigned() ([]byte, error) {
	if len(tx.Input) > MaxInputSize {
		return nil, fmt.Errorf("%w: input %d bytes", ErrFieldOverflow, len(tx.Input))
	}
	enc := NewEncoder()
	enc.Write(tx.Source[:])
	enc.Write(tx.Destination[:])
	enc.WriteInt64(tx.Amount)
	enc.WriteUint32(tx.Tick)
	enc.WriteUint16(tx.InputType)
	enc.WriteUint16(uint16(len(tx.Input)))
	enc.Write(tx.Input)
	return enc.Bytes(), nil
}

func (tx *Transaction) MarshalBinary() ([]byte, error) {
	b, err := tx.marshalUnsigned()
	if err != nil {
		return nil, err
	}
	return append(b, tx.Signature[:]...), nil
}

func (tx *Transaction) UnmarshalBinary(b []byte) error {
	if len(b) < TxBaseSize+SignatureSize {
		return fmt.Errorf("%w: transaction %d bytes", ErrMalformedMessage, len(b))
	}
	dec := NewDecoder(b)
	var err error
	if err = dec.Read(tx.Source[:]); err != nil {
		return err
	}
	if err = dec.Read(tx.Destination[:]); err != nil {
		return err
	}
	if tx.Amount, err = dec.ReadInt64(); err != nil {
		return err
	}
	if tx.Tick, err = dec.ReadUint32(); err != nil {
		return err
	}
	if tx.InputType, err = dec.ReadUint16(); err != nil {
		return err
	}
	var inputSize uint16
	if inputSize, err = dec.ReadUint16(); err != nil {
		return err
	}
	if dec.Remaining() != int(inputSize)+SignatureSize {
		return fmt.Errorf("%w: input size %d against %d remaining bytes", ErrMalformedMessage, inputSize, dec.Remaining())
	}
	if inputSize > 0 {
		tx.Input = make([]byte, inputSize)
		if err = dec.Read(tx.Input); err != nil {
			return err
		}
	} else {
		tx.Input = nil
	}
	if err = dec.Read(tx.Signature[:]); err != nil {
		return err
	}
	// Wire transactions arrive sealed.
	tx.signed = true
	return nil
}

// UnsignedDigest is the digest the signature covers.
func (tx *Transaction) UnsignedDigest() (crypto.Hash, error) {
	b, err := tx.marshalUnsigned()
	if err != nil {
		return crypto.Hash{}, err
	}
	return crypto.K12Hash(b), nil
}

// Digest covers the full sealed transaction and names it on the
// network.
func (tx *Transaction) Digest() (crypto.Hash, error) {
	b, err := tx.MarshalBinary()
	if err != nil {
		return crypto.Hash{}, err
	}
	return crypto.K12Hash(b), nil
}

// ID is the lowercase identity form of the sealed digest.
func (tx *Transaction) ID() (crypto.Identity, error) {
	if !tx.signed {
		return "", fmt.Errorf("%w: transaction not signed", ErrPrecondition)
	}
	digest, err := tx.Digest()
	if err != nil {
		return "", err
	}
	return crypto.IdentityFromPubKey(crypto.Key(digest), true), nil
}

// SignWith seals the transaction. Signing twice is rejected; a changed
// transfer needs a fresh unsigned transaction.
func (tx *Transaction) SignWith(kp crypto.KeyPair) error {
	if tx.signed {
		return fmt.Errorf("%w: transaction already signed", ErrPrecondition)
	}
	if kp == nil {
		return crypto.ErrSigningKey
	}
	digest, err := tx.UnsignedDigest()
	if err != nil {
		return err
	}
	sig, err := kp.Sign(digest)
	if err != nil {
		return err
	}
	tx.Signature = sig
	tx.signed = true
	return nil
}

// VerifyWith checks the signature against the source key under the
// given verifier.
func (tx *Transaction) VerifyWith(v crypto.Verifier) (bool, error) {
	if !tx.signed {
		return false, fmt.Errorf("%w: transaction not signed", ErrPrecondition)
	}
	digest, err := tx.UnsignedDigest()
	if err != nil {
		return false, err
	}
	return v.Verify(tx.Source, digest, tx.Signature), nil
}

// Validate checks broadcast preconditions. It runs before any network
// write.
func (tx *Transaction) Validate() error {
	if !tx.signed {
		return fmt.Errorf("%w: transaction not signed", ErrPrecondition)
	}
	if tx.Amount < 0 {
		return fmt.Errorf("%w: negative amount %d", ErrPrecondition, tx.Amount)
	}
	if len(tx.Input) > MaxInputSize {
		return fmt.Errorf("%w: input %d bytes", ErrFieldOverflow, len(tx.Input))
	}
	return nil
}
