package protocol

import (
	"testing"

	"github.com/friendwu/qubicly/crypto"
	"github.com/stretchr/testify/require"
)

func testKeyPair(t *testing.T, seed string) crypto.KeyPair {
	sub := crypto.Key(crypto.K12Hash([]byte(seed)))
	kp, err := crypto.Ed25519Factory{}.FromSubSeed(sub)
	require.Nil(t, err)
	return kp
}

func TestTransactionSignAndMarshal(t *testing.T) {
	require := require.New(t)

	kp := testKeyPair(t, "sender")
	dest := crypto.Key(crypto.K12Hash([]byte("receiver")))

	tx := NewTransaction(kp.PublicKey(), dest, 1000, 999)
	require.False(tx.Signed())
	require.Nil(tx.SetInput(0, nil))

	require.Nil(tx.SignWith(kp))
	require.True(tx.Signed())

	var verifier crypto.Verifier = crypto.Ed25519Factory{}
	ok, err := tx.VerifyWith(verifier)
	require.Nil(err)
	require.True(ok)

	b, err := tx.MarshalBinary()
	require.Nil(err)
	require.Len(b, TxBaseSize+SignatureSize)

	var back Transaction
	require.Nil(back.UnmarshalBinary(b))
	require.True(back.Signed())
	require.Equal(tx.Source, back.Source)
	require.Equal(tx.Destination, back.Destination)
	require.Equal(int64(1000), back.Amount)
	require.Equal(uint32(999), back.Tick)
	require.Equal(tx.Signature, back.Signature)

	id, err := back.ID()
	require.Nil(err)
	_, err = id.PubKey()
	require.Nil(err)
}

func TestTransactionOneWaySigning(t *testing.T) {
	require := require.New(t)

	kp := testKeyPair(t, "sender")
	tx := NewTransaction(kp.PublicKey(), crypto.Key{}, 1, 2)
	require.Nil(tx.SignWith(kp))

	err := tx.SignWith(kp)
	require.ErrorIs(err, ErrPrecondition)
	err = tx.SetInput(1, []byte("late"))
	require.ErrorIs(err, ErrPrecondition)
}

func TestTransactionSignErrors(t *testing.T) {
	require := require.New(t)

	tx := NewTransaction(crypto.Key{}, crypto.Key{}, 1, 2)
	err := tx.SignWith(nil)
	require.ErrorIs(err, crypto.ErrSigningKey)
	require.False(tx.Signed())

	_, err = tx.ID()
	require.ErrorIs(err, ErrPrecondition)
	_, err = tx.VerifyWith(crypto.Ed25519Factory{})
	require.ErrorIs(err, ErrPrecondition)
}

func TestTransactionValidate(t *testing.T) {
	require := require.New(t)

	kp := testKeyPair(t, "sender")
	tx := NewTransaction(kp.PublicKey(), crypto.Key{}, 100, 5)
	err := tx.Validate()
	require.ErrorIs(err, ErrPrecondition)

	require.Nil(tx.SignWith(kp))
	require.Nil(tx.Validate())

	neg := NewTransaction(kp.PublicKey(), crypto.Key{}, -5, 5)
	require.Nil(neg.SignWith(kp))
	err = neg.Validate()
	require.ErrorIs(err, ErrPrecondition)
}

func TestTransactionInput(t *testing.T) {
	require := require.New(t)

	kp := testKeyPair(t, "sender")
	tx := NewTransaction(kp.PublicKey(), crypto.Key{}, 0, 10)
	err := tx.SetInput(1, make([]byte, MaxInputSize+1))
	require.ErrorIs(err, ErrFieldOverflow)

	input := []byte("contract call payload")
	require.Nil(tx.SetInput(7, input))
	require.Nil(tx.SignWith(kp))

	b, err := tx.MarshalBinary()
	require.Nil(err)
	require.Len(b, TxBaseSize+len(input)+SignatureSize)

	var back Transaction
	require.Nil(back.UnmarshalBinary(b))
	require.Equal(uint16(7), back.InputType)
	require.Equal(input, back.Input)

	// Declared input size disagreeing with the buffer is malformed.
	b[76] = byte(len(input) + 1)
	err = back.UnmarshalBinary(b)
	require.ErrorIs(err, ErrMalformedMessage)
}

func TestTransactionUnmarshalShort(t *testing.T) {
	require := require.New(t)

	var tx Transaction
	err := tx.UnmarshalBinary(make([]byte, TxBaseSize+SignatureSize-1))
	require.ErrorIs(err, ErrMalformedMessage)
}
