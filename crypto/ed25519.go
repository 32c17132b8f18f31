package crypto

import (
	"bytes"
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
)

// Ed25519Factory builds key pairs on the edwards25519 curve. Signatures
// are plain ed25519 over the 32 byte digest.
type Ed25519Factory struct{}

type ed25519KeyPair struct {
	scalar *edwards25519.Scalar
	prefix [32]byte
	public Key
}

func (Ed25519Factory) FromSeed(seed []byte) (KeyPair, error) {
	if len(seed) != 32 {
		return nil, fmt.Errorf("%w: seed length %d", ErrSigningKey, len(seed))
	}
	h := sha512.Sum512(seed)
	s, err := edwards25519.NewScalar().SetBytesWithClamping(h[:32])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningKey, err)
	}
	kp := &ed25519KeyPair{scalar: s}
	copy(kp.prefix[:], h[32:])
	A := edwards25519.NewIdentityPoint().ScalarBaseMult(s)
	copy(kp.public[:], A.Bytes())
	return kp, nil
}

func (f Ed25519Factory) FromSubSeed(sub Key) (KeyPair, error) {
	return f.FromSeed(sub[:])
}

func (kp *ed25519KeyPair) PublicKey() Key {
	return kp.public
}

func (kp *ed25519KeyPair) Sign(digest Hash) (Signature, error) {
	var sig Signature
	if kp.scalar == nil {
		return sig, ErrSigningKey
	}

	mh := sha512.New()
	mh.Write(kp.prefix[:])
	mh.Write(digest[:])
	var messageDigest [64]byte
	mh.Sum(messageDigest[:0])
	r, err := edwards25519.NewScalar().SetUniformBytes(messageDigest[:])
	if err != nil {
		return sig, fmt.Errorf("%w: %v", ErrSigningKey, err)
	}
	R := edwards25519.NewIdentityPoint().ScalarBaseMult(r)

	kh := sha512.New()
	kh.Write(R.Bytes())
	kh.Write(kp.public[:])
	kh.Write(digest[:])
	var hramDigest [64]byte
	kh.Sum(hramDigest[:0])
	k, err := edwards25519.NewScalar().SetUniformBytes(hramDigest[:])
	if err != nil {
		return sig, fmt.Errorf("%w: %v", ErrSigningKey, err)
	}

	S := edwards25519.NewScalar().MultiplyAdd(k, kp.scalar, r)
	copy(sig[:32], R.Bytes())
	copy(sig[32:], S.Bytes())
	return sig, nil
}

func (Ed25519Factory) Verify(public Key, digest Hash, sig Signature) bool {
	A, err := edwards25519.NewIdentityPoint().SetBytes(public[:])
	if err != nil {
		return false
	}

	kh := sha512.New()
	kh.Write(sig[:32])
	kh.Write(public[:])
	kh.Write(digest[:])
	var hramDigest [64]byte
	kh.Sum(hramDigest[:0])
	k, err := edwards25519.NewScalar().SetUniformBytes(hramDigest[:])
	if err != nil {
		return false
	}

	S, err := edwards25519.NewScalar().SetCanonicalBytes(sig[32:])
	if err != nil {
		return false
	}

	minusA := edwards25519.NewIdentityPoint().Negate(A)
	R := edwards25519.NewIdentityPoint().VarTimeDoubleScalarBaseMult(k, minusA, S)
	return bytes.Equal(R.Bytes(), sig[:32])
}
