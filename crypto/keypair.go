package crypto

import "errors"

var ErrSigningKey = errors.New("signing key missing or invalid")

// The node network verifies transactions with its own curve, so the
// signing primitive stays behind an interface and the curve
// implementation is swappable. The bundled factory is ed25519; callers
// holding native key material supply their own KeyPair.
type (
	KeyPair interface {
		PublicKey() Key
		Sign(digest Hash) (Signature, error)
	}

	Verifier interface {
		Verify(public Key, digest Hash, sig Signature) bool
	}

	KeyPairFactory interface {
		FromSeed(seed []byte) (KeyPair, error)
		FromSubSeed(sub Key) (KeyPair, error)
	}
)

// SubSeed derives the private material from a 55 letter lowercase
// wallet seed. The seed itself never leaves this function.
func SubSeed(seed string) (Key, error) {
	var sub Key
	if len(seed) != 55 {
		return sub, ErrSigningKey
	}
	b := make([]byte, len(seed))
	for i := 0; i < len(seed); i++ {
		if seed[i] < 'a' || seed[i] > 'z' {
			return sub, ErrSigningKey
		}
		b[i] = seed[i] - 'a'
	}
	return Key(K12Hash(b)), nil
}
