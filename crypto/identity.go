package crypto

import (
	"encoding/binary"
	"fmt"
)

// Identity is the 60 letter address form of a 32 byte public key: four
// groups of 14 base-26 letters covering one u64 word each, followed by
// a 4 letter checksum over the low 18 bits of the key's K12 digest.
// Uppercase identities address entities, lowercase ones name
// transactions.
type Identity string

const IdentityLength = 60

func IdentityFromPubKey(pub Key, lowerCase bool) Identity {
	letter := byte('A')
	if lowerCase {
		letter = 'a'
	}
	var id [IdentityLength]byte
	for i := 0; i < 4; i++ {
		fragment := binary.LittleEndian.Uint64(pub[i*8 : (i+1)*8])
		for j := 0; j < 14; j++ {
			id[i*14+j] = byte(fragment%26) + letter
			fragment /= 26
		}
	}

	checksum := identityChecksum(pub)
	for i := 0; i < 4; i++ {
		id[56+i] = byte(checksum%26) + letter
		checksum /= 26
	}
	return Identity(id[:])
}

func (id Identity) PubKey() (Key, error) {
	var pub Key
	if len(id) != IdentityLength {
		return pub, fmt.Errorf("invalid identity length %d", len(id))
	}
	lo, hi := byte('A'), byte('Z')
	if id[0] >= 'a' {
		lo, hi = 'a', 'z'
	}
	for i := 0; i < len(id); i++ {
		if id[i] < lo || id[i] > hi {
			return pub, fmt.Errorf("invalid identity character %q", id[i])
		}
	}

	for i := 0; i < 4; i++ {
		var fragment uint64
		for j := 13; j >= 0; j-- {
			fragment = fragment*26 + uint64(id[i*14+j]-lo)
		}
		binary.LittleEndian.PutUint64(pub[i*8:], fragment)
	}

	checksum := identityChecksum(pub)
	for i := 0; i < 4; i++ {
		if id[56+i] != byte(checksum%26)+lo {
			return pub, fmt.Errorf("invalid identity checksum %s", id[56:])
		}
		checksum /= 26
	}
	return pub, nil
}

func (id Identity) String() string {
	return string(id)
}

func identityChecksum(pub Key) uint32 {
	digest := K12Hash(pub[:])
	checksum := uint32(digest[0]) | uint32(digest[1])<<8 | uint32(digest[2])<<16
	return checksum & 0x3FFFF
}
