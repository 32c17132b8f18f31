package crypto

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/cloudflare/circl/xof/k12"
)

type Hash [32]byte

// K12Hash is the network digest function, KangarooTwelve truncated
// to 32 bytes. Transaction digests and identity checksums both use it.
func K12Hash(data []byte) Hash {
	var hash Hash
	h := k12.NewDraft10(nil)
	_, _ = h.Write(data)
	_, _ = h.Read(hash[:])
	return hash
}

func HashFromString(src string) (Hash, error) {
	var hash Hash
	data, err := hex.DecodeString(src)
	if err != nil {
		return hash, err
	}
	if len(data) != len(hash) {
		return hash, fmt.Errorf("invalid hash length %d", len(data))
	}
	copy(hash[:], data)
	return hash, nil
}

func (h Hash) HasValue() bool {
	zero := Hash{}
	return !bytes.Equal(h[:], zero[:])
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(h.String())), nil
}

func (h *Hash) UnmarshalJSON(b []byte) error {
	unquoted, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}
	data, err := hex.DecodeString(unquoted)
	if err != nil {
		return err
	}
	if len(data) != len(h) {
		return fmt.Errorf("invalid hash length %d", len(data))
	}
	copy(h[:], data)
	return nil
}
