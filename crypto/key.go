package crypto

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
)

type Key [32]byte

func KeyFromString(src string) (Key, error) {
	var key Key
	data, err := hex.DecodeString(src)
	if err != nil {
		return key, err
	}
	if len(data) != len(key) {
		return key, fmt.Errorf("invalid key length %d", len(data))
	}
	copy(key[:], data)
	return key, nil
}

func (k Key) HasValue() bool {
	zero := Key{}
	return !bytes.Equal(k[:], zero[:])
}

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

func (k Key) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(k.String())), nil
}

func (k *Key) UnmarshalJSON(b []byte) error {
	unquoted, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}
	data, err := hex.DecodeString(unquoted)
	if err != nil {
		return err
	}
	if len(data) != len(k) {
		return fmt.Errorf("invalid key length %d", len(data))
	}
	copy(k[:], data)
	return nil
}
