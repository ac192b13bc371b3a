package crypto

import (
	"encoding/hex"
	"fmt"
)

// XORKey is the BMD v12 chained-XOR key.
var XORKey = [16]byte{
	0xD1, 0x73, 0x52, 0xF6, 0xD2, 0x9A, 0xCB, 0x27,
	0x3E, 0xAF, 0x59, 0x31, 0x37, 0xB3, 0xE7, 0xA2,
}

// LEAKeyDelta holds the LEA key-schedule constants.
var LEAKeyDelta = [8]uint32{
	0xc3efe9db, 0x44626b02, 0x79e27c8a, 0x78df30ec,
	0x715ea49e, 0xc785da0a, 0xe04ef22a, 0xe5c40957,
}

// ParseLEAKey decodes a 64-character hex string into a LEA-256 key.
func ParseLEAKey(s string) ([32]byte, error) {
	var key [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return key, fmt.Errorf("crypto: lea key: %w", err)
	}
	if len(raw) != len(key) {
		return key, fmt.Errorf("crypto: lea key: want %d bytes, got %d", len(key), len(raw))
	}
	copy(key[:], raw)
	return key, nil
}
