package crypto

import (
	"encoding/binary"
	"math/bits"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encryptXOR is the inverse of DecryptXOR.
func encryptXOR(plain []byte) []byte {
	out := make([]byte, len(plain))
	chainKey := byte(0x5E)
	for i, p := range plain {
		out[i] = (p + chainKey) ^ XORKey[i&15]
		chainKey = out[i] + 0x3D
	}
	return out
}

// encryptLEA is the forward LEA-256 round function, used to check DecryptLEA.
func encryptLEA(plain []byte, key [32]byte) []byte {
	rk := leaKeySchedule(key)
	out := make([]byte, len(plain))
	for off := 0; off+16 <= len(plain); off += 16 {
		x0 := binary.LittleEndian.Uint32(plain[off:])
		x1 := binary.LittleEndian.Uint32(plain[off+4:])
		x2 := binary.LittleEndian.Uint32(plain[off+8:])
		x3 := binary.LittleEndian.Uint32(plain[off+12:])
		for r := 0; r < 32; r++ {
			k := rk[r*6 : r*6+6]
			n0 := bits.RotateLeft32((x0^k[0])+(x1^k[1]), 9)
			n1 := bits.RotateLeft32((x1^k[2])+(x2^k[3]), -5)
			n2 := bits.RotateLeft32((x2^k[4])+(x3^k[5]), -3)
			x0, x1, x2, x3 = n0, n1, n2, x0
		}
		binary.LittleEndian.PutUint32(out[off:], x0)
		binary.LittleEndian.PutUint32(out[off+4:], x1)
		binary.LittleEndian.PutUint32(out[off+8:], x2)
		binary.LittleEndian.PutUint32(out[off+12:], x3)
	}
	return out
}

func TestDecryptXORRoundTrip(t *testing.T) {
	plain := []byte("BMD model payload with more than sixteen bytes")
	assert.Equal(t, plain, DecryptXOR(encryptXOR(plain)))
}

func TestDecryptLEARoundTrip(t *testing.T) {
	var key [32]byte
	for i := range key {
		key[i] = byte(i * 7)
	}
	plain := []byte(strings.Repeat("0123456789abcdef", 3))

	cipher := encryptLEA(plain, key)
	assert.NotEqual(t, plain, cipher)
	assert.Equal(t, plain, DecryptLEA(cipher, key))
}

func TestDecryptLEAKeepsPartialTail(t *testing.T) {
	var key [32]byte
	data := append(make([]byte, 16), 1, 2, 3)
	out := DecryptLEA(data, key)
	require.Len(t, out, 19)
	assert.Equal(t, []byte{1, 2, 3}, out[16:])
}

func TestParseLEAKey(t *testing.T) {
	key, err := ParseLEAKey(strings.Repeat("0a", 32))
	require.NoError(t, err)
	assert.Equal(t, byte(0x0a), key[31])

	_, err = ParseLEAKey("abcd")
	assert.Error(t, err)

	_, err = ParseLEAKey("zz")
	assert.Error(t, err)
}
