package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Key is the content address of an artifact: a hex SHA-256 over the
// semantic inputs that determine its bytes.
type Key string

// DeriveKey fingerprints parts. Each part is length-prefixed, so ("ab", "c")
// and ("a", "bc") hash differently. The result never depends on time.
func DeriveKey(parts ...string) Key {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write([]byte(p))
	}
	return Key(hex.EncodeToString(h.Sum(nil)))
}
