package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key builds a namespaced cache key of the form namespace:hash(parts...).
// Parts are joined with a NUL separator before hashing so that
// ("ab", "c") and ("a", "bc") never collide.
func Key(namespace string, parts ...string) string {
	return namespace + ":" + Hash([]byte(strings.Join(parts, "\x00")))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
