package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Key joins a namespace and a key, e.g. Key("page", url) -> "page:<url>".
func Key(namespace, key string) string {
	return namespace + ":" + key
}
