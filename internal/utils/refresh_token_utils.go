package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken generates a SHA256 hash of an opaque token (refresh, invite or reset).
func HashToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return hex.EncodeToString(hasher.Sum(nil))
}

// CompareTokenHash compares a plain token with its stored SHA256 hash.
// The `token` parameter is the raw token string, not a hash.
func CompareTokenHash(token string, storedHash string) bool {
	return HashToken(token) == storedHash
}
