package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// userKeyLen is 128 bits of the digest in hex.
const userKeyLen = 32

// HashUserKey maps a user id to a stable path segment that does not expose
// the id. Surrounding whitespace is ignored so "u1" and " u1" share a key.
func HashUserKey(userID string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(userID)))
	return hex.EncodeToString(sum[:])[:userKeyLen]
}
