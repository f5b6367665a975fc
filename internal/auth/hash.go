package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken is the lookup key stored for a raw bearer token.
func HashToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}
