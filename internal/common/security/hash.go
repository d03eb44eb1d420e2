package security

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// StoreKey derives the session store key from a session id.
func StoreKey(sessionID string) string {
	sum := blake2b.Sum256([]byte(sessionID))
	return hex.EncodeToString(sum[:])
}
