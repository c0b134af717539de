// Package shared provides sentinel errors and small utility helpers
// used across the tutoring client.
package shared

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestHex returns the SHA-256 digest of s as a lowercase hex string.
//
// This is a plain content digest, not a slow KDF: credential hashes in a
// single-user client-resident store are compared exact-match against this
// value (a known weakness of the storage format, kept as-is).
func DigestHex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
