package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the hex SHA-256 digest of a plaintext password.
// Digests are stored unsalted; VerifyPassword compares them verbatim.
func HashPassword(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword recomputes the digest and compares it to the stored
// value in constant time.
func VerifyPassword(plaintext, digest string) bool {
	return hmac.Equal([]byte(HashPassword(plaintext)), []byte(digest))
}
