package services

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// resetTokenBytes of entropy, hex-encoded to 64 characters.
const resetTokenBytes = 32

// GenerateResetToken returns a fresh token and the digest to store.
func GenerateResetToken() (token, digest string, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	token = hex.EncodeToString(buf)
	return token, HashResetToken(token), nil
}

// HashResetToken is the SHA-256 hex digest persisted in place of the token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(token)))
	return hex.EncodeToString(sum[:])
}

// resetTokenMatches compares digests in constant time.
func resetTokenMatches(token, storedDigest string) bool {
	got := HashResetToken(token)
	return subtle.ConstantTimeCompare([]byte(got), []byte(storedDigest)) == 1
}
