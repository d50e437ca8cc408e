package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultSessionTokenBytes is the entropy of a session token. 32 random
// bytes make a collision over any realistic session count negligible; a
// store-level duplicate is treated as a hard failure, never retried.
const DefaultSessionTokenBytes = 32

// GenerateSessionToken returns an opaque fixed-format session token:
// base64url over byteLength random bytes, no padding.
func GenerateSessionToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = DefaultSessionTokenBytes
	}

	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateSecureToken returns a base64 URL-safe random string using the
// specified number of random bytes.
func GenerateSecureToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateNumericCode returns a random numeric string of the given length.
func GenerateNumericCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	digits := make([]byte, length)
	for i, b := range buf {
		digits[i] = '0' + (b % 10)
	}

	return string(digits), nil
}
