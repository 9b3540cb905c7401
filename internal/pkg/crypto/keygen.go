// Package crypto provides cryptographic utilities for ReelTube.
package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// JWTSecretSize is the number of random bytes in a generated signing
// secret. 32 bytes gives a 64-character hex string, comfortably above
// the configured minimum.
const JWTSecretSize = 32

// GenerateJWTSecret generates a random signing secret for bearer
// tokens, returned as a hex string suitable for REELTUBE_AUTH_JWT_SECRET.
func GenerateJWTSecret() (string, error) {
	key := make([]byte, JWTSecretSize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate jwt secret: %w", err)
	}
	return hex.EncodeToString(key), nil
}
