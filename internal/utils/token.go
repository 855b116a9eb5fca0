package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/constants"
)

// GenerateToken returns a random hex-encoded bearer token.
func GenerateToken() (string, error) {
	bytes := make([]byte, constants.TokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// HashToken returns the hex SHA-256 digest under which a token is stored.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
