package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a plaintext password into a stored digest and checks
// passwords against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// SHA256Hasher produces deterministic hex SHA-256 digests.
type SHA256Hasher struct{}

// Hash never fails.
func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(hash, password string) bool {
	digest, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(hash)) == 1
}

// BcryptHasher produces salted bcrypt digests. Passwords are reduced to their
// hex SHA-256 digest first so that bcrypt's 72-byte input limit never applies.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(prehash(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password)) == nil
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	digest := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(digest, sum[:])
	return digest
}

// NewPasswordHasher returns the hasher selected by name.
func NewPasswordHasher(name string, bcryptCost int) (PasswordHasher, error) {
	switch name {
	case config.HasherSHA256:
		return SHA256Hasher{}, nil
	case config.HasherBcrypt:
		return BcryptHasher{Cost: bcryptCost}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}
