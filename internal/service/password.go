package service

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a plaintext password into a stored digest and
// verifies a plaintext password against a stored digest.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// SHA256Hasher reproduces the legacy credential scheme stored in
// existing databases: a single unsalted SHA-256 round, base64 encoded,
// verified with a case-insensitive string comparison.
//
// SECURITY: this scheme is unsuitable for new credential storage. It is
// unsalted, fast to brute-force, and the case-insensitive comparison
// widens acceptance beyond the encoder's output. It exists only for
// compatibility with digests already on disk; new deployments should
// select BcryptHasher via the auth.hasher config key.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(password, digest string) bool {
	computed, _ := h.Hash(password)
	return strings.EqualFold(computed, digest)
}

// BcryptHasher is the exact-match salted alternative for deployments
// without legacy digests.
type BcryptHasher struct{}

func (BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// NewPasswordHasher selects a hasher by config name. Unknown names fall
// back to the legacy scheme so existing databases keep working.
func NewPasswordHasher(name string) PasswordHasher {
	if strings.EqualFold(name, "bcrypt") {
		return BcryptHasher{}
	}
	return SHA256Hasher{}
}
