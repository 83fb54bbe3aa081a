package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSHA256HasherKnownDigest(t *testing.T) {
	h := SHA256Hasher{}

	digest, err := h.Hash("pw123")
	require.NoError(t, err)
	require.Equal(t, "I9R0Ra37iZF4m0Wba6G5dNcn0xCqnYC3wodblDDAuiU=", digest)

	// deterministic
	again, err := h.Hash("pw123")
	require.NoError(t, err)
	require.Equal(t, digest, again)
}

func TestSHA256HasherVerify(t *testing.T) {
	h := SHA256Hasher{}
	digest, err := h.Hash("secret")
	require.NoError(t, err)

	require.True(t, h.Verify("secret", digest))
	require.False(t, h.Verify("Secret", digest))
	require.False(t, h.Verify("wrong", digest))

	// the legacy scheme compares digests case-insensitively
	require.True(t, h.Verify("secret", strings.ToLower(digest)))
	require.True(t, h.Verify("secret", strings.ToUpper(digest)))
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{}
	digest, err := h.Hash("secret")
	require.NoError(t, err)
	require.NotEqual(t, "secret", digest)

	require.True(t, h.Verify("secret", digest))
	require.False(t, h.Verify("wrong", digest))

	// salted: two hashes of the same input differ
	other, err := h.Hash("secret")
	require.NoError(t, err)
	require.NotEqual(t, digest, other)
}

func TestNewPasswordHasher(t *testing.T) {
	require.IsType(t, BcryptHasher{}, NewPasswordHasher("bcrypt"))
	require.IsType(t, SHA256Hasher{}, NewPasswordHasher("sha256"))
	require.IsType(t, SHA256Hasher{}, NewPasswordHasher(""))
	require.IsType(t, SHA256Hasher{}, NewPasswordHasher("unknown"))
}
