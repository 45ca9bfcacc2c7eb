package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptRoundTrip(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	digest, err := h.Hash("s3cret!")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret!", digest)

	ok, err := h.Compare("s3cret!", digest)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Compare("wrong", digest)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBcryptSaltsEachHash(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestBcryptCompareMalformedDigest(t *testing.T) {
	_, err := NewBcrypt(bcrypt.MinCost).Compare("x", "not-a-digest")
	require.Error(t, err)
}
