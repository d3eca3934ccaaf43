// internal/auth/auth_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := VerifyPassword("hunter2", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("same")
	require.NoError(t, err)
	h2, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasswordRejectsGarbage(t *testing.T) {
	_, err := VerifyPassword("pw", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestSignerRoundTrip(t *testing.T) {
	signer, err := NewSigner()
	require.NoError(t, err)

	token, err := signer.CreateJWT()
	require.NoError(t, err)
	require.NoError(t, signer.Verify(token))

	assert.Error(t, signer.Verify("not.a.jwt"))
}

func TestSignerRejectsForeignKey(t *testing.T) {
	signer, err := NewSigner()
	require.NoError(t, err)
	other, err := NewSigner()
	require.NoError(t, err)

	token, err := signer.CreateJWT()
	require.NoError(t, err)
	assert.Error(t, other.Verify(token), "tokens from another key pair must not verify")
}
