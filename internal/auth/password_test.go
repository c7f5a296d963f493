package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordServiceWithCost(bcrypt.MinCost)

	hash, err := svc.HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.NoError(t, svc.VerifyPassword(hash, "s3cret-password"))
	assert.Error(t, svc.VerifyPassword(hash, "wrong-password"))
}

func TestPasswordService_EmptyPassword(t *testing.T) {
	svc := NewPasswordServiceWithCost(bcrypt.MinCost)

	_, err := svc.HashPassword("")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestIsValidPassword(t *testing.T) {
	assert.Error(t, IsValidPassword("short"))
	assert.NoError(t, IsValidPassword("longenough"))

	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, IsValidPassword(string(long)))
}
