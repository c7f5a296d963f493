package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(accessTTL time.Duration) *JWTService {
	return NewJWTService(&JWTConfig{
		SecretKey:            []byte("test-secret-key"),
		AccessTokenDuration:  accessTTL,
		RefreshTokenDuration: 24 * time.Hour,
		Issuer:               "trim-url-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	token, err := svc.GenerateAccessToken(42, "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "trim-url-test", claims.Issuer)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute)

	token, err := svc.GenerateAccessToken(1, "user@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	token, err := svc.GenerateAccessToken(1, "user@example.com")
	require.NoError(t, err)

	other := NewJWTService(&JWTConfig{
		SecretKey:           []byte("different-secret"),
		AccessTokenDuration: time.Hour,
		Issuer:              "trim-url-test",
	})

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_GarbageToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractTokenFromBearer(t *testing.T) {
	assert.Equal(t, "abc123", ExtractTokenFromBearer("Bearer abc123"))
	assert.Equal(t, "", ExtractTokenFromBearer("abc123"))
	assert.Equal(t, "", ExtractTokenFromBearer(""))
	assert.Equal(t, "", ExtractTokenFromBearer("Bearer "))
}
