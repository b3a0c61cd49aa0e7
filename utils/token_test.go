package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResetTokenRoundTrip(t *testing.T) {
	token, err := GenerateResetToken(42, "test-secret", time.Hour)
	assert.NoError(t, err)

	claims, err := VerifyResetToken(token, "test-secret")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestResetTokenWrongSecret(t *testing.T) {
	token, err := GenerateResetToken(42, "test-secret", time.Hour)
	assert.NoError(t, err)

	_, err = VerifyResetToken(token, "other-secret")
	assert.Error(t, err)
}

func TestResetTokenExpired(t *testing.T) {
	token, err := GenerateResetToken(42, "test-secret", -time.Minute)
	assert.NoError(t, err)

	_, err = VerifyResetToken(token, "test-secret")
	assert.Error(t, err)
}

func TestNewSessionTokenUnique(t *testing.T) {
	a, err := NewSessionToken()
	assert.NoError(t, err)
	b, err := NewSessionToken()
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43) // 32 bytes, base64url without padding
}
