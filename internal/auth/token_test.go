package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsdesk/partsdesk/internal/clock"
)

const testSecret = "test-secret-at-least-32-characters!!"

func TestGenerateAndValidateSessionToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, clock.System{})

	tokenString, err := tm.GenerateSessionToken("acct-1", "buyer@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := tm.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", claims.AccountID)
	assert.Equal(t, "buyer@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Expired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	tm := NewTokenManager(testSecret, time.Hour, clock.Fixed{T: issued})

	tokenString, err := tm.GenerateSessionToken("acct-1", "buyer@example.com", "user")
	require.NoError(t, err)

	// Same manager, later clock: the token is past its expiry.
	late := NewTokenManager(testSecret, time.Hour, clock.Fixed{T: issued.Add(90 * time.Minute)})
	_, err = late.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, clock.System{})
	tokenString, err := tm.GenerateSessionToken("acct-1", "buyer@example.com", "user")
	require.NoError(t, err)

	other := NewTokenManager("another-secret-also-32-characters!!!", time.Hour, clock.System{})
	_, err = other.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, clock.System{})

	_, err := tm.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
