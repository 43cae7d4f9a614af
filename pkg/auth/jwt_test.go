package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *JWTManager {
	return NewJWTManager("test-secret", "fintrack-test", time.Hour, 10*time.Minute)
}

func TestSessionToken_RoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateSessionToken("user-1", "a@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token, PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, PurposeSession, claims.Purpose)
	assert.Equal(t, "fintrack-test", claims.Issuer)
}

func TestValidateToken_PurposeMismatch(t *testing.T) {
	m := newTestManager()

	reset, err := m.GenerateResetToken("a@example.com", "hash")
	require.NoError(t, err)
	_, err = m.ValidateToken(reset, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)

	session, err := m.GenerateSessionToken("user-1", "a@example.com")
	require.NoError(t, err)
	_, err = m.ValidateToken(session, PurposeReset)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager().WithClock(func() time.Time { return issued })

	token, err := m.GenerateSessionToken("user-1", "a@example.com")
	require.NoError(t, err)

	later := m.WithClock(func() time.Time { return issued.Add(time.Hour + time.Second) })
	_, err = later.ValidateToken(token, PurposeSession)
	assert.ErrorIs(t, err, ErrTokenExpired)

	reset, err := m.GenerateResetToken("a@example.com", "")
	require.NoError(t, err)
	_, err = m.WithClock(func() time.Time { return issued.Add(11 * time.Minute) }).ValidateToken(reset, PurposeReset)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateToken_BadSignature(t *testing.T) {
	token, err := newTestManager().GenerateSessionToken("user-1", "a@example.com")
	require.NoError(t, err)

	other := NewJWTManager("another-secret", "fintrack-test", time.Hour, time.Minute)
	_, err = other.ValidateToken(token, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = other.ValidateToken("not-a-jwt", PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordFingerprint(t *testing.T) {
	assert.Equal(t, PasswordFingerprint("a"), PasswordFingerprint("a"))
	assert.NotEqual(t, PasswordFingerprint("a"), PasswordFingerprint("b"))
	assert.Len(t, PasswordFingerprint(""), 16)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("s3cret", ""))
}
