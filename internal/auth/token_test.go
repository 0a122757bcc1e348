package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newMaker(t *testing.T) *JWTMaker {
	t.Helper()
	m, err := NewJWTMaker(testSecret, time.Hour, 24*time.Hour, time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewJWTMakerRejectsShortSecret(t *testing.T) {
	_, err := NewJWTMaker("short", time.Hour, time.Hour, time.Hour)
	assert.Error(t, err)
}

func TestCreateAndVerify(t *testing.T) {
	m := newMaker(t)

	token, issued, err := m.CreateToken(7, "alice", TokenAccess, "")
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := m.VerifyToken(token, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, issued.ID, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerifyRejectsWrongType(t *testing.T) {
	m := newMaker(t)

	refresh, _, err := m.CreateToken(7, "alice", TokenRefresh, "")
	require.NoError(t, err)

	_, err = m.VerifyToken(refresh, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := newMaker(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.CreateToken(7, "alice", TokenAccess, "")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.VerifyToken(token, TokenAccess)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	other, err := NewJWTMaker("another-secret-that-is-long-enough", time.Hour, time.Hour, time.Hour)
	require.NoError(t, err)
	token, _, err := other.CreateToken(7, "alice", TokenAccess, "")
	require.NoError(t, err)

	_, err = newMaker(t).VerifyToken(token, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := newMaker(t).VerifyToken("not.a.token", TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordFingerprint(t *testing.T) {
	a := PasswordFingerprint("$2a$10$first")
	assert.Len(t, a, 16)
	assert.Equal(t, a, PasswordFingerprint("$2a$10$first"))
	assert.NotEqual(t, a, PasswordFingerprint("$2a$10$second"))
}
