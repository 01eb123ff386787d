package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secret@1234")
	require.NoError(t, err)

	assert.NotEqual(t, "Secret@1234", hash)
	assert.True(t, IsHashed(hash))
	assert.False(t, IsHashed("Secret@1234"))
	assert.True(t, VerifyPassword("Secret@1234", hash))
	assert.False(t, VerifyPassword("secret@1234", hash))

	other, err := HashPassword("Secret@1234")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes must be salted")
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 7*24*time.Hour)

	token, expiresAt, err := issuer.IssueToken(42, "jane@example.com", "employer")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, time.Minute)

	claims, err := issuer.VerifyToken(token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "employer", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenIssuer_Rejections(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)

	past := NewTokenIssuer(testSecret, time.Hour)
	past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := past.IssueToken(1, "a@b.co", "jobseeker")
	require.NoError(t, err)

	otherKey := NewTokenIssuer("another-secret-key-1234567890123456789012", time.Hour)
	foreign, _, err := otherKey.IssueToken(1, "a@b.co", "jobseeker")
	require.NoError(t, err)

	reset, err := issuer.IssuePasswordResetToken(1)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1", "iss": Issuer, "aud": Audience, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "iss": "someone-else", "aud": Audience, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		expected error
	}{
		{"expired", expired, ErrExpiredToken},
		{"signed with another key", foreign, ErrInvalidToken},
		{"reset token used as session", reset, ErrInvalidToken},
		{"none algorithm", noneAlg, ErrInvalidToken},
		{"wrong issuer", wrongIssuer, ErrInvalidToken},
		{"garbage", "not-a-token", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.VerifyToken(tt.token)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestTokenIssuer_PasswordReset(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)

	reset, err := issuer.IssuePasswordResetToken(7)
	require.NoError(t, err)

	claims, err := issuer.VerifyPasswordResetToken(reset)
	require.NoError(t, err)
	assert.Equal(t, PurposePasswordReset, claims.Purpose)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	session, _, err := issuer.IssueToken(7, "a@b.co", "jobseeker")
	require.NoError(t, err)
	_, err = issuer.VerifyPasswordResetToken(session)
	assert.ErrorIs(t, err, ErrInvalidToken)

	old := NewTokenIssuer(testSecret, time.Hour)
	old.now = func() time.Time { return time.Now().Add(-61 * time.Minute) }
	stale, err := old.IssuePasswordResetToken(7)
	require.NoError(t, err)
	_, err = issuer.VerifyPasswordResetToken(stale)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenIssuer_MissingSecret(t *testing.T) {
	issuer := NewTokenIssuer("", time.Hour)
	_, _, err := issuer.IssueToken(1, "a@b.co", "jobseeker")
	assert.Error(t, err)
}
