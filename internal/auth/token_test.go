package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"
)

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestDecode(t *testing.T) {
	token := signToken(t, Claims{
		Email: "jane.basic@example.com",
		Tier:  "basic",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-jane",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	})

	claims, err := NewDecoder().Decode(token)

	require.NoError(t, err)
	assert.Equal(t, "user-jane", claims.Subject)
	assert.Equal(t, "jane.basic@example.com", claims.Email)
	assert.Equal(t, "basic", claims.Tier)
}

func TestDecode_MissingSubject(t *testing.T) {
	token := signToken(t, Claims{Email: "jane.basic@example.com"})

	_, err := NewDecoder().Decode(token)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := NewDecoder().Decode("not-a-jwt")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestDecode_ExpiredTokenStillReadable(t *testing.T) {
	// Expiry is the backend's concern; local decoding only reads claims.
	token := signToken(t, Claims{
		Tier: "vip",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-jane",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	claims, err := NewDecoder().Decode(token)

	require.NoError(t, err)
	assert.Equal(t, "user-jane", claims.Subject)
	assert.Equal(t, "vip", claims.Tier)
}

func TestExpiresAt(t *testing.T) {
	expiry := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	token := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-jane",
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	})

	got, err := NewDecoder().ExpiresAt(token)

	require.NoError(t, err)
	assert.WithinDuration(t, expiry, got, time.Second)
}

func TestExpiresAt_NoClaim(t *testing.T) {
	token := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-jane"},
	})

	got, err := NewDecoder().ExpiresAt(token)

	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
