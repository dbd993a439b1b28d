package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	accessSecret  = "test-access-secret"
	refreshSecret = "test-refresh-secret"
	actionSecret  = "test-action-secret"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(accessSecret, 42, "OWNER", 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := VerifyToken(accessSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.AccountID)
	assert.Equal(t, "OWNER", claims.Role)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, tok.Exp, claims.Exp, time.Second)
}

func TestSecretsAreNotInterchangeable(t *testing.T) {
	access, err := NewAccessToken(accessSecret, 1, "USER", 15)
	require.NoError(t, err)
	refresh, err := NewRefreshToken(refreshSecret, 1, 7)
	require.NoError(t, err)

	_, err = VerifyToken(refreshSecret, access.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid, "access token must not verify as a refresh token")

	_, err = VerifyToken(accessSecret, refresh.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid, "refresh token must not verify as an access token")
}

func TestRefreshTokenCarriesNoRole(t *testing.T) {
	tok, err := NewRefreshToken(refreshSecret, 7, 7)
	require.NoError(t, err)

	claims, err := VerifyToken(refreshSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.AccountID)
	assert.Empty(t, claims.Role)
}

func TestActionTokenPurpose(t *testing.T) {
	raw, exp, err := NewActionToken(actionSecret, 9, PurposeResetPassword, 60)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := VerifyToken(actionSecret, raw)
	require.NoError(t, err)
	assert.Equal(t, PurposeResetPassword, claims.Purpose)
	assert.Equal(t, uint64(9), claims.AccountID)
}

func TestExpiredTokenIsDistinctFromInvalid(t *testing.T) {
	tok, err := NewAccessToken(accessSecret, 1, "USER", -1)
	require.NoError(t, err)

	_, err = VerifyToken(accessSecret, tok.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = VerifyToken(accessSecret, "not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestEveryTokenGetsAUniqueID(t *testing.T) {
	a, err := NewAccessToken(accessSecret, 1, "USER", 15)
	require.NoError(t, err)
	b, err := NewAccessToken(accessSecret, 1, "USER", 15)
	require.NoError(t, err)

	// Same account, same minute: the jti still makes the tokens distinct.
	assert.NotEqual(t, a.Token, b.Token)

	ca, err := VerifyToken(accessSecret, a.Token)
	require.NoError(t, err)
	cb, err := VerifyToken(accessSecret, b.Token)
	require.NoError(t, err)
	assert.NotEqual(t, ca.TokenID, cb.TokenID)
}

func TestDecodeExpiry(t *testing.T) {
	tok, err := NewAccessToken(accessSecret, 3, "USER", 15)
	require.NoError(t, err)

	exp, err := DecodeExpiry(tok.Token)
	require.NoError(t, err)
	assert.WithinDuration(t, tok.Exp, exp, time.Second)

	// Signature is deliberately not checked, so an expired token still
	// decodes. Revocation needs exactly that.
	old, err := NewAccessToken(accessSecret, 3, "USER", -60)
	require.NoError(t, err)
	exp, err = DecodeExpiry(old.Token)
	require.NoError(t, err)
	assert.True(t, exp.Before(time.Now()))

	_, err = DecodeExpiry("garbage")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
