package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManagerRoundTrip(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	access, exp, err := m.GenerateAccessToken("u1", "user", "sid-1")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := m.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "sid-1", claims.SessionID)
}

func TestJWTSecretsAreNotInterchangeable(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	refresh, _, err := m.GenerateRefreshToken("u1", "user", "sid-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(refresh)
	assert.Error(t, err, "a refresh token must not validate as an access token")

	claims, err := m.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
}

func TestJWTExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", -time.Minute, time.Hour)

	access, _, err := m.GenerateAccessToken("u1", "user", "sid-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(access)
	assert.Error(t, err)
}

func TestJWTTamperedTokenRejected(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	other := NewJWTManager("other-secret", "other-refresh", time.Minute, time.Hour)

	access, _, err := other.GenerateAccessToken("u1", "admin", "sid-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(access)
	assert.Error(t, err)
}
