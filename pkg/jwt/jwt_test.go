package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

func newManager(expiry time.Duration) *Manager {
	return NewManager(config.JWTConfig{AccessSecret: "secret", Issuer: "meeting-insights", AccessExpiry: expiry})
}

func TestManager_RoundTrip(t *testing.T) {
	m := newManager(time.Minute)
	userID, orgID := uuid.New(), uuid.New()

	token, err := m.GenerateAccessToken(userID, orgID, "a@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, orgID, claims.OrganisationID)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestManager_Expired(t *testing.T) {
	m := newManager(-time.Minute)

	token, err := m.GenerateAccessToken(uuid.New(), uuid.New(), "")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestManager_Rejects(t *testing.T) {
	m := newManager(time.Minute)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager(config.JWTConfig{AccessSecret: "other", Issuer: "meeting-insights", AccessExpiry: time.Minute})
		token, err := other.GenerateAccessToken(uuid.New(), uuid.New(), "")
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewManager(config.JWTConfig{AccessSecret: "secret", Issuer: "someone-else", AccessExpiry: time.Minute})
		token, err := other.GenerateAccessToken(uuid.New(), uuid.New(), "")
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("missing organisation", func(t *testing.T) {
		token, err := m.GenerateAccessToken(uuid.New(), uuid.Nil, "")
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(token)
		assert.ErrorContains(t, err, "organisation")
	})

	t.Run("unsigned", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{OrganisationID: uuid.New()})
		s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(s)
		assert.Error(t, err)
	})
}
