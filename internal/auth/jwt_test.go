package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrail/bootcamp-api/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", AccessTokenTTL: time.Hour}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateAccessToken(cfg, "abc123", "publisher")
	require.NoError(t, err)

	claims, err := ParseAndValidateToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "abc123", claims.UserID)
	assert.Equal(t, "publisher", claims.Role)
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", AccessTokenTTL: -time.Minute}

	token, err := GenerateAccessToken(cfg, "abc123", "user")
	require.NoError(t, err)

	_, err = ParseAndValidateToken(testConfig(), token)
	assert.Error(t, err)
}

func TestTokenWithWrongSecretRejected(t *testing.T) {
	token, err := GenerateAccessToken(testConfig(), "abc123", "user")
	require.NoError(t, err)

	_, err = ParseAndValidateToken(&config.Config{JWTSecret: "other-secret"}, token)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := ParseAndValidateToken(testConfig(), "not.a.jwt")
	assert.Error(t, err)
}
