package auth

import (
	"testing"

	"leadtrack/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestConfig(t *testing.T, secret string, ttl int) {
	t.Helper()
	prev := config.AppConfig
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.TTL = ttl
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestGenerateAndParseToken(t *testing.T) {
	setTestConfig(t, "test-secret", 60)

	token, err := GenerateToken("user-123", "agent")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "agent", claims.Role)
}

func TestParseToken_Expired(t *testing.T) {
	setTestConfig(t, "test-secret", -1)

	token, err := GenerateToken("user-123", "agent")
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseToken_Malformed(t *testing.T) {
	setTestConfig(t, "test-secret", 60)

	_, err := ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	setTestConfig(t, "test-secret", 60)

	token, err := GenerateToken("user-123", "admin")
	require.NoError(t, err)

	setTestConfig(t, "other-secret", 60)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("super_password123")
	require.NoError(t, err)
	assert.NotEqual(t, "super_password123", hash)

	assert.True(t, CheckPasswordHash("super_password123", hash))
	assert.False(t, CheckPasswordHash("wrong_password", hash))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("long enough password"))
}
