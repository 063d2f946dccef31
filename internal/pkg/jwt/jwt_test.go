package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Secret:   "test-secret",
		Issuer:   "propman-service",
		Audience: "propman-admins",
		TTL:      time.Hour,
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager(Config{})
	assert.Error(t, err)
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	mgr, err := NewManager(testConfig())
	require.NoError(t, err)

	token, jti, err := mgr.Generate(42, []string{"admin"})
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := mgr.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.IdentityID)
	assert.Equal(t, []string{"admin"}, claims.Roles)
	assert.Equal(t, jti, claims.ID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	mgr, err := NewManager(testConfig())
	require.NoError(t, err)

	token, _, err := mgr.Generate(42, nil)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Secret = "other-secret"
	other, err := NewManager(cfg)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	cfg := testConfig()
	cfg.Audience = "other-service"
	issuer, err := NewManager(cfg)
	require.NoError(t, err)

	token, _, err := issuer.Generate(42, nil)
	require.NoError(t, err)

	mgr, err := NewManager(testConfig())
	require.NoError(t, err)

	_, err = mgr.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.TTL = time.Nanosecond
	mgr, err := NewManager(cfg)
	require.NoError(t, err)

	token, _, err := mgr.Generate(42, nil)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = mgr.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	mgr, err := NewManager(testConfig())
	require.NoError(t, err)

	_, err = mgr.Verify("not.a.token")
	assert.Error(t, err)
}
