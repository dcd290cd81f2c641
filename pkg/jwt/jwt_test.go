package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_SignVerify(t *testing.T) {
	manager := NewTokenManager("accessToken", "test-secret", 900)

	token, err := manager.Sign("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.Greater(t, claims.ExpiresAt.Unix(), time.Now().Unix())
}

func TestTokenManager_WrongSecret(t *testing.T) {
	signer := NewTokenManager("accessToken", "secret-a", 900)
	verifier := NewTokenManager("accessToken", "secret-b", 900)

	token, err := signer.Sign("alice")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestTokenManager_Expired(t *testing.T) {
	manager := NewTokenManager("accessToken", "test-secret", -60)

	token, err := manager.Sign("alice")
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.Error(t, err)
}

func TestTokenManager_Garbage(t *testing.T) {
	manager := NewTokenManager("accessToken", "test-secret", 900)
	_, err := manager.Verify("not-a-token")
	assert.Error(t, err)
}

func TestTokenManager_ExpTimestamp(t *testing.T) {
	manager := NewTokenManager("accessToken", "test-secret", 900)

	// 过期时刻按毫秒累加后再降为秒
	before := (time.Now().UnixMilli() + 900*1000) / 1000
	got := manager.ExpTimestamp()
	after := (time.Now().UnixMilli() + 900*1000) / 1000
	assert.GreaterOrEqual(t, got, before)
	assert.LessOrEqual(t, got, after)
}

func TestTokenManager_Accessors(t *testing.T) {
	manager := NewTokenManager("refreshToken", "test-secret", 604800)
	assert.Equal(t, "refreshToken", manager.Name())
	assert.Equal(t, 604800, manager.ExpireIn())
}
