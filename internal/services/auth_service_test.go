package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService(t *testing.T) {
	svc, err := NewAuthService("test-secret", "hunter2", 3600)
	require.NoError(t, err)

	t.Run("LoginWithCorrectPassword", func(t *testing.T) {
		token, err := svc.Login("hunter2")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, "smokey", claims.Issuer)
	})

	t.Run("LoginWithWrongPassword", func(t *testing.T) {
		_, err := svc.Login("hunter3")
		assert.Error(t, err)
	})

	t.Run("TokenFromOtherSecretRejected", func(t *testing.T) {
		other, err := NewAuthService("different-secret", "hunter2", 3600)
		require.NoError(t, err)
		token, err := other.GenerateToken()
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("ExpiredTokenRejected", func(t *testing.T) {
		expired, err := NewAuthService("test-secret", "hunter2", -60)
		require.NoError(t, err)
		token, err := expired.GenerateToken()
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("GarbageTokenRejected", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}
