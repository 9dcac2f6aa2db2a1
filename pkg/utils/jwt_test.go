package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken("65f000000000000000000001", "tenant-a", []string{"admin"})
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "65f000000000000000000001", claims.UserID)
	assert.Equal(t, "tenant-a", claims.TenantID)
	assert.True(t, claims.IsAdmin())
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	SetSecret("one")
	token, err := GenerateToken("u1", "", nil)
	require.NoError(t, err)

	SetSecret("two")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
