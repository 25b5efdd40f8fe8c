package utils

import (
	"testing"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateTokenPair(t *testing.T) {
	claims := model.JWTClaims{
		UserID:   "0b8f6c1e-2a3d-4e5f-8a9b-1c2d3e4f5a6b",
		Email:    "admin@museu.org",
		Role:     string(model.RoleAdmin),
		Name:     "Admin",
		TenantID: "7a1e2b3c-4d5e-4f60-8a1b-2c3d4e5f6a7b",
	}

	pair, err := GenerateTokenPair(claims, testSecret, 1, 24)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	got, err := ValidateToken(pair.AccessToken, testSecret, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, claims, *got)

	got, err = ValidateToken(pair.RefreshToken, testSecret, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, claims.TenantID, got.TenantID)
}

func TestValidateTokenRejects(t *testing.T) {
	pair, err := GenerateTokenPair(model.JWTClaims{UserID: "u", Role: string(model.RoleVisitor)}, testSecret, 1, 24)
	require.NoError(t, err)

	_, err = ValidateToken(pair.RefreshToken, testSecret, TokenTypeAccess)
	assert.EqualError(t, err, "token type mismatch")

	_, err = ValidateToken(pair.AccessToken, "other-secret", TokenTypeAccess)
	assert.Error(t, err)

	_, err = ValidateToken("garbage", testSecret, TokenTypeAccess)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	pair, err := GenerateTokenPair(model.JWTClaims{UserID: "u"}, testSecret, -1, -1)
	require.NoError(t, err)

	_, err = ValidateToken(pair.AccessToken, testSecret, TokenTypeAccess)
	assert.Error(t, err)
}
