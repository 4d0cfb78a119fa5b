package auth

import (
	"testing"
	"time"

	"github.com/danhewitt/motorline-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "motorline-test",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()

	signed, err := MintAccessToken(cfg, now, AccessTokenPayload{
		AdminID: 7,
		Email:   "admin@motorline.example",
	})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := ParseAccessToken(cfg, signed)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.AdminID)
	assert.Equal(t, "admin@motorline.example", claims.Email)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestMintAccessToken_RequiresAdminID(t *testing.T) {
	_, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{})
	require.Error(t, err)
}

func TestParseAccessToken_RejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	past := time.Now().UTC().Add(-2 * time.Hour)

	signed, err := MintAccessToken(cfg, past, AccessTokenPayload{AdminID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, signed)
	require.Error(t, err)
}

func TestParseAccessToken_RejectsWrongSecret(t *testing.T) {
	signed, err := MintAccessToken(testJWTConfig(), time.Now().UTC(), AccessTokenPayload{AdminID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	bad := testJWTConfig()
	bad.Secret = "other-secret"
	_, err = ParseAccessToken(bad, signed)
	require.Error(t, err)
}
