package auth

import (
	"testing"
	"time"

	"github.com/angelmondragon/deliverydash-backend/pkg/config"
	"github.com/angelmondragon/deliverydash-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "deliverydash", ExpirationMinutes: 30}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{
		UserID: userID,
		Role:   enums.UserRoleAdmin,
		JTI:    "access-1",
	})
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, enums.UserRoleAdmin, claims.Role)
	assert.Equal(t, "access-1", claims.ID)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestMintAccessTokenValidatesInput(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	_, err := MintAccessToken(cfg, now, AccessTokenPayload{Role: enums.UserRoleCustomer})
	assert.Error(t, err, "missing user id")

	_, err = MintAccessToken(cfg, now, AccessTokenPayload{UserID: uuid.New(), Role: "owner"})
	assert.Error(t, err, "invalid role")

	_, err = MintAccessToken(config.JWTConfig{Issuer: "x", ExpirationMinutes: 1}, now, AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer})
	assert.Error(t, err, "missing secret")
}

func TestParseAccessTokenRejectsExpiredAndForeign(t *testing.T) {
	cfg := testJWTConfig()
	past := time.Now().Add(-2 * time.Hour)
	payload := AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer}

	token, err := MintAccessToken(cfg, past, payload)
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	assert.Error(t, err, "expired token should fail strict parsing")

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, payload.UserID, claims.UserID)

	other := cfg
	other.Secret = "different"
	_, err = ParseAccessTokenAllowExpired(other, token)
	assert.Error(t, err, "signature must still be verified")

	wrongIssuer := cfg
	wrongIssuer.Issuer = "someone-else"
	fresh, err := MintAccessToken(cfg, time.Now(), payload)
	require.NoError(t, err)
	_, err = ParseAccessToken(wrongIssuer, fresh)
	assert.Error(t, err)
}
