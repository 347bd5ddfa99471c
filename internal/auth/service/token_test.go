package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "b8a3c2267dc85f855dea9b46b452bf20"

func signClaims(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestTokenGenerator_RoundTrip(t *testing.T) {
	tg := NewTokenGenerator(testSecret, time.Hour)

	tests := []struct {
		name      string
		principal Principal
	}{
		{name: "participant", principal: Principal{UserID: 12, Role: RoleParticipant}},
		{name: "manager of a company", principal: Principal{UserID: 7, Role: RoleManager, CompanyID: 3}},
		{name: "admin", principal: Principal{UserID: 1, Role: RoleAdmin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tg.GenerateAccessToken(tt.principal)
			require.NoError(t, err)

			p, err := tg.ValidateAccessToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.principal, p)
		})
	}
}

func TestTokenGenerator_ValidateAccessToken_Errors(t *testing.T) {
	tg := NewTokenGenerator(testSecret, time.Hour)
	valid := jwt.MapClaims{
		"user_id": 5,
		"role":    1,
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	with := func(key string, value any) jwt.MapClaims {
		claims := jwt.MapClaims{}
		for k, v := range valid {
			claims[k] = v
		}
		if value == nil {
			delete(claims, key)
		} else {
			claims[key] = value
		}
		return claims
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: signClaims(t, jwt.SigningMethodHS256, []byte("other"), valid)},
		{name: "expired", token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), with("exp", time.Now().Add(-time.Minute).Unix()))},
		{name: "refresh token", token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), with("type", "refresh"))},
		{name: "missing user", token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), with("user_id", nil))},
		{name: "missing role", token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), with("role", nil))},
		{name: "none algorithm", token: signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tg.ValidateAccessToken(tt.token)

			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Equal(t, Principal{}, p)
		})
	}
}
