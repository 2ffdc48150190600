package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/substitute-matcher/internal/models"
	appErrors "github.com/noah-isme/substitute-matcher/pkg/errors"
)

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims *models.JWTClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func plannerClaims(expiresIn time.Duration) *models.JWTClaims {
	return &models.JWTClaims{
		UserID: "user-1",
		Role:   models.RolePlanner,
		Email:  "planner@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestTokenServiceValidateToken(t *testing.T) {
	svc := NewTokenService("secret")
	token := signToken(t, jwt.SigningMethodHS256, []byte("secret"), plannerClaims(time.Hour))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RolePlanner, claims.Role)
}

func TestTokenServiceRejects(t *testing.T) {
	svc := NewTokenService("secret")

	cases := map[string]string{
		"wrong secret": signToken(t, jwt.SigningMethodHS256, []byte("other"), plannerClaims(time.Hour)),
		"expired":      signToken(t, jwt.SigningMethodHS256, []byte("secret"), plannerClaims(-time.Hour)),
		"wrong method": signToken(t, jwt.SigningMethodHS512, []byte("secret"), plannerClaims(time.Hour)),
		"missing user": signToken(t, jwt.SigningMethodHS256, []byte("secret"), &models.JWTClaims{Role: models.RoleAdmin}),
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
		})
	}
}
