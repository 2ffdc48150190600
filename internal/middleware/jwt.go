package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/substitute-matcher/internal/models"
	appErrors "github.com/noah-isme/substitute-matcher/pkg/errors"
	"github.com/noah-isme/substitute-matcher/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// JWT accepts only requests carrying a bearer token issued by the identity service
// and stores the verified claims under ContextUserKey.
func JWT(validator tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var claims *models.JWTClaims
			if claims, err = validator.ValidateToken(token); err == nil {
				c.Set(ContextUserKey, claims)
				c.Next()
				return
			}
		}
		response.Error(c, err)
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", appErrors.ErrUnauthorized
	}
	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	return token, nil
}
