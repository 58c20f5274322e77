package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fieldcraft/fieldcraft-backend/internal/http/response"
	"github.com/fieldcraft/fieldcraft-backend/internal/pkg/errs"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
	"github.com/fieldcraft/fieldcraft-backend/internal/services"
)

const claimsKey = "auth_claims"

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

// RequireAuth accepts either a Bearer JWT or an X-API-Key header.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var claims *services.TokenClaims
		var err error

		if apiKey := strings.TrimSpace(c.GetHeader("X-API-Key")); apiKey != "" {
			claims, err = am.authService.VerifyAPIKey(c.Request.Context(), apiKey)
		} else if token := extractBearer(c); token != "" {
			claims, err = am.authService.VerifyToken(token)
		} else {
			err = errs.ErrUnauthorized
		}

		if err != nil || claims == nil {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errs.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// GetClaims returns the verified claims for the request, nil when the route
// is unauthenticated.
func GetClaims(c *gin.Context) *services.TokenClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*services.TokenClaims)
	return claims
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
