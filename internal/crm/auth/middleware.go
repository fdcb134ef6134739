package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	e "github.com/gartstein/crm/internal/crm/errors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userContextKey contextKey = "user"

// Middleware requires a valid bearer token on every request that changes
// data. Failures are handed to abort wrapped in errors.ErrUnauthorized.
func Middleware(jwtSecret string, abort func(*gin.Context, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isProtectedRequest(c.Request) {
			c.Next()
			return
		}

		tokenString, err := extractTokenFromHeader(c.Request)
		if err != nil {
			abort(c, fmt.Errorf("%w: %v", e.ErrUnauthorized, err))
			return
		}

		claims, err := ValidateToken(tokenString, jwtSecret)
		if err != nil {
			abort(c, fmt.Errorf("%w: invalid token", e.ErrUnauthorized))
			return
		}

		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), userContextKey, claims))
		c.Next()
	}
}

// ClaimsFromContext returns the claims of an authenticated request.
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	return claims, ok
}

func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid authorization format: missing Bearer prefix")
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if tokenString == "" {
		return "", fmt.Errorf("invalid authorization format: empty token")
	}

	return tokenString, nil
}

func isProtectedRequest(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
