// This is a **mock authentication service**, designed to provide JWT tokens
// for the CRM write endpoints, simulating user authentication.
package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gartstein/crm/internal/crm/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultPort   = "8081"       // Default port for the authentication service
	defaultSecret = "jwt_secret" // Secret for signing JWT
	tokenTTL      = 24 * time.Hour
)

// TokenResponse represents the response structure
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// tokenHandler generates a JWT for the "user" query parameter.
func tokenHandler(secret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.DefaultQuery("user", "12345")

		token, err := auth.GenerateToken(userID, secret, tokenTTL)
		if err != nil {
			logger.Error("Failed to generate token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
			return
		}
		logger.Info("token issued", zap.String("user", userID))
		c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresIn: int64(tokenTTL.Seconds())})
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/token", tokenHandler(getenv("JWT_SECRET", defaultSecret), logger))

	port := getenv("AUTH_PORT", defaultPort)
	logger.Info("Authentication service running", zap.String("port", port))
	srv := &http.Server{Addr: ":" + port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("authentication service failed", zap.Error(err))
	}
}
