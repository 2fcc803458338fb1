package testutil

import (
	"strconv"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/homeservices/booking-api/config"
	"github.com/homeservices/booking-api/middleware"
	"github.com/homeservices/booking-api/models"
)

// MockValidatedClaims creates the claims EnsureValidToken stores for user
func MockValidatedClaims(user models.User, issuer string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: strconv.FormatUint(uint64(user.ID), 10),
		},
		CustomClaims: &middleware.CustomClaims{
			Role: user.Role,
			Name: user.Name,
		},
	}
}

// SetMockAuthContext sets up a mock authenticated context for testing
func SetMockAuthContext(c *gin.Context, user models.User) {
	c.Set("user_id", user.ID)
	c.Set("validated_claims", MockValidatedClaims(user, "booking-api"))
}

// MockAuth is a stand-in for EnsureValidToken that authenticates every
// request as user
func MockAuth(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, user)
		c.Next()
	}
}

// IssueToken signs a bearer token for user the way the login endpoint does
func IssueToken(t *testing.T, cfg *config.Config, user models.User) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"iss":  cfg.JWTIssuer,
		"aud":  []string{cfg.JWTAudience},
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
		"role": string(user.Role),
		"name": user.Name,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}
