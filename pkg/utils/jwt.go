package utils

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const UserClaimsKey = "user_claims"

var jwtSecret = []byte("secret")

// SetSecret allows injecting the secret from config
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

type UserClaims struct {
	UserID   string   `json:"user_id"`
	TenantID string   `json:"tenant_id,omitempty"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the caller may view other tenants' analytics.
func (c *UserClaims) IsAdmin() bool {
	for _, r := range c.Roles {
		if r == "admin" || r == "super_admin" {
			return true
		}
	}
	return false
}

func GenerateToken(userID, tenantID string, roles []string) (string, error) {
	claims := UserClaims{
		UserID:   userID,
		TenantID: tenantID,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenSignatureInvalid
}

var ErrNoClaims = errors.New("unauthorized")

// CurrentUser returns the claims injected by the auth middleware.
func CurrentUser(c *fiber.Ctx) (*UserClaims, error) {
	claims, ok := c.Locals(UserClaimsKey).(*UserClaims)
	if !ok || claims == nil || claims.UserID == "" {
		return nil, ErrNoClaims
	}
	return claims, nil
}
