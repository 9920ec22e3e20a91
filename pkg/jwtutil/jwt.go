package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/sapvaishnav/chatbot-admin/pkg/config"
)

var (
	secret     = []byte("secret-key")
	expiration = 24 * time.Hour
)

// Initialize sets the signing key and token lifetime from configuration.
func Initialize(cfg *config.JWTConfig) {
	secret = []byte(cfg.SigningKey)
	if cfg.ExpirationHours > 0 {
		expiration = time.Duration(cfg.ExpirationHours) * time.Hour
	}
}

// UserClaims is the session principal carried in the token: who logged in
// and which tenant every request is scoped to. TenantID is not optional;
// a token without it never validates into a usable principal.
type UserClaims struct {
	Username string `json:"username"`
	LoginID  uint   `json:"login_id"`
	TenantID uint   `json:"tenant_id"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed token carrying the session principal.
func GenerateToken(username string, loginID, tenantID uint, role string) (string, error) {
	claims := UserClaims{
		Username: username,
		LoginID:  loginID,
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
