// Package auth issues and validates the HS256 bearer tokens used by
// operator endpoints (bulk operations, audit queries).
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mlevkov/faqpress-backend/internal/domain"
)

// JWTManager signs and verifies operator access tokens.
type JWTManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	parser    *jwt.Parser
}

// NewJWTManager creates a JWTManager. The secret must be at least
// 32 characters (enforced by config validation).
func NewJWTManager(secret string, issuer string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

// accessClaims carries the operator's role alongside the registered claims.
type accessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// GenerateAccessToken signs an HS256 token with the operator id as subject
// and the role as a custom claim.
func (m *JWTManager) GenerateAccessToken(operatorID string, role domain.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operatorID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
		Role: string(role),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken verifies signature, expiry and issuer, and returns
// the operator id and role carried by the token.
func (m *JWTManager) ValidateAccessToken(tokenString string) (string, domain.Role, error) {
	if tokenString == "" {
		return "", "", fmt.Errorf("token is empty")
	}

	token, err := m.parser.ParseWithClaims(tokenString, &accessClaims{}, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return "", "", fmt.Errorf("empty subject")
	}

	role := domain.Role(claims.Role)
	if !role.IsValid() {
		return "", "", fmt.Errorf("invalid role: %q", claims.Role)
	}

	return claims.Subject, role, nil
}
