// Package auth issues and checks the HS256 bearer tokens of operator endpoints.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

var ErrUnauthorized = errors.New("invalid or missing token")

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for subject with role that expires after ttl.
func IssueToken(secret, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates raw, with or without a "Bearer " prefix.
func ParseToken(secret, raw string) (*Claims, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" || secret == "" {
		return nil, ErrUnauthorized
	}

	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return &claims, nil
}

// RequireRole parses raw and checks its role claim.
func RequireRole(secret, raw string, roles ...string) (*Claims, error) {
	claims, err := ParseToken(secret, raw)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if claims.Role == role {
			return claims, nil
		}
	}
	return nil, fmt.Errorf("%w: role %q not allowed", ErrUnauthorized, claims.Role)
}
