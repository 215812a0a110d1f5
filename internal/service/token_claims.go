package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is what the frontend reads from a backend access token
type tokenClaims struct {
	ExpiresAt time.Time
	Role      string
}

// parseTokenClaims reads exp and role without verifying the signature.
// The backend verifies its own tokens; the frontend only needs them to
// size the session. Opaque or malformed tokens yield zero claims.
func parseTokenClaims(token string) tokenClaims {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return tokenClaims{}
	}

	var result tokenClaims
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}
	if role, ok := claims["role"].(string); ok {
		result.Role = role
	}
	return result
}
