package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenClaims holds the claims the client cares about from a backend-issued
// access token.
type TokenClaims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// ReadTokenClaims extracts subject, email and expiry from an access token
// without verifying the signature. The backend mints and verifies tokens; the
// client only needs the claims to identify the user and schedule refresh.
func ReadTokenClaims(tokenString string) (*TokenClaims, error) {
	parser := new(jwt.Parser)
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}

	out := &TokenClaims{Subject: sub}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}
