package auth

import (
	"errors"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates bearer tokens minted by the identity collaborator.
// This service never issues tokens.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier builds a verifier for the shared HS256 secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Claims describes the JWT payload consumed by this service.
type Claims struct {
	UserID         string `json:"sub"`
	OrganizationID string `json:"org"`
	Role           Role   `json:"role"`
	jwt.RegisteredClaims
}

// ParseToken validates a token and returns its claims.
func (v *TokenVerifier) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.UserID == "" || claims.OrganizationID == "" {
		return nil, errors.New("token missing subject or organization")
	}
	return claims, nil
}
