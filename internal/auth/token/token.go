// Package token issues and parses JWT access tokens.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer signs access tokens for authenticated users.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates a token issuer with the given HMAC secret and token TTL.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed access token for the user. The subject claim holds
// the user ID; middleware relies on sub and email being present.
func (i *Issuer) Issue(userID uuid.UUID, email string) (string, time.Time, error) {
	expiresAt := time.Now().Add(i.ttl)
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// Claims are the parsed contents of a valid access token.
type Claims struct {
	UserID uuid.UUID
	Email  string
}

// Parse validates a signed access token and returns its claims. Only HMAC
// signed tokens are accepted.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("parse access token: %w", jwt.ErrTokenInvalidClaims)
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("parse token subject: %w", err)
	}
	email, _ := claims["email"].(string)
	return &Claims{UserID: userID, Email: email}, nil
}
