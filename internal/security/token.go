package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager signs and verifies the widget session token carried in the
// session cookie, so a session id can't be forged client-side.
type TokenManager struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenManager creates a token manager with the given HMAC secret
func NewTokenManager(secret string, lifetime time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), lifetime: lifetime}
}

// Issue creates a signed token for a session id
func (m *TokenManager) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify validates a token and returns the session id it carries
func (m *TokenManager) Verify(tokenString string) (string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))

	claims := &jwt.RegisteredClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("session token has no subject")
	}

	return claims.Subject, nil
}
