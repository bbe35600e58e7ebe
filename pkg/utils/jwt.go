package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims represents the claims in an operator session token
type SessionClaims struct {
	Operator bool `json:"operator"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates short-lived operator session tokens.
// The token lifetime doubles as the inactivity timeout: every authenticated
// request gets a fresh expiry via Renew.
type SessionManager struct {
	secretKey  []byte
	sessionTTL time.Duration
}

// NewSessionManager creates a new session manager
func NewSessionManager(secret string, sessionTTL time.Duration) *SessionManager {
	return &SessionManager{
		secretKey:  []byte(secret),
		sessionTTL: sessionTTL,
	}
}

// TTL returns the configured session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.sessionTTL
}

// Generate issues a new session token
func (m *SessionManager) Generate() (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Operator: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "registro-api",
			Subject:   "operator",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Validate checks a session token and returns its claims
func (m *SessionManager) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || !claims.Operator {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// Renew issues a fresh token for an already validated session, pushing the
// inactivity window forward.
func (m *SessionManager) Renew(claims *SessionClaims) (string, error) {
	if claims == nil || !claims.Operator {
		return "", errors.New("invalid session")
	}
	return m.Generate()
}
