package util

import (
	"errors"
	"time"

	"doodh-waitlist/dto"

	"github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "doodh-waitlist"

// SessionSigner issues the bearer token that ties a browser to its workflow
type SessionSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionSigner(secret string, ttl time.Duration) (*SessionSigner, error) {
	if secret == "" {
		return nil, errors.New("empty session secret")
	}
	return &SessionSigner{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL is how long an issued token stays valid
func (s *SessionSigner) TTL() time.Duration {
	return s.ttl
}

// GenerateSessionToken signs a token whose jti is the workflow id
func (s *SessionSigner) GenerateSessionToken(workflowID string) (string, error) {
	now := s.now()
	claims := dto.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        workflowID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
