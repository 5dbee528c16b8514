package util

import (
	"errors"
	"strings"

	"doodh-waitlist/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidSessionToken = errors.New("invalid or expired session token")

// ParseSessionToken validates the token and returns the workflow id it carries
func (s *SessionSigner) ParseSessionToken(tokenString string) (string, error) {
	claims := &dto.SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method, expected HS256")
		}
		return s.secret, nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidSessionToken
	}

	if _, err := uuid.Parse(claims.ID); err != nil {
		return "", ErrInvalidSessionToken
	}

	return claims.ID, nil
}

// BearerToken strips the "Bearer " scheme from an Authorization header value
func BearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrInvalidSessionToken
	}
	return strings.TrimSpace(header[len(prefix):]), nil
}
