package dto

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims bind a browser to one signup workflow.
// The workflow id travels in the standard jti claim.
type SessionClaims struct {
	jwt.RegisteredClaims
}
