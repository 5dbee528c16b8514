// Package provider holds the phone-authentication collaborators the signup
// workflow depends on: a bot-check challenge, code dispatch and code confirmation.
// Any implementation of PhoneAuthProvider is substitutable.
package provider

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAlreadyRendered   = errors.New("bot-check already rendered at this mount point")
	ErrChallengeRejected = errors.New("bot-check challenge rejected")
	ErrInvalidCode       = errors.New("invalid verification code")
	ErrCodeExpired       = errors.New("verification code expired")
	ErrInvalidPhone      = errors.New("invalid phone number")
	ErrQuotaExceeded     = errors.New("too many attempts, try later")
)

type PhoneAuthProvider interface {
	// CreateChallenge renders a bot-check into mountPoint. A mount holds at most
	// one live challenge; the previous one must be cleared first.
	CreateChallenge(mountPoint string, opts ChallengeOptions) (*Challenge, error)

	// SendCode consumes the challenge and asks for a code to be delivered to phoneNumber (E.164)
	SendCode(ctx context.Context, phoneNumber string, challenge *Challenge) (Confirmation, error)
}

// Confirmation is the pending result of a successful SendCode
type Confirmation interface {
	Confirm(ctx context.Context, code string) (*UserRecord, error)
}

type ChallengeOptions struct {
	// Token is the proof produced by the browser widget
	Token string
	// TTL overrides the registry default; zero keeps it
	TTL time.Duration
	// OnExpired is called once, from its own goroutine, if the challenge times out while live
	OnExpired func(challengeID string)
}

// UserRecord is what the provider knows about the verified phone owner
type UserRecord struct {
	UID         string `json:"uid"`
	PhoneNumber string `json:"phone_number"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	IsNewUser   bool   `json:"is_new_user"`
	IDToken     string `json:"-"`
}
