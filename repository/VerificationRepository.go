package repository

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCodeNotFound = errors.New("code not found")
	ErrCodeExpired  = errors.New("code expired")
)

type VerificationRepository interface {
	// Save stores the code with a strict TTL
	Save(ctx context.Context, key string, code string, duration time.Duration) error

	// Get retrieves the code. Returns ErrCodeExpired or ErrCodeNotFound.
	Get(ctx context.Context, key string) (string, error)

	// RecordMiss counts a wrong guess against the code and returns the total so far.
	// Returns ErrCodeNotFound when there is no live code.
	RecordMiss(ctx context.Context, key string) (int, error)

	// Delete removes the code and its miss count (used after successful verification)
	Delete(ctx context.Context, key string) error
}
