package service

import (
	"errors"
	"sort"
	"strings"

	"doodh-waitlist/util"
)

var (
	ErrChallengeSetup = errors.New("bot-check could not be set up")
	ErrSend           = errors.New("verification code could not be sent")
	ErrInvalidCode    = errors.New("invalid verification code")
	ErrCodeExpired    = errors.New("verification code expired")
	ErrVerify         = errors.New("verification failed")

	ErrBusy           = errors.New("another send or verify is in flight")
	ErrNoSession      = errors.New("no verification session")
	ErrIncompleteCode = errors.New("verification code incomplete")
	ErrWrongState     = errors.New("not allowed in the current state")
	ErrStaleResult    = errors.New("result discarded, the workflow has moved on")
	ErrClosed         = errors.New("workflow closed")
)

// ValidationError carries the per-field messages of a rejected form
type ValidationError struct {
	Errors util.ValidationErrors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}
