package util

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateKeyError checks if the error is a database constraint violation
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Postgres reports SQLSTATE 23505, sqlite a UNIQUE constraint failure
	return strings.Contains(err.Error(), "duplicate key value") ||
		strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
