package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashCode hashes a one-time code before it is handed to a code store
func HashCode(code string) (string, error) {
	if code == "" {
		return "", errors.New("empty code")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareCode reports whether plain matches a hash produced by HashCode
func CompareCode(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
