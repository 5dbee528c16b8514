package util

import (
	"crypto/rand"
	"math/big"
)

// GenerateRandomDigits returns a numeric one-time code of the given length
func GenerateRandomDigits(length int) (string, error) {
	digits := "0123456789"
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		b[i] = digits[num.Int64()]
	}
	return string(b), nil
}
