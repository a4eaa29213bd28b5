package qr

import (
	"crypto/rand"
	"fmt"
)

const (
	ItemPrefix      = "IT"
	WarehousePrefix = "WH"

	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8
	maxAttempts  = 100
)

// GenerateCode returns a fresh code like "IT-7F3KQ0ZD". The exists
// check is passed in so this stays a pure generator with no storage
// dependency; collisions are retried.
func GenerateCode(prefix string, exists func(string) (bool, error)) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		code, err := randomCode(prefix)
		if err != nil {
			return "", err
		}
		taken, err := exists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique %s code after %d attempts", prefix, maxAttempts)
}

func randomCode(prefix string) (string, error) {
	// Reject bytes above the largest multiple of the alphabet size so
	// every character is equally likely.
	const limit = 256 - 256%len(codeAlphabet)
	out := make([]byte, 0, codeLength)
	buf := make([]byte, 2*codeLength)
	for len(out) < codeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == codeLength {
				break
			}
		}
	}
	return prefix + "-" + string(out), nil
}
