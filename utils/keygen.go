package utils

import (
	"crypto/rand"
	"fmt"
)

// resetKeyAlphabet is the 36-symbol alphabet reset keys are drawn from.
const resetKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ResetKeyLength is the length of a password reset key as sent to the user.
const ResetKeyLength = 6

// GenerateResetKey draws each character uniformly from [A-Z0-9] using the
// OS CSPRNG. Bytes >= 252 are rejected so that the modulo step carries no
// bias (252 is the largest multiple of 36 below 256).
func GenerateResetKey(length int) (string, error) {
	const rejectAbove = byte(252)

	key := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(key) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= rejectAbove {
				continue
			}
			key = append(key, resetKeyAlphabet[int(b)%len(resetKeyAlphabet)])
			if len(key) == length {
				break
			}
		}
	}

	return string(key), nil
}
