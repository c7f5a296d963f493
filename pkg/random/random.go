package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet is the character set used for generated short codes.
// Lowercase letters and digits only, so codes survive case-insensitive
// channels (QR scans, voice, hand-typed URLs).
const Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewRandomString generates a random string of the given length from Alphabet
// using crypto/rand.
func NewRandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid length: %d", length)
	}

	result := make([]byte, length)
	max := big.NewInt(int64(len(Alphabet)))

	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		result[i] = Alphabet[n.Int64()]
	}

	return string(result), nil
}
