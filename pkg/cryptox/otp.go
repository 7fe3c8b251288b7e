package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTPDigits is the length of generated one-time passcodes.
const OTPDigits = 6

// GenerateOTP produces a uniformly random numeric one-time passcode of
// the given length. Leading zeros are preserved: "004217" is a valid
// six-digit code and must round-trip as the exact string.
func GenerateOTP(digits int) (string, error) {
	if digits <= 0 {
		return "", fmt.Errorf("cryptox: otp length must be positive, got %d", digits)
	}

	bound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", fmt.Errorf("cryptox: failed to generate otp: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}
