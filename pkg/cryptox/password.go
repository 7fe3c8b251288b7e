package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt cost factor used for all stored credentials. It is a
// fixed configuration constant rather than a tunable: changing it only
// affects newly written hashes, existing ones carry their own cost.
const Cost = 12

var (
	// ErrPasswordMismatch reports that the plaintext does not match the
	// stored hash. This is the expected failure for a wrong password.
	ErrPasswordMismatch = errors.New("cryptox: password does not match")

	// ErrCorruptHash reports that the stored hash is not a parseable
	// bcrypt value. This indicates record corruption, never user error.
	ErrCorruptHash = errors.New("cryptox: corrupt password hash")
)

// HashPassword generates a salted bcrypt hash of the plaintext. The salt
// is embedded in the returned value.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored bcrypt
// hash. The comparison is constant-time on the derived key. A mismatch
// returns ErrPasswordMismatch; a hash that cannot be parsed returns
// ErrCorruptHash.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return ErrCorruptHash
	}
}
