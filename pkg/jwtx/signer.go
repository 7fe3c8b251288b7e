package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Signer is our interface for anything that can sign JWTs of one kind.
type Signer interface {
	Kind() string
	Sign(Claims) (string, error)
	Validate() error
}

// MinSecretLength is the minimum byte length accepted for an HMAC secret.
// Anything shorter than the HS256 block makes brute force too cheap.
const MinSecretLength = 32

// HS256Signer implements Signer using HMAC-SHA256 with a kind-specific
// secret. The secret is process-wide configuration, loaded once at
// startup and immutable thereafter.
type HS256Signer struct {
	kind   string
	secret []byte
}

// NewSignerHS256 creates a signer for the given token kind.
func NewSignerHS256(kind string, secret []byte) (*HS256Signer, error) {
	s := &HS256Signer{kind: kind, secret: secret}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *HS256Signer) Kind() string { return s.kind }

// Sign turns the claims into a signed compact JWT string. The claims kind
// must match the signer's kind; signing an access claim with the refresh
// signer is always a programming error.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	if claims.Kind != s.kind {
		return "", ErrKindMismatch
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate does a quick sanity check that a usable secret is configured.
func (s *HS256Signer) Validate() error {
	if s.kind != KindAccess && s.kind != KindRefresh {
		return errors.New("jwtx: unknown token kind " + s.kind)
	}
	if len(s.secret) < MinSecretLength {
		return errors.New("jwtx: HMAC secret shorter than 32 bytes")
	}
	return nil
}
