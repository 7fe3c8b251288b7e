package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrKindMismatch = errors.New("jwtx: token kind mismatch")
)

// HS256Verifier validates tokens of a single kind against the matching
// kind-specific secret. A token of the other kind fails the signature
// check first (different secret); the kind claim check is the backstop.
type HS256Verifier struct {
	kind   string
	secret []byte
	issuer string
	leeway time.Duration
}

// NewVerifierHS256 creates a verifier for the given token kind. The
// issuer is enforced when non-empty. Leeway allows small clock skew
// when validating exp/nbf, because time sync is never perfect.
func NewVerifierHS256(kind string, secret []byte, issuer string) (*HS256Verifier, error) {
	if kind != KindAccess && kind != KindRefresh {
		return nil, errors.New("jwtx: unknown token kind " + kind)
	}
	if len(secret) < MinSecretLength {
		return nil, errors.New("jwtx: HMAC secret shorter than 32 bytes")
	}
	return &HS256Verifier{
		kind:   kind,
		secret: secret,
		issuer: issuer,
		leeway: 30 * time.Second,
	}, nil
}

// Verify parses and validates the compact token string.
func (v *HS256Verifier) Verify(raw string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateKind(v.kind); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

// mapParseError translates golang-jwt's joined errors into our sentinel
// taxonomy so callers can switch on errors.Is without importing jwt.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrMalformed
	}
}
