package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds. Access and refresh tokens are signed with independent
// secrets so a leaked access token can never be replayed as a refresh
// token, but the kind claim is embedded anyway so misconfiguration
// (same secret for both) still fails closed.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Default token TTL constants. These provide sensible security defaults
// but can be overridden per-service via configuration.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived for security - typical range is 15m to 1h.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	// Longer-lived for user convenience - typical range is 7d to 30d.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims are the token claims used across the service. The payload is
// deliberately small: the subject identity, the standard time claims and
// the token kind. Anything else belongs on the user record, not in the token.
type Claims struct {
	jwt.RegisteredClaims

	// Kind is the token class this value was minted as: "access" or
	// "refresh". Verifiers reject tokens presented as the wrong kind.
	Kind string `json:"kind"`
}

// NewClaims builds minimally-correct claims for a subject identity.
func NewClaims(subject, kind, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
	}
}

// ValidateKind checks the kind claim against the expected token class.
func (c *Claims) ValidateKind(expected string) error {
	if c.Kind != expected {
		return ErrKindMismatch
	}
	return nil
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}
