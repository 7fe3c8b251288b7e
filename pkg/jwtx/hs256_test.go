package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("test-access-secret-0123456789abcdef")
	refreshSecret = []byte("test-refresh-secret-0123456789abcdef")
)

func TestNewSignerHS256(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secrets", func(t *testing.T) {
		_, err := NewSignerHS256(KindAccess, []byte("short"))
		require.Error(t, err)
	})

	t.Run("rejects unknown kinds", func(t *testing.T) {
		_, err := NewSignerHS256("session", accessSecret)
		require.Error(t, err)
	})

	t.Run("accepts valid configuration", func(t *testing.T) {
		s, err := NewSignerHS256(KindRefresh, refreshSecret)
		require.NoError(t, err)
		require.Equal(t, KindRefresh, s.Kind())
	})
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer, err := NewSignerHS256(KindAccess, accessSecret)
	require.NoError(t, err)

	verifier, err := NewVerifierHS256(KindAccess, accessSecret, "authgate-test")
	require.NoError(t, err)

	token, err := signer.Sign(NewClaims("user-123", KindAccess, "authgate-test", time.Minute, time.Now()))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.Subject)
	require.Equal(t, KindAccess, claims.Kind)
}

func TestVerifyFailureTaxonomy(t *testing.T) {
	t.Parallel()

	accessSigner, err := NewSignerHS256(KindAccess, accessSecret)
	require.NoError(t, err)
	refreshSigner, err := NewSignerHS256(KindRefresh, refreshSecret)
	require.NoError(t, err)

	accessVerifier, err := NewVerifierHS256(KindAccess, accessSecret, "authgate-test")
	require.NoError(t, err)
	refreshVerifier, err := NewVerifierHS256(KindRefresh, refreshSecret, "authgate-test")
	require.NoError(t, err)

	t.Run("garbage is malformed", func(t *testing.T) {
		_, err := accessVerifier.Verify("not-a-jwt")
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("access token fails refresh verification on signature", func(t *testing.T) {
		token, err := accessSigner.Sign(NewClaims("user-123", KindAccess, "authgate-test", time.Minute, time.Now()))
		require.NoError(t, err)

		_, err = refreshVerifier.Verify(token)
		require.ErrorIs(t, err, ErrInvalidSig)
	})

	t.Run("kind claim mismatch is caught when secrets are shared", func(t *testing.T) {
		// Misconfigured deployment: both kinds on one secret. The kind
		// claim is the remaining line of defence.
		shared, err := NewVerifierHS256(KindRefresh, accessSecret, "authgate-test")
		require.NoError(t, err)
		token, err := accessSigner.Sign(NewClaims("user-123", KindAccess, "authgate-test", time.Minute, time.Now()))
		require.NoError(t, err)

		_, err = shared.Verify(token)
		require.ErrorIs(t, err, ErrKindMismatch)
	})

	t.Run("expired token reports expiry", func(t *testing.T) {
		issued := time.Now().Add(-2 * time.Hour)
		token, err := refreshSigner.Sign(NewClaims("user-123", KindRefresh, "authgate-test", time.Minute, issued))
		require.NoError(t, err)

		_, err = refreshVerifier.Verify(token)
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("issuer mismatch is rejected", func(t *testing.T) {
		other, err := NewVerifierHS256(KindAccess, accessSecret, "someone-else")
		require.NoError(t, err)
		token, err := accessSigner.Sign(NewClaims("user-123", KindAccess, "authgate-test", time.Minute, time.Now()))
		require.NoError(t, err)

		_, err = other.Verify(token)
		require.ErrorIs(t, err, ErrIssuer)
	})
}

func TestSignEnforcesKind(t *testing.T) {
	t.Parallel()

	signer, err := NewSignerHS256(KindAccess, accessSecret)
	require.NoError(t, err)

	_, err = signer.Sign(NewClaims("user-123", KindRefresh, "authgate-test", time.Minute, time.Now()))
	require.ErrorIs(t, err, ErrKindMismatch)
}
