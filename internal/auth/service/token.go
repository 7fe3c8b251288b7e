package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/driftlock/authgate/internal/auth/domain"
	"github.com/driftlock/authgate/internal/auth/store"
	"github.com/driftlock/authgate/pkg/jwtx"
	"github.com/driftlock/authgate/pkg/slogx"
)

// TokenService mints and refreshes session token pairs. Access and
// refresh tokens are signed with independent secrets so one kind can
// never be presented as the other.
type TokenService struct {
	AccessSigner    jwtx.Signer
	RefreshSigner   jwtx.Signer
	RefreshVerifier jwtx.Verifier

	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssuePair signs a fresh access/refresh pair for the user.
func (s *TokenService) IssuePair(userID string, now time.Time) (domain.TokenPair, error) {
	access, err := s.AccessSigner.Sign(jwtx.NewClaims(userID, jwtx.KindAccess, s.Issuer, s.AccessTTL, now))
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := s.RefreshSigner.Sign(jwtx.NewClaims(userID, jwtx.KindRefresh, s.Issuer, s.RefreshTTL, now))
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated; it stays valid until logout or
// natural expiry.
//
// The presented token must both verify cryptographically AND equal the
// stored token for its user byte for byte. A signed-but-superseded
// token (e.g. from a session overwritten by a later login) is treated
// as a revoked session.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	if refreshToken == "" {
		return "", ErrMissingToken
	}

	claims, err := s.RefreshVerifier.Verify(refreshToken)
	if err != nil {
		return "", mapVerifyError(err)
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrSessionRevoked
		}
		return "", err
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		l.Info("refresh rejected for superseded session", slog.String("user_id", user.ID))
		return "", ErrSessionRevoked
	}

	access, err := s.AccessSigner.Sign(jwtx.NewClaims(user.ID, jwtx.KindAccess, s.Issuer, s.AccessTTL, now))
	if err != nil {
		return "", err
	}

	if err := s.Store.Users().UpdateAccessToken(ctx, user.ID, access); err != nil {
		return "", err
	}

	return access, nil
}

// mapVerifyError folds the verifier's error taxonomy into the service
// sentinels. Expiry gets its own code; everything else is one opaque
// "invalid" so callers learn nothing about why a forgery failed.
func mapVerifyError(err error) error {
	if errors.Is(err, jwtx.ErrExpired) {
		return ErrTokenExpired
	}
	return ErrTokenInvalid
}
