package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/driftlock/authgate/internal/auth/domain"
	"github.com/driftlock/authgate/internal/auth/store"
	"github.com/driftlock/authgate/pkg/cryptox"
	"github.com/driftlock/authgate/pkg/idx"
	"github.com/driftlock/authgate/pkg/slogx"
)

// SessionService owns the account lifecycle: registration, login and
// logout. Each user has at most one live session; a new login simply
// overwrites the previous token pair.
type SessionService struct {
	Store  store.Store
	Tokens *TokenService
}

// Register creates an account and signs the user straight in.
func (s *SessionService) Register(ctx context.Context, name, email, password string) (domain.User, domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)
	email = NormalizeEmail(email)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}

	pair, err := s.Tokens.IssuePair(user.ID, now)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	// The uniqueness check and insert run in one transaction so two
	// concurrent registrations for the same email cannot both pass.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByEmail(ctx, email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}

		return tx.Users().UpdateSessionTokens(ctx, user.ID, pair.AccessToken, pair.RefreshToken)
	})
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("user registered", slog.String("user_id", user.ID))

	user.AccessToken = &pair.AccessToken
	user.RefreshToken = &pair.RefreshToken
	return user, pair, nil
}

// Login verifies the credentials and issues a fresh pair, replacing
// whatever session the user had before.
//
// Both unknown-email and wrong-password collapse into one error so the
// endpoint cannot be used to probe which emails are registered.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.User, domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)
	email = NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login password verification failed", slog.String("user_id", user.ID))
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.Tokens.IssuePair(user.ID, now)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := s.Store.Users().UpdateSessionTokens(ctx, user.ID, pair.AccessToken, pair.RefreshToken); err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	user.AccessToken = &pair.AccessToken
	user.RefreshToken = &pair.RefreshToken
	return user, pair, nil
}

// Logout revokes the session owning the presented refresh token. The
// stored refresh token is cleared; the access token is left to age out
// on its own. A token that matches no session means the session is
// already gone.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	l := slogx.FromContext(ctx)

	if refreshToken == "" {
		return ErrMissingToken
	}

	user, err := s.Store.Users().GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionRevoked
		}
		return err
	}

	if err := s.Store.Users().ClearRefreshToken(ctx, user.ID); err != nil {
		return err
	}

	l.Info("session revoked", slog.String("user_id", user.ID))
	return nil
}

// NormalizeEmail lowercases and trims an email so lookups hit the same
// row regardless of how the caller typed it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
