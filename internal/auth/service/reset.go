package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/driftlock/authgate/internal/auth/notify"
	"github.com/driftlock/authgate/internal/auth/store"
	"github.com/driftlock/authgate/pkg/cryptox"
	"github.com/driftlock/authgate/pkg/slogx"
)

// OTPTTL is how long a password reset code stays redeemable.
const OTPTTL = 10 * time.Minute

// ResetService runs the two-step password recovery flow: Forgot issues
// a short-lived one-time code, Reset redeems it.
type ResetService struct {
	Store    store.Store
	Notifier notify.Notifier
}

// Forgot generates a fresh reset code for the account, stores it with
// its expiry, and hands it to the notifier. A repeat request simply
// replaces the pending code.
//
// The code is persisted before delivery is attempted, so a failed email
// does not strand the user: the support path can read the code from the
// store and a retry overwrites it anyway.
func (s *ResetService) Forgot(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)
	email = NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	code, err := cryptox.GenerateOTP(cryptox.OTPDigits)
	if err != nil {
		return err
	}

	expiresAt := time.Now().UTC().Add(OTPTTL)
	if err := s.Store.Users().SetResetOTP(ctx, user.ID, code, expiresAt); err != nil {
		return err
	}

	if err := s.Notifier.SendPasswordReset(ctx, user.Email, user.Name, code); err != nil {
		l.Error("reset code delivery failed",
			slog.Any("error", err),
			slog.String("user_id", user.ID),
		)
		return ErrNotificationFailed
	}

	l.Info("reset code issued", slog.String("user_id", user.ID))
	return nil
}

// Reset redeems a pending code and installs the new password. An
// unknown email reads the same as an account with no pending code, so
// this path cannot be used to probe which emails are registered. The
// code is compared before its expiry is checked, so a wrong guess
// against an expired code still reads as incorrect rather than leaking
// that a code existed and lapsed. Expiry is exclusive: a code presented
// at exactly its recorded expiry instant is still redeemable and lapses
// strictly after it. A successful reset consumes the code.
func (s *ResetService) Reset(ctx context.Context, email, otp, newPassword string) error {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)
	email = NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNoActiveOTP
		}
		return err
	}

	if user.ResetOTP == nil || user.ResetOTPExpires == nil {
		return ErrNoActiveOTP
	}
	if *user.ResetOTP != otp {
		return ErrIncorrectOTP
	}
	if now.After(*user.ResetOTPExpires) {
		return ErrOTPExpired
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.Users().CompletePasswordReset(ctx, user.ID, hash); err != nil {
		return err
	}

	l.Info("password reset completed", slog.String("user_id", user.ID))
	return nil
}
