package service

import (
	"context"
	"testing"
	"time"

	"github.com/driftlock/authgate/internal/auth/notify"
	"github.com/driftlock/authgate/internal/auth/store"
	"github.com/driftlock/authgate/internal/auth/store/drivers/sqlite"
	"github.com/driftlock/authgate/pkg/cryptox"
	"github.com/driftlock/authgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var (
	testAccessSecret  = []byte("test-access-secret-0123456789abcdef")
	testRefreshSecret = []byte("test-refresh-secret-0123456789abcde")
)

const testIssuer = "authgate-test"

func newTestTokenService(t *testing.T, st store.Store) *TokenService {
	t.Helper()

	accessSigner, err := jwtx.NewSignerHS256(jwtx.KindAccess, testAccessSecret)
	require.NoError(t, err)
	refreshSigner, err := jwtx.NewSignerHS256(jwtx.KindRefresh, testRefreshSecret)
	require.NoError(t, err)
	refreshVerifier, err := jwtx.NewVerifierHS256(jwtx.KindRefresh, testRefreshSecret, testIssuer)
	require.NoError(t, err)

	return &TokenService{
		AccessSigner:    accessSigner,
		RefreshSigner:   refreshSigner,
		RefreshVerifier: refreshVerifier,
		Store:           st,
		Issuer:          testIssuer,
		AccessTTL:       jwtx.DefaultAccessTokenTTL,
		RefreshTTL:      jwtx.DefaultRefreshTokenTTL,
	}
}

func newTestSessionService(t *testing.T) (*SessionService, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	return &SessionService{
		Store:  st,
		Tokens: newTestTokenService(t, st),
	}, st
}

func TestSessionRegister(t *testing.T) {
	t.Parallel()

	svc, st := newTestSessionService(t)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, "Robin Sato", "  Robin@Example.COM ", "correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "robin@example.com", user.Email, "email is normalized before storage")
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	t.Run("password is stored hashed", func(t *testing.T) {
		stored, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotEqual(t, "correct horse battery", stored.PasswordHash)
		require.NoError(t, cryptox.VerifyPassword("correct horse battery", stored.PasswordHash))
	})

	t.Run("token pair is persisted", func(t *testing.T) {
		stored, err := st.Users().GetUserByRefreshToken(ctx, pair.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, stored.ID)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "Other", "robin@example.com", "another password")
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("duplicate differing only in case rejected", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "Other", "ROBIN@example.com", "another password")
		require.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestSessionLogin(t *testing.T) {
	t.Parallel()

	svc, st := newTestSessionService(t)
	ctx := context.Background()

	_, firstPair, err := svc.Register(ctx, "Robin Sato", "robin@example.com", "correct horse battery")
	require.NoError(t, err)

	t.Run("valid credentials issue a fresh pair", func(t *testing.T) {
		user, pair, err := svc.Login(ctx, "robin@example.com", "correct horse battery")
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		// The registration-time session is gone; only the latest pair works.
		_, err = st.Users().GetUserByRefreshToken(ctx, firstPair.RefreshToken)
		require.ErrorIs(t, err, store.ErrNotFound)

		stored, err := st.Users().GetUserByRefreshToken(ctx, pair.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, stored.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "robin@example.com", "wrong password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email yields the same error", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "correct horse battery")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestSessionLogout(t *testing.T) {
	t.Parallel()

	svc, st := newTestSessionService(t)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, "Robin Sato", "robin@example.com", "correct horse battery")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	stored, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Nil(t, stored.RefreshToken, "refresh token cleared on logout")
	require.NotNil(t, stored.AccessToken, "access token left to age out")

	t.Run("second logout with the same token", func(t *testing.T) {
		require.ErrorIs(t, svc.Logout(ctx, pair.RefreshToken), ErrSessionRevoked)
	})

	t.Run("empty token", func(t *testing.T) {
		require.ErrorIs(t, svc.Logout(ctx, ""), ErrMissingToken)
	})
}

func TestTokenRefresh(t *testing.T) {
	t.Parallel()

	svc, st := newTestSessionService(t)
	tokens := svc.Tokens
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, "Robin Sato", "robin@example.com", "correct horse battery")
	require.NoError(t, err)

	t.Run("valid refresh mints a new access token", func(t *testing.T) {
		access, err := tokens.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		require.NotEmpty(t, access)

		stored, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.AccessToken)
		require.Equal(t, access, *stored.AccessToken)

		// The refresh token is not rotated.
		require.NotNil(t, stored.RefreshToken)
		require.Equal(t, pair.RefreshToken, *stored.RefreshToken)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := tokens.Refresh(ctx, "")
		require.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := tokens.Refresh(ctx, "not-a-jwt")
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("access token presented as refresh", func(t *testing.T) {
		_, err := tokens.Refresh(ctx, pair.AccessToken)
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		claims := jwtx.NewClaims(user.ID, jwtx.KindRefresh, testIssuer, time.Minute, time.Now().Add(-time.Hour))
		expired, err := tokens.RefreshSigner.Sign(claims)
		require.NoError(t, err)

		_, err = tokens.Refresh(ctx, expired)
		require.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("superseded session", func(t *testing.T) {
		// A later login replaces the stored pair; the old token still
		// verifies but no longer matches the stored value.
		_, _, err := svc.Login(ctx, "robin@example.com", "correct horse battery")
		require.NoError(t, err)

		_, err = tokens.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrSessionRevoked)
	})

	t.Run("revoked session", func(t *testing.T) {
		_, pair, err := svc.Login(ctx, "robin@example.com", "correct horse battery")
		require.NoError(t, err)
		require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

		_, err = tokens.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrSessionRevoked)
	})
}

// captureNotifier records deliveries and can be told to fail.
type captureNotifier struct {
	lastTo   string
	lastCode string
	fail     bool
}

func (n *captureNotifier) SendPasswordReset(ctx context.Context, to, name, code string) error {
	if n.fail {
		return context.DeadlineExceeded
	}
	n.lastTo = to
	n.lastCode = code
	return nil
}

var _ notify.Notifier = (*captureNotifier)(nil)

func TestResetFlow(t *testing.T) {
	t.Parallel()

	svc, st := newTestSessionService(t)
	notifier := &captureNotifier{}
	reset := &ResetService{Store: st, Notifier: notifier}
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "Robin Sato", "robin@example.com", "old password here")
	require.NoError(t, err)

	t.Run("forgot for unknown email", func(t *testing.T) {
		require.ErrorIs(t, reset.Forgot(ctx, "nobody@example.com"), ErrUserNotFound)
	})

	t.Run("reset without a pending code", func(t *testing.T) {
		err := reset.Reset(ctx, "robin@example.com", "000000", "irrelevant password")
		require.ErrorIs(t, err, ErrNoActiveOTP)
	})

	t.Run("reset for unknown email reads as no pending code", func(t *testing.T) {
		err := reset.Reset(ctx, "nobody@example.com", "000000", "irrelevant password")
		require.ErrorIs(t, err, ErrNoActiveOTP)
	})

	t.Run("full round trip", func(t *testing.T) {
		require.NoError(t, reset.Forgot(ctx, "robin@example.com"))
		require.Equal(t, "robin@example.com", notifier.lastTo)
		require.Len(t, notifier.lastCode, cryptox.OTPDigits)

		t.Run("wrong code", func(t *testing.T) {
			wrong := "000000"
			if notifier.lastCode == wrong {
				wrong = "000001"
			}
			err := reset.Reset(ctx, "robin@example.com", wrong, "new password here")
			require.ErrorIs(t, err, ErrIncorrectOTP)
		})

		require.NoError(t, reset.Reset(ctx, "robin@example.com", notifier.lastCode, "new password here"))

		// Old password no longer works, new one does.
		_, _, err := svc.Login(ctx, "robin@example.com", "old password here")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		_, _, err = svc.Login(ctx, "robin@example.com", "new password here")
		require.NoError(t, err)

		t.Run("code is consumed", func(t *testing.T) {
			err := reset.Reset(ctx, "robin@example.com", notifier.lastCode, "third password here")
			require.ErrorIs(t, err, ErrNoActiveOTP)
		})
	})

	t.Run("expired code", func(t *testing.T) {
		require.NoError(t, reset.Forgot(ctx, "robin@example.com"))
		expired := time.Now().UTC().Add(-time.Minute)
		require.NoError(t, st.Users().SetResetOTP(ctx, user.ID, notifier.lastCode, expired))

		err := reset.Reset(ctx, "robin@example.com", notifier.lastCode, "another password")
		require.ErrorIs(t, err, ErrOTPExpired)

		t.Run("wrong guess against expired code reads as incorrect", func(t *testing.T) {
			wrong := "000000"
			if notifier.lastCode == wrong {
				wrong = "000001"
			}
			err := reset.Reset(ctx, "robin@example.com", wrong, "another password")
			require.ErrorIs(t, err, ErrIncorrectOTP)
		})
	})

	t.Run("delivery failure still persists the code", func(t *testing.T) {
		failing := &captureNotifier{fail: true}
		failingReset := &ResetService{Store: st, Notifier: failing}

		require.ErrorIs(t, failingReset.Forgot(ctx, "robin@example.com"), ErrNotificationFailed)

		stored, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.ResetOTP)
	})
}
