package integration_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	httpapi "github.com/driftlock/authgate/internal/auth/http"
	"github.com/driftlock/authgate/internal/auth/notify"
	"github.com/driftlock/authgate/internal/auth/service"
	"github.com/driftlock/authgate/internal/auth/store/drivers/sqlite"
	"github.com/driftlock/authgate/pkg/authapi"
	"github.com/driftlock/authgate/pkg/jwtx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Full-stack tests: real router, real services, in-memory database,
// exercised through the public client.

type memoryNotifier struct {
	lastCode string
}

func (n *memoryNotifier) SendPasswordReset(ctx context.Context, to, name, code string) error {
	n.lastCode = code
	return nil
}

var _ notify.Notifier = (*memoryNotifier)(nil)

func startServer(t *testing.T) (*authapi.Client, *memoryNotifier) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	accessSigner, err := jwtx.NewSignerHS256(jwtx.KindAccess, []byte("integration-access-secret-01234567"))
	require.NoError(t, err)
	refreshSigner, err := jwtx.NewSignerHS256(jwtx.KindRefresh, []byte("integration-refresh-secret-0123456"))
	require.NoError(t, err)
	refreshVerifier, err := jwtx.NewVerifierHS256(jwtx.KindRefresh, []byte("integration-refresh-secret-0123456"), "authgate-integration")
	require.NoError(t, err)

	tokens := &service.TokenService{
		AccessSigner:    accessSigner,
		RefreshSigner:   refreshSigner,
		RefreshVerifier: refreshVerifier,
		Store:           st,
		Issuer:          "authgate-integration",
		AccessTTL:       jwtx.DefaultAccessTokenTTL,
		RefreshTTL:      jwtx.DefaultRefreshTokenTTL,
	}
	notifier := &memoryNotifier{}

	router := httpapi.NewRouter("integration-test", st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router.SessionService = &service.SessionService{Store: st, Tokens: tokens}
	router.TokenService = tokens
	router.ResetService = &service.ResetService{Store: st, Notifier: notifier}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return authapi.NewClient(server.URL), notifier
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	var apiErr *authapi.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	assert.Equal(t, status, apiErr.StatusCode)
	assert.Equal(t, code, apiErr.Code)
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	client, _ := startServer(t)
	ctx := context.Background()

	reg, err := client.Register(ctx, authapi.RegisterRequest{
		Name: "Robin Sato", Email: "robin@example.com", Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, reg.AccessToken)
	require.NotEmpty(t, reg.RefreshToken)
	assert.Equal(t, "robin@example.com", reg.User.Email)

	_, err = client.Register(ctx, authapi.RegisterRequest{
		Name: "Imposter", Email: "robin@example.com", Password: "something else",
	})
	requireAPIError(t, err, http.StatusConflict, authapi.CodeEmailTaken)

	login, err := client.Login(ctx, authapi.LoginRequest{
		Email: "robin@example.com", Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, login.RefreshToken)

	// The login superseded the registration-time session.
	_, err = client.Refresh(ctx, reg.RefreshToken)
	requireAPIError(t, err, http.StatusForbidden, authapi.CodeSessionRevoked)

	refreshed, err := client.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.AccessToken, refreshed.AccessToken)

	_, err = client.Logout(ctx, login.RefreshToken)
	require.NoError(t, err)

	_, err = client.Logout(ctx, login.RefreshToken)
	requireAPIError(t, err, http.StatusForbidden, authapi.CodeSessionRevoked)

	_, err = client.Refresh(ctx, login.RefreshToken)
	requireAPIError(t, err, http.StatusForbidden, authapi.CodeSessionRevoked)
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()

	client, _ := startServer(t)
	ctx := context.Background()

	_, err := client.Register(ctx, authapi.RegisterRequest{
		Name: "Robin Sato", Email: "robin@example.com", Password: "correct horse battery",
	})
	require.NoError(t, err)

	_, err = client.Login(ctx, authapi.LoginRequest{Email: "robin@example.com", Password: "nope"})
	requireAPIError(t, err, http.StatusUnauthorized, authapi.CodeInvalidCredentials)

	_, err = client.Login(ctx, authapi.LoginRequest{Email: "ghost@example.com", Password: "nope"})
	requireAPIError(t, err, http.StatusUnauthorized, authapi.CodeInvalidCredentials)
}

func TestPasswordRecovery(t *testing.T) {
	t.Parallel()

	client, notifier := startServer(t)
	ctx := context.Background()

	_, err := client.Register(ctx, authapi.RegisterRequest{
		Name: "Robin Sato", Email: "robin@example.com", Password: "old password here",
	})
	require.NoError(t, err)

	_, err = client.ForgotPassword(ctx, "ghost@example.com")
	requireAPIError(t, err, http.StatusNotFound, authapi.CodeUserNotFound)

	// Reset does not reveal whether the email is registered.
	_, err = client.ResetPassword(ctx, authapi.ResetPasswordRequest{
		Email: "ghost@example.com", OTP: "123456", NewPassword: "whatever password",
	})
	requireAPIError(t, err, http.StatusBadRequest, authapi.CodeNoActiveOTP)

	_, err = client.ForgotPassword(ctx, "robin@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, notifier.lastCode)

	wrong := "000000"
	if notifier.lastCode == wrong {
		wrong = "000001"
	}
	_, err = client.ResetPassword(ctx, authapi.ResetPasswordRequest{
		Email: "robin@example.com", OTP: wrong, NewPassword: "new password here",
	})
	requireAPIError(t, err, http.StatusBadRequest, authapi.CodeIncorrectOTP)

	_, err = client.ResetPassword(ctx, authapi.ResetPasswordRequest{
		Email: "robin@example.com", OTP: notifier.lastCode, NewPassword: "new password here",
	})
	require.NoError(t, err)

	// The code is single-use.
	_, err = client.ResetPassword(ctx, authapi.ResetPasswordRequest{
		Email: "robin@example.com", OTP: notifier.lastCode, NewPassword: "third password",
	})
	requireAPIError(t, err, http.StatusBadRequest, authapi.CodeNoActiveOTP)

	_, err = client.Login(ctx, authapi.LoginRequest{Email: "robin@example.com", Password: "old password here"})
	requireAPIError(t, err, http.StatusUnauthorized, authapi.CodeInvalidCredentials)

	login, err := client.Login(ctx, authapi.LoginRequest{Email: "robin@example.com", Password: "new password here"})
	require.NoError(t, err)
	require.NotEmpty(t, login.AccessToken)
}

func TestRateLimitOnCredentialEndpoints(t *testing.T) {
	t.Parallel()

	client, _ := startServer(t)
	ctx := context.Background()

	// The login route allows a burst of five attempts per IP before
	// rejecting with 429.
	for i := 0; i < 5; i++ {
		_, err := client.Login(ctx, authapi.LoginRequest{Email: "ghost@example.com", Password: "x"})
		requireAPIError(t, err, http.StatusUnauthorized, authapi.CodeInvalidCredentials)
	}

	_, err := client.Login(ctx, authapi.LoginRequest{Email: "ghost@example.com", Password: "x"})
	var apiErr *authapi.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}
