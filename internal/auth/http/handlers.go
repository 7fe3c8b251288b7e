package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/driftlock/authgate/internal/auth/domain"
	"github.com/driftlock/authgate/internal/auth/service"
	"github.com/driftlock/authgate/pkg/authapi"
	"github.com/driftlock/authgate/pkg/slogx"
)

// decodeBody parses a JSON request body into dst. On failure it writes
// the invalid_request error itself and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		authapi.ErrInvalidRequest.WriteError(w)
		return false
	}
	return true
}

// writeFieldRequired reports a missing required request field.
func writeFieldRequired(w http.ResponseWriter, field string) {
	authapi.NewAPIError(http.StatusBadRequest, authapi.CodeInvalidRequest, field+" is required").WriteError(w)
}

// writeServiceError maps the service error taxonomy onto the wire
// contract. Unknown errors are logged and surfaced as server_error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		authapi.ErrEmailTaken.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authapi.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrMissingToken):
		authapi.ErrMissingToken.WriteError(w)
	case errors.Is(err, service.ErrTokenExpired):
		authapi.ErrTokenExpired.WriteError(w)
	case errors.Is(err, service.ErrTokenInvalid):
		authapi.ErrTokenInvalid.WriteError(w)
	case errors.Is(err, service.ErrSessionRevoked):
		authapi.ErrSessionRevoked.WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		authapi.ErrUserNotFound.WriteError(w)
	case errors.Is(err, service.ErrNoActiveOTP):
		authapi.ErrNoActiveOTP.WriteError(w)
	case errors.Is(err, service.ErrIncorrectOTP):
		authapi.ErrIncorrectOTP.WriteError(w)
	case errors.Is(err, service.ErrOTPExpired):
		authapi.ErrOTPExpired.WriteError(w)
	case errors.Is(err, service.ErrNotificationFailed):
		authapi.ErrNotificationFailed.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		authapi.ErrServerError.WriteError(w)
	}
}

// userView projects a user onto the wire type via its public view, so
// credential fields can never leak into a response.
func userView(u domain.User) authapi.UserView {
	p := u.Public()
	return authapi.UserView{ID: p.ID, Name: p.Name, Email: p.Email}
}
