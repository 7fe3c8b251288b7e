package authapi

import (
	"fmt"
	"net/http"

	"github.com/driftlock/authgate/pkg/httpx"
)

// Error codes returned in the "error" field of failure responses. These
// are the stable machine-readable classification; the description text
// may change without notice.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeEmailTaken         = "email_taken"
	CodeInvalidCredentials = "invalid_credentials"
	CodeMissingToken       = "missing_token"
	CodeTokenInvalid       = "token_invalid"
	CodeTokenExpired       = "token_expired"
	CodeSessionRevoked     = "session_revoked"
	CodeUserNotFound       = "user_not_found"
	CodeNoActiveOTP        = "no_active_otp"
	CodeIncorrectOTP       = "incorrect_otp"
	CodeOTPExpired         = "otp_expired"
	CodeNotificationFailed = "notification_failed"
	CodeServerError        = "server_error"
)

// APIError represents a classified failure response. It implements the
// error interface and is shared between the server handlers (to write
// HTTP responses) and the client SDK (to represent failures).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the stable machine-readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// NewAPIError builds an ad-hoc APIError for cases the predefined values
// don't cover (e.g. the same code under a different status).
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Description: description}
}

var (
	// ErrInvalidRequest is returned when the request body is missing,
	// malformed, or lacks required fields.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        CodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrEmailTaken is returned when registering with an email that
	// already has an account.
	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        CodeEmailTaken,
		Description: "email already registered",
	}

	// ErrInvalidCredentials is returned for login failures. Unknown
	// email and wrong password produce this same response so callers
	// cannot enumerate accounts.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        CodeInvalidCredentials,
		Description: "invalid credentials",
	}

	// ErrMissingToken is returned when a refresh request carries no
	// refresh token.
	ErrMissingToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        CodeMissingToken,
		Description: "refresh token missing",
	}

	// ErrTokenInvalid is returned when a presented token fails
	// signature or structural verification.
	ErrTokenInvalid = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        CodeTokenInvalid,
		Description: "token invalid",
	}

	// ErrTokenExpired is returned when a presented token is past its
	// expiry.
	ErrTokenExpired = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        CodeTokenExpired,
		Description: "token expired",
	}

	// ErrSessionRevoked is returned when a structurally valid refresh
	// token no longer matches the stored session (logout, or a newer
	// login rotated it away).
	ErrSessionRevoked = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        CodeSessionRevoked,
		Description: "session revoked",
	}

	// ErrUserNotFound is returned by forgot-password for an unknown email.
	ErrUserNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        CodeUserNotFound,
		Description: "user not found",
	}

	// ErrNoActiveOTP is returned when resetting a password with no
	// pending one-time passcode on the account.
	ErrNoActiveOTP = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        CodeNoActiveOTP,
		Description: "no active reset code",
	}

	// ErrIncorrectOTP is returned when the presented passcode does not
	// match the issued one.
	ErrIncorrectOTP = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        CodeIncorrectOTP,
		Description: "incorrect reset code",
	}

	// ErrOTPExpired is returned when the presented passcode matches but
	// its expiry horizon has passed.
	ErrOTPExpired = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        CodeOTPExpired,
		Description: "reset code expired",
	}

	// ErrNotificationFailed is returned when the reset code could not be
	// dispatched. The code itself remains valid.
	ErrNotificationFailed = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        CodeNotificationFailed,
		Description: "failed to send reset code",
	}

	// ErrServerError is the generic internal failure. Store and
	// dependency errors collapse to this without leaking detail.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        CodeServerError,
		Description: "internal server error",
	}
)
