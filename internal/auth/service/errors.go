package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrMissingToken       = errors.New("missing_token")
	ErrTokenInvalid       = errors.New("token_invalid")
	ErrTokenExpired       = errors.New("token_expired")
	ErrSessionRevoked     = errors.New("session_revoked")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrNoActiveOTP        = errors.New("no_active_otp")
	ErrIncorrectOTP       = errors.New("incorrect_otp")
	ErrOTPExpired         = errors.New("otp_expired")
	ErrNotificationFailed = errors.New("notification_failed")
)
