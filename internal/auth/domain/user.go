package domain

import "time"

// User is the credential record persisted by the store. It is created at
// registration and mutated only by the session and reset services; it is
// never deleted by this service.
type User struct {
	ID           string
	Name         string
	Email        string // case-normalized, unique lookup key
	PasswordHash string // bcrypt encoded

	// AccessToken and RefreshToken are the last-issued tokens for the
	// single active session. At most one refresh token is valid per
	// user at a time; a presented refresh token must equal the stored
	// value exactly.
	AccessToken  *string
	RefreshToken *string

	// ResetOTP and ResetOTPExpires carry the pending one-time reset
	// code. Either both are set or both are nil; the pair is cleared
	// atomically on a successful reset and overwritten by a new
	// forgot-password request.
	ResetOTP        *string
	ResetOTPExpires *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicView is the projection of a user safe to return to callers.
type PublicView struct {
	ID    string
	Name  string
	Email string
}

// Public returns the caller-facing view of the record.
func (u User) Public() PublicView {
	return PublicView{ID: u.ID, Name: u.Name, Email: u.Email}
}
