package store

import (
	"context"
	"errors"
	"time"

	"github.com/driftlock/authgate/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. The user repository is exposed as a method so a
// Tx-scoped store can swap in transaction-bound queries.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error,
	// the transaction is rolled back; otherwise it is committed. This is
	// the recommended way to run multi-step mutations (e.g. register's
	// uniqueness check + insert).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users is the credential-record repository. Every mutation bumps
// updated_at. Emails are stored case-normalized; lookups expect the
// caller to have normalized already.
type Users interface {
	// GetUserByID returns a user by identity.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns a user by its normalized email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByRefreshToken returns the user whose stored refresh token
	// equals the presented value exactly. Used by logout.
	GetUserByRefreshToken(ctx context.Context, token string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists if the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateSessionTokens stores a freshly issued token pair,
	// overwriting whatever pair was there before.
	UpdateSessionTokens(ctx context.Context, userID, accessToken, refreshToken string) error

	// UpdateAccessToken replaces only the stored access token; the
	// refresh token is left untouched.
	UpdateAccessToken(ctx context.Context, userID, accessToken string) error

	// ClearRefreshToken nulls the stored refresh token, revoking the
	// session. The access token is left in place to age out.
	ClearRefreshToken(ctx context.Context, userID string) error

	// SetResetOTP stores a pending reset code and its expiry as one
	// write, replacing any previous pair.
	SetResetOTP(ctx context.Context, userID, otp string, expiresAt time.Time) error

	// CompletePasswordReset replaces the password hash and clears the
	// OTP pair in a single write.
	CompletePasswordReset(ctx context.Context, userID, newHash string) error
}
