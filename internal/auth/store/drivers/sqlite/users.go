package sqlite

import (
	"context"
	"time"

	"github.com/driftlock/authgate/internal/auth/domain"
)

type usersRepo struct {
	q querier
}

const userColumns = `
	id, name, email, password_hash,
	access_token, refresh_token,
	reset_otp, reset_otp_expires,
	created_at, updated_at
`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = ?
	`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = ?
	`, email)
	return scanUser(row)
}

func (r *usersRepo) GetUserByRefreshToken(ctx context.Context, token string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE refresh_token = ?
	`, token)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (
			id, name, email, password_hash,
			access_token, refresh_token,
			reset_otp, reset_otp_expires,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		u.ID, u.Name, u.Email, u.PasswordHash,
		mapOptionalString(u.AccessToken), mapOptionalString(u.RefreshToken),
		mapOptionalString(u.ResetOTP), mapOptionalTime(u.ResetOTPExpires),
		u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateSessionTokens(ctx context.Context, userID, accessToken, refreshToken string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET access_token = ?, refresh_token = ?, updated_at = ?
		WHERE id = ?
	`, accessToken, refreshToken, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) UpdateAccessToken(ctx context.Context, userID, accessToken string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET access_token = ?, updated_at = ?
		WHERE id = ?
	`, accessToken, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) ClearRefreshToken(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET refresh_token = NULL, updated_at = ?
		WHERE id = ?
	`, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) SetResetOTP(ctx context.Context, userID, otp string, expiresAt time.Time) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET reset_otp = ?, reset_otp_expires = ?, updated_at = ?
		WHERE id = ?
	`, otp, expiresAt, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) CompletePasswordReset(ctx context.Context, userID, newHash string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?, reset_otp = NULL, reset_otp_expires = NULL, updated_at = ?
		WHERE id = ?
	`, newHash, time.Now().UTC(), userID)
	return err
}
