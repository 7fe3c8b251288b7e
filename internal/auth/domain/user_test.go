package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserPublic(t *testing.T) {
	t.Parallel()

	token := "signed-token"
	otp := "482910"
	expires := time.Now().Add(10 * time.Minute)

	u := User{
		ID:              "u1",
		Name:            "Robin Sato",
		Email:           "robin@example.com",
		PasswordHash:    "$2a$12$hash",
		AccessToken:     &token,
		RefreshToken:    &token,
		ResetOTP:        &otp,
		ResetOTPExpires: &expires,
	}

	// Only the identity triple survives the projection.
	assert.Equal(t, PublicView{
		ID:    "u1",
		Name:  "Robin Sato",
		Email: "robin@example.com",
	}, u.Public())
}
