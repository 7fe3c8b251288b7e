package domain

import "time"

// TokenPair is what register and login hand back: a short-lived access
// token and a long-lived refresh token, both signed JWTs.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    time.Duration `json:"expires_in"` // access token lifetime
}
