package http

import (
	"net/http"

	"github.com/driftlock/authgate/internal/auth/service"
	"github.com/driftlock/authgate/pkg/authapi"
	"github.com/driftlock/authgate/pkg/httpx"
)

type LoginHandler struct {
	Sessions *service.SessionService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authapi.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	switch {
	case req.Email == "":
		writeFieldRequired(w, "email")
		return
	case req.Password == "":
		writeFieldRequired(w, "password")
		return
	}

	user, pair, err := h.Sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.TokenResponse{
		Message:      "Login successful",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         userView(user),
	})
}
