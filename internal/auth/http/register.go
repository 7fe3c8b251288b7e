package http

import (
	"net/http"

	"github.com/driftlock/authgate/internal/auth/service"
	"github.com/driftlock/authgate/pkg/authapi"
	"github.com/driftlock/authgate/pkg/httpx"
)

type RegisterHandler struct {
	Sessions *service.SessionService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authapi.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	switch {
	case req.Name == "":
		writeFieldRequired(w, "name")
		return
	case req.Email == "":
		writeFieldRequired(w, "email")
		return
	case req.Password == "":
		writeFieldRequired(w, "password")
		return
	}

	user, pair, err := h.Sessions.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authapi.TokenResponse{
		Message:      "User registered successfully",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         userView(user),
	})
}
