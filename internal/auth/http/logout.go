package http

import (
	"errors"
	"net/http"

	"github.com/driftlock/authgate/internal/auth/service"
	"github.com/driftlock/authgate/pkg/authapi"
	"github.com/driftlock/authgate/pkg/httpx"
)

type LogoutHandler struct {
	Sessions *service.SessionService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authapi.LogoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Sessions.Logout(r.Context(), req.RefreshToken); err != nil {
		// Unlike refresh, an absent token here is a malformed request
		// rather than a failed authentication.
		if errors.Is(err, service.ErrMissingToken) {
			authapi.NewAPIError(http.StatusBadRequest, authapi.CodeMissingToken, "refreshToken is required").WriteError(w)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{
		Message: "Logged out successfully",
	})
}
