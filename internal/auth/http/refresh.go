package http

import (
	"net/http"

	"github.com/driftlock/authgate/internal/auth/service"
	"github.com/driftlock/authgate/pkg/authapi"
	"github.com/driftlock/authgate/pkg/httpx"
)

type RefreshHandler struct {
	Tokens *service.TokenService
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authapi.RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	access, err := h.Tokens.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.RefreshResponse{
		AccessToken: access,
	})
}
