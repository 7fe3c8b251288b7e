package http

import (
	"net/http"

	"github.com/driftlock/authgate/internal/auth/service"
	"github.com/driftlock/authgate/pkg/authapi"
	"github.com/driftlock/authgate/pkg/httpx"
)

type ForgotPasswordHandler struct {
	Resets *service.ResetService
}

func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authapi.ForgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Email == "" {
		writeFieldRequired(w, "email")
		return
	}

	if err := h.Resets.Forgot(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{
		Message: "Password reset code sent",
	})
}
