package http

import (
	"net/http"

	"github.com/driftlock/authgate/internal/auth/service"
	"github.com/driftlock/authgate/pkg/authapi"
	"github.com/driftlock/authgate/pkg/httpx"
)

type ResetPasswordHandler struct {
	Resets *service.ResetService
}

func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authapi.ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	switch {
	case req.Email == "":
		writeFieldRequired(w, "email")
		return
	case req.OTP == "":
		writeFieldRequired(w, "otp")
		return
	case req.NewPassword == "":
		writeFieldRequired(w, "newPassword")
		return
	}

	if err := h.Resets.Reset(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{
		Message: "Password reset successful",
	})
}
