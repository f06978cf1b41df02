package http

import (
	"net/http"

	"github.com/stocklane/stocklane/internal/service"
	"github.com/stocklane/stocklane/pkg/httpx"
)

type VerifyHandler struct {
	VerificationService *service.VerificationService
}

type VerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// HandleVerify handles POST /api/auth/verify
//
//	@Summary		Confirm an email address
//	@Description	Consumes an emailed verification token and marks the account verified.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		VerifyRequest	true	"Raw verification token"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	map[string]string	"Invalid or expired token"
//	@Router			/api/auth/verify [post].
func (h *VerifyHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.VerificationService.ConfirmEmail(r.Context(), req.Token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}
