package http

import (
	"net/http"

	"github.com/stocklane/stocklane/internal/service"
	"github.com/stocklane/stocklane/pkg/httpx"
)

type ResetHandler struct {
	ResetService *service.ResetService
}

type ResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetConfirmRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// HandleRequest handles POST /api/auth/reset
//
//	@Summary		Request a password reset
//	@Description	Mails a reset link to the account's email. Social-only accounts are rejected.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ResetRequest	true	"Account email"
//	@Success		200		{object}	LoginResponse
//	@Failure		403		{object}	map[string]string	"Email linked to a social account"
//	@Failure		404		{object}	map[string]string	"Email not found"
//	@Router			/api/auth/reset [post].
func (h *ResetHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.ResetService.RequestReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}

// HandleConfirm handles POST /api/auth/reset/confirm
//
//	@Summary		Complete a password reset
//	@Description	Consumes the emailed reset token and sets the new password.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ResetConfirmRequest	true	"Token and new password"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	map[string]string	"Invalid or expired token"
//	@Router			/api/auth/reset/confirm [post].
func (h *ResetHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	var req ResetConfirmRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.ResetService.CompleteReset(r.Context(), req.Token, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}
