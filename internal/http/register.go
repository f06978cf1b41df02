package http

import (
	"net/http"

	"github.com/stocklane/stocklane/internal/service"
	"github.com/stocklane/stocklane/pkg/httpx"
)

type RegisterHandler struct {
	RegisterService *service.RegisterService
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// HandleRegister handles POST /api/auth/register
//
//	@Summary		Create an account
//	@Description	Registers a credential account with the VIEWER role and mails a verification link.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"New account"
//	@Success		201		{object}	LoginResponse
//	@Failure		403		{object}	map[string]string	"Email linked to a social account or unverified"
//	@Failure		409		{object}	map[string]string	"Email already in use"
//	@Router			/api/auth/register [post].
func (h *RegisterHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.RegisterService.Register(r.Context(), service.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, LoginResponse{Success: true})
}
