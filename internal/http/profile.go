package http

import (
	"net/http"

	"github.com/stocklane/stocklane/internal/service"
	"github.com/stocklane/stocklane/pkg/httpx"
)

// ProfileHandler covers self-service account endpoints: profile view, name
// and password changes, and authenticator-app enrollment.
type ProfileHandler struct {
	UserService *service.UserService
	TOTPService *service.TOTPService
}

type ProfileResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	IsTwoFactorEnabled bool   `json:"isTwoFactorEnabled"`
}

type ProfilePatchRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

type TOTPEnrollResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

type TOTPActivateRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// HandleGet handles GET /api/auth/profile
//
//	@Summary	Current user's profile
//	@Tags		Profile
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	ProfileResponse
//	@Failure	401	{object}	map[string]string
//	@Router		/api/auth/profile [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.Get(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ProfileResponse{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		Role:               user.Role.String(),
		IsTwoFactorEnabled: user.IsTwoFactorEnabled,
	})
}

// HandlePatch handles PATCH /api/auth/profile
//
//	@Summary		Update display name
//	@Description	The session picks up the new name on its next refresh.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ProfilePatchRequest	true	"New name"
//	@Success		200		{object}	LoginResponse
//	@Router			/api/auth/profile [patch].
func (h *ProfileHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var req ProfilePatchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.UserService.UpdateName(r.Context(), httpx.UserIDFromContext(r.Context()), req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}

// HandleChangePassword handles POST /api/auth/profile/password
//
//	@Summary		Change password
//	@Description	Requires the current password. OAuth-only accounts are rejected.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ChangePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	LoginResponse
//	@Failure		401		{object}	map[string]string	"Current password rejected"
//	@Router			/api/auth/profile/password [post].
func (h *ProfileHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.UserService.ChangePassword(r.Context(), httpx.UserIDFromContext(r.Context()),
		req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}

// HandleTOTPEnroll handles POST /api/auth/profile/totp
//
//	@Summary		Enroll an authenticator app
//	@Description	Returns the secret and provisioning URI. 2FA stays off until the
//	@Description	first code is activated.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	TOTPEnrollResponse
//	@Router			/api/auth/profile/totp [post].
func (h *ProfileHandler) HandleTOTPEnroll(w http.ResponseWriter, r *http.Request) {
	enrollment, err := h.TOTPService.Enroll(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TOTPEnrollResponse{Secret: enrollment.Secret, URL: enrollment.URL})
}

// HandleTOTPActivate handles POST /api/auth/profile/totp/activate
//
//	@Summary		Activate the authenticator app
//	@Description	Validates the first code and turns 2FA on.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TOTPActivateRequest	true	"First code from the app"
//	@Success		200		{object}	LoginResponse
//	@Failure		401		{object}	map[string]string	"Code rejected"
//	@Router			/api/auth/profile/totp/activate [post].
func (h *ProfileHandler) HandleTOTPActivate(w http.ResponseWriter, r *http.Request) {
	var req TOTPActivateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.TOTPService.Activate(r.Context(), httpx.UserIDFromContext(r.Context()), req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}

// HandleTOTPDisable handles DELETE /api/auth/profile/totp
//
//	@Summary	Disable two-factor authentication
//	@Tags		Profile
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	LoginResponse
//	@Router		/api/auth/profile/totp [delete].
func (h *ProfileHandler) HandleTOTPDisable(w http.ResponseWriter, r *http.Request) {
	if err := h.TOTPService.Disable(r.Context(), httpx.UserIDFromContext(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}
