package http

import (
	"net/http"

	"github.com/stocklane/stocklane/internal/service"
	"github.com/stocklane/stocklane/pkg/httpx"
)

type OAuthHandler struct {
	OAuthService  *service.OAuthService
	SecureCookies bool
}

type OAuthRequest struct {
	Token string `json:"token" validate:"required"`
}

// HandleSignIn handles POST /api/auth/oauth/{provider}
//
//	@Summary		Sign in with a social provider
//	@Description	Verifies a provider-issued token (Google id_token or GitHub access
//	@Description	token), creating and linking the account on first sign-in.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			provider	path		string			true	"google or github"
//	@Param			request		body		OAuthRequest	true	"Provider token"
//	@Success		200			{object}	LoginResponse
//	@Failure		401			{object}	map[string]string	"Provider rejected the token"
//	@Failure		403			{object}	map[string]string	"Account bound to another provider"
//	@Router			/api/auth/oauth/{provider} [post].
func (h *OAuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req OAuthRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.OAuthService.SignIn(r.Context(), r.PathValue("provider"), req.Token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	setSessionCookie(w, result.Token, result.Session, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}
