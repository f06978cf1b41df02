package http

import (
	"net/http"

	"github.com/stocklane/stocklane/internal/service"
	"github.com/stocklane/stocklane/pkg/httpx"
)

// LoginHandler handles credential sign-in and sign-out.
type LoginHandler struct {
	LoginService  *service.LoginService
	SecureCookies bool
}

// LoginRequest is the sign-in payload. Code carries the optional 2FA code;
// RememberMe defaults to true when omitted.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Code       string `json:"code,omitempty"`
	RememberMe *bool  `json:"rememberMe,omitempty"`
}

// LoginResponse carries the three sign-in outcomes: an error envelope, a 2FA
// prompt, or success with a session cookie.
type LoginResponse struct {
	Success   bool `json:"success,omitempty"`
	TwoFactor bool `json:"twoFactor,omitempty"`
}

// HandleLogin handles POST /api/auth/login
//
//	@Summary		Sign in with email and password
//	@Description	Runs the credential sign-in flow. 2FA-enabled users receive
//	@Description	{twoFactor:true} on the first call and submit the code on the second.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse	"success or twoFactor prompt"
//	@Failure		401		{object}	map[string]string	"Invalid credentials or 2FA code"
//	@Failure		403		{object}	map[string]string	"Unverified email or provider mismatch"
//	@Router			/api/auth/login [post].
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rememberMe := true
	if req.RememberMe != nil {
		rememberMe = *req.RememberMe
	}

	result, err := h.LoginService.Login(r.Context(), service.LoginRequest{
		Email:      req.Email,
		Password:   req.Password,
		Code:       req.Code,
		RememberMe: rememberMe,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if result.TwoFactor {
		httpx.WriteJSON(w, http.StatusOK, LoginResponse{TwoFactor: true})
		return
	}

	setSessionCookie(w, result.Token, result.Session, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}

// HandleLogout handles POST /api/auth/logout
//
//	@Summary	Sign out
//	@Description	Clears the session cookie. The stateless token itself simply ages out.
//	@Tags		Auth
//	@Produce	json
//	@Success	200	{object}	LoginResponse
//	@Router		/api/auth/logout [post].
func (h *LoginHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}
