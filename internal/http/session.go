package http

import (
	"net/http"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/service"
	"github.com/stocklane/stocklane/pkg/httpx"
)

type SessionHandler struct {
	Sessions      *service.SessionService
	SecureCookies bool
}

// SessionResponse is the session view returned to clients. User is null for
// anonymous requests.
type SessionResponse struct {
	User *SessionUser `json:"user"`
}

type SessionUser struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	IsOAuth            bool      `json:"isOAuth"`
	IsTwoFactorEnabled bool      `json:"isTwoFactorEnabled"`
	RememberMe         bool      `json:"rememberMe"`
	ExpiresAt          time.Time `json:"expiresAt"`
}

type SessionPatchRequest struct {
	RememberMe *bool `json:"rememberMe" validate:"required"`
}

func sessionUser(s *domain.Session) *SessionUser {
	if s == nil {
		return nil
	}
	return &SessionUser{
		ID:                 s.UserID,
		Name:               s.Name,
		Email:              s.Email,
		Role:               s.Role.String(),
		IsOAuth:            s.IsOAuth,
		IsTwoFactorEnabled: s.IsTwoFactorEnabled,
		RememberMe:         s.RememberMe,
		ExpiresAt:          s.ExpiresAt,
	}
}

// HandleGet handles GET /api/auth/session
//
//	@Summary		Current session
//	@Description	Returns the resolved session view, refreshing claims and sliding the
//	@Description	expiry as a side effect. Anonymous requests get a null user.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	SessionResponse
//	@Router			/api/auth/session [get].
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{User: sessionUser(SessionFromContext(r.Context()))})
}

// HandlePatch handles PATCH /api/auth/session
//
//	@Summary		Update remember-me
//	@Description	Re-issues the session token with the new remember-me lifetime.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SessionPatchRequest	true	"New remember-me flag"
//	@Success		200		{object}	SessionResponse
//	@Failure		401		{object}	map[string]string	"No active session"
//	@Router			/api/auth/session [patch].
func (h *SessionHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var req SessionPatchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, session, err := h.Sessions.UpdateRememberMe(r.Context(), rawTokenFromRequest(r), *req.RememberMe)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if session == nil {
		writeServiceError(w, r, service.ErrUnauthenticated)
		return
	}

	setSessionCookie(w, token, *session, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{User: sessionUser(session)})
}
