package http

import (
	"net/http"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
)

// sessionCookieName is the cookie carrying the signed session token.
const sessionCookieName = "token"

// setSessionCookie writes (or rotates) the session cookie. The cookie expiry
// tracks the token's own expiry so browsers drop both together.
func setSessionCookie(w http.ResponseWriter, token string, session domain.Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// rawTokenFromRequest extracts the session token from the cookie or, for API
// clients, a Bearer authorization header. Empty string when absent.
func rawTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if auth := r.Header.Get("Authorization"); len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}
