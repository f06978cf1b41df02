package http

import (
	"net/http"
	"strings"

	"github.com/stocklane/stocklane/internal/service"
)

// EdgeGate is the routing gate for locale-prefixed page routes. It is
// advisory: it steers browsers between the login page and the app, while the
// API routes enforce access through the role gates.
type EdgeGate struct {
	Sessions      *service.SessionService
	Locales       []string
	DefaultLocale string
}

// Handler serves every page route: locale resolution first, then the
// auth redirects. An invalid or expired token is treated as absent.
func (g *EdgeGate) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		locale, hasPrefix := g.localeFromPath(path)
		if !hasPrefix {
			http.Redirect(w, r, "/"+g.DefaultLocale+path, http.StatusFound)
			return
		}

		isLoginPage := strings.Contains(path, "/auth/login")
		isPublic := isLoginPage ||
			strings.Contains(path, "/auth/reset") ||
			strings.Contains(path, "/not-authorized")

		raw := rawTokenFromRequest(r)

		var loggedIn bool
		if raw != "" {
			_, session, err := g.Sessions.Resolve(r.Context(), raw)
			if err == nil && session != nil {
				loggedIn = true
				w.Header().Set("X-USER-ID", session.UserID)
			}
		}

		switch {
		case loggedIn && isLoginPage:
			http.Redirect(w, r, "/"+locale, http.StatusFound)
		case !loggedIn && !isPublic:
			http.Redirect(w, r, "/"+locale+"/auth/login", http.StatusFound)
		default:
			w.WriteHeader(http.StatusOK)
		}
	})
}

// localeFromPath returns the locale segment when the path starts with one,
// and the default locale otherwise.
func (g *EdgeGate) localeFromPath(path string) (string, bool) {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(segments) > 0 {
		for _, l := range g.Locales {
			if segments[0] == l {
				return l, true
			}
		}
	}
	return g.DefaultLocale, false
}
