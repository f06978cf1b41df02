package http

import (
	"context"
	"net/http"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/service"
	"github.com/stocklane/stocklane/pkg/httpx"
	"github.com/stocklane/stocklane/pkg/slogx"
)

// SessionMiddleware resolves the session token on every request. An invalid
// or absent token leaves the request anonymous; the role gates downstream
// decide whether that is acceptable. When resolution rotated the token (the
// sliding window or a claim refresh changed it) the cookie is re-set so the
// client always holds the freshest token.
func SessionMiddleware(sessions *service.SessionService, secureCookies bool) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := rawTokenFromRequest(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, session, err := sessions.Resolve(r.Context(), raw)
			if err != nil {
				slogx.FromContext(r.Context()).Error("session resolution failed", "err", err)
				httpx.WriteError(w, http.StatusInternalServerError, "Something went wrong!")
				return
			}
			if session == nil {
				next.ServeHTTP(w, r)
				return
			}

			if token != raw {
				setSessionCookie(w, token, *session, secureCookies)
			}

			ctx := context.WithValue(r.Context(), httpx.CtxKeySession, session)
			ctx = context.WithValue(ctx, httpx.CtxKeyUserID, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the resolved session, or nil for anonymous
// requests.
func SessionFromContext(ctx context.Context) *domain.Session {
	if s, ok := ctx.Value(httpx.CtxKeySession).(*domain.Session); ok {
		return s
	}
	return nil
}

// RequireGate enforces a role gate before the handler runs. Unauthenticated
// requests get 401, authenticated-but-disallowed get 403.
func RequireGate(gate func(*domain.Session) (domain.Session, error)) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := gate(SessionFromContext(r.Context())); err != nil {
				writeServiceError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
