package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/service"
	"github.com/stocklane/stocklane/pkg/httpx"
)

func TestSessionMiddleware(t *testing.T) {
	st := newTestStore(t)
	clk := newClock()
	sessions := newTestSessions(t, st, clk)
	user := seedUser(t, st, "mw@example.com", "hunter2!", domain.RoleAdmin)

	capture := func(got **domain.Session, gotID *string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*got = SessionFromContext(r.Context())
			*gotID = httpx.UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("no token passes anonymous", func(t *testing.T) {
		var got *domain.Session
		var gotID string
		h := SessionMiddleware(sessions, false)(capture(&got, &gotID))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Nil(t, got)
		require.Empty(t, gotID)
	})

	t.Run("garbage token passes anonymous", func(t *testing.T) {
		var got *domain.Session
		var gotID string
		h := SessionMiddleware(sessions, false)(capture(&got, &gotID))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "not-a-token"})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Nil(t, got)
	})

	t.Run("valid cookie populates context", func(t *testing.T) {
		token, _, err := sessions.Issue(context.Background(), user, false, true)
		require.NoError(t, err)

		var got *domain.Session
		var gotID string
		h := SessionMiddleware(sessions, false)(capture(&got, &gotID))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		require.Equal(t, user.ID, got.UserID)
		require.Equal(t, user.ID, gotID)
		require.Empty(t, rec.Result().Cookies(), "unchanged token should not re-set the cookie")
	})

	t.Run("bearer header works for API clients", func(t *testing.T) {
		token, _, err := sessions.Issue(context.Background(), user, false, true)
		require.NoError(t, err)

		var got *domain.Session
		var gotID string
		h := SessionMiddleware(sessions, false)(capture(&got, &gotID))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		require.Equal(t, user.ID, got.UserID)
	})

	t.Run("aged token rotates the cookie", func(t *testing.T) {
		token, _, err := sessions.Issue(context.Background(), user, false, true)
		require.NoError(t, err)

		clk.Advance(25 * time.Hour)

		var got *domain.Session
		var gotID string
		h := SessionMiddleware(sessions, true)(capture(&got, &gotID))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, "token", cookies[0].Name)
		require.NotEqual(t, token, cookies[0].Value)
		require.True(t, cookies[0].HttpOnly)
		require.True(t, cookies[0].Secure)
	})
}

func TestRequireGate(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	withSession := func(r *http.Request, s *domain.Session) *http.Request {
		if s == nil {
			return r
		}
		return r.WithContext(context.WithValue(r.Context(), httpx.CtxKeySession, s))
	}

	t.Run("anonymous gets 401", func(t *testing.T) {
		h := RequireGate(service.RequireAdmin)(okHandler)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong role gets 403", func(t *testing.T) {
		h := RequireGate(service.RequireAdmin)(okHandler)

		req := withSession(httptest.NewRequest(http.MethodGet, "/", nil),
			&domain.Session{UserID: "u1", Role: domain.RoleViewer})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("allowed role passes", func(t *testing.T) {
		h := RequireGate(service.RequireAdmin)(okHandler)

		req := withSession(httptest.NewRequest(http.MethodGet, "/", nil),
			&domain.Session{UserID: "u1", Role: domain.RoleAdmin})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}
