package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLoginFlow exercises credential sign-in, the anonymous session view,
// and sign-out against the running service.
func TestLoginFlow(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	t.Run("anonymous session is null", func(t *testing.T) {
		var session map[string]any
		resp := newClient(baseURL).do(t, http.MethodGet, "/api/auth/session", nil, &session)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Nil(t, session["user"])
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		client := newClient(baseURL)

		var body map[string]any
		resp := client.do(t, http.MethodPost, "/api/auth/login",
			map[string]any{"email": adminEmail, "password": "wrong"}, &body)

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "Invalid email or password!", body["error"])
	})

	t.Run("unknown email gets the same rejection", func(t *testing.T) {
		client := newClient(baseURL)

		var body map[string]any
		resp := client.do(t, http.MethodPost, "/api/auth/login",
			map[string]any{"email": "nobody@stocklane.test", "password": "wrong"}, &body)

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "Invalid email or password!", body["error"])
	})

	t.Run("admin signs in and sees the session", func(t *testing.T) {
		client := loginAsAdmin(t, baseURL)

		var session struct {
			User *struct {
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		}
		resp := client.do(t, http.MethodGet, "/api/auth/session", nil, &session)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotNil(t, session.User)
		require.Equal(t, adminEmail, session.User.Email)
		require.Equal(t, "ADMIN", session.User.Role)
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		client := loginAsAdmin(t, baseURL)

		resp := client.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var cleared bool
		for _, cookie := range resp.Cookies() {
			if cookie.Name == "token" && cookie.Value == "" {
				cleared = true
			}
		}
		require.True(t, cleared, "logout should clear the token cookie")
	})
}

// TestRegistrationFlow verifies sign-up and the unverified-email gate.
func TestRegistrationFlow(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := newClient(baseURL)
	payload := map[string]any{
		"name":     "New User",
		"email":    "new@stocklane.test",
		"password": "Password123!",
	}

	resp := client.do(t, http.MethodPost, "/api/auth/register", payload, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("login before verification is blocked", func(t *testing.T) {
		var body map[string]any
		resp := client.do(t, http.MethodPost, "/api/auth/login",
			map[string]any{"email": "new@stocklane.test", "password": "Password123!"}, &body)

		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		require.Contains(t, body["error"], "verify your email")
	})

	t.Run("re-registering an unverified email re-sends the link", func(t *testing.T) {
		var body map[string]any
		resp := client.do(t, http.MethodPost, "/api/auth/register", payload, &body)

		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		require.Contains(t, body["error"], "verify your email")
	})

	t.Run("registering a verified email conflicts", func(t *testing.T) {
		var body map[string]any
		resp := client.do(t, http.MethodPost, "/api/auth/register",
			map[string]any{"name": "Imposter", "email": adminEmail, "password": "Password123!"}, &body)

		require.Equal(t, http.StatusConflict, resp.StatusCode)
		require.Equal(t, "Email already in use!", body["error"])
	})
}
