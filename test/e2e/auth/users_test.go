package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestUserAdministration exercises the admin user panel and the role gates
// protecting it.
func TestUserAdministration(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	admin := loginAsAdmin(t, baseURL)

	t.Run("anonymous access is unauthorized", func(t *testing.T) {
		resp := newClient(baseURL).do(t, http.MethodGet, "/api/auth/users", nil, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	var viewerID string

	t.Run("admin provisions a viewer", func(t *testing.T) {
		var created struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		}
		resp := admin.do(t, http.MethodPost, "/api/auth/users", map[string]any{
			"name":     "Viewer",
			"email":    "viewer@stocklane.test",
			"password": "Viewer123!",
			"role":     "VIEWER",
		}, &created)

		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.NotEmpty(t, created.ID)
		require.Equal(t, "VIEWER", created.Role)
		viewerID = created.ID
	})

	t.Run("provisioned user can sign in immediately", func(t *testing.T) {
		client := newClient(baseURL)
		resp := client.login(t, "viewer@stocklane.test", "Viewer123!")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotEmpty(t, client.token)
	})

	t.Run("viewer cannot reach the user panel", func(t *testing.T) {
		client := newClient(baseURL)
		resp := client.login(t, "viewer@stocklane.test", "Viewer123!")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = client.do(t, http.MethodGet, "/api/auth/users", nil, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin promotes the viewer", func(t *testing.T) {
		resp := admin.do(t, http.MethodPatch, "/api/auth/users/"+viewerID+"/role",
			map[string]any{"role": "PRODUCT_MANAGER"}, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		// The promoted user's next session reflects the new role.
		client := newClient(baseURL)
		resp = client.login(t, "viewer@stocklane.test", "Viewer123!")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var session struct {
			User *struct {
				Role string `json:"role"`
			} `json:"user"`
		}
		resp = client.do(t, http.MethodGet, "/api/auth/session", nil, &session)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotNil(t, session.User)
		require.Equal(t, "PRODUCT_MANAGER", session.User.Role)
	})

	t.Run("admin deletes the user", func(t *testing.T) {
		resp := admin.do(t, http.MethodDelete, "/api/auth/users/"+viewerID, nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		client := newClient(baseURL)
		loginResp := client.login(t, "viewer@stocklane.test", "Viewer123!")
		require.Equal(t, http.StatusUnauthorized, loginResp.StatusCode)
	})
}

// TestInventoryAccess verifies the inventory endpoints honor the role split:
// products for product managers, stores and sales for admins and sales
// managers.
func TestInventoryAccess(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	admin := loginAsAdmin(t, baseURL)

	// Provision one user per role.
	for _, u := range []struct{ email, role string }{
		{"pm@stocklane.test", "PRODUCT_MANAGER"},
		{"sales@stocklane.test", "SALES_MANAGER"},
	} {
		resp := admin.do(t, http.MethodPost, "/api/auth/users", map[string]any{
			"name":     u.role,
			"email":    u.email,
			"password": "Password123!",
			"role":     u.role,
		}, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	pm := newClient(baseURL)
	require.Equal(t, http.StatusOK, pm.login(t, "pm@stocklane.test", "Password123!").StatusCode)

	sales := newClient(baseURL)
	require.Equal(t, http.StatusOK, sales.login(t, "sales@stocklane.test", "Password123!").StatusCode)

	var productID, storeID string

	t.Run("product manager creates a product", func(t *testing.T) {
		var created struct {
			ID string `json:"id"`
		}
		resp := pm.do(t, http.MethodPost, "/api/products", map[string]any{
			"name":           "Widget",
			"description":    "A widget",
			"price":          9.99,
			"stock":          100,
			"stockThreshold": 10,
			"isActive":       true,
		}, &created)

		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.NotEmpty(t, created.ID)
		productID = created.ID
	})

	t.Run("sales manager cannot touch products", func(t *testing.T) {
		resp := sales.do(t, http.MethodGet, "/api/products", nil, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("only admin manages stores", func(t *testing.T) {
		resp := pm.do(t, http.MethodPost, "/api/stores",
			map[string]any{"name": "Downtown", "location": "Main St"}, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		var created struct {
			ID string `json:"id"`
		}
		resp = admin.do(t, http.MethodPost, "/api/stores",
			map[string]any{"name": "Downtown", "location": "Main St"}, &created)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		storeID = created.ID
	})

	t.Run("sales manager records a sale", func(t *testing.T) {
		var created struct {
			ID string `json:"id"`
		}
		resp := sales.do(t, http.MethodPost, "/api/stores/"+storeID+"/sales", map[string]any{
			"productId": productID,
			"quantity":  3,
			"total":     29.97,
		}, &created)

		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.NotEmpty(t, created.ID)
	})

	t.Run("product manager cannot see sales", func(t *testing.T) {
		resp := pm.do(t, http.MethodGet, "/api/stores/"+storeID+"/sales", nil, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
