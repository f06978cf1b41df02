package http

import (
	"net/http"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/service"
	"github.com/stocklane/stocklane/pkg/httpx"
)

// UsersHandler is the admin user panel. All routes are gated on ADMIN.
type UsersHandler struct {
	UserService *service.UserService
}

type UserResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	EmailVerified      *time.Time `json:"emailVerified"`
	IsTwoFactorEnabled bool       `json:"isTwoFactorEnabled"`
	CreatedAt          time.Time  `json:"createdAt"`
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func userResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Role:               u.Role.String(),
		EmailVerified:      u.EmailVerified,
		IsTwoFactorEnabled: u.IsTwoFactorEnabled,
		CreatedAt:          u.CreatedAt,
	}
}

// HandleList handles GET /api/auth/users
//
//	@Summary	List users
//	@Tags		Users
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		UserResponse
//	@Failure	403	{object}	map[string]string
//	@Router		/api/auth/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate handles POST /api/auth/users
//
//	@Summary		Create a user
//	@Description	Admin-provisioned accounts are created already verified.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateUserRequest	true	"New user"
//	@Success		201		{object}	UserResponse
//	@Failure		409		{object}	map[string]string	"Email already in use"
//	@Router			/api/auth/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	user, err := h.UserService.Create(r.Context(), service.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, userResponse(user))
}

// HandleUpdateRole handles PATCH /api/auth/users/{id}/role
//
//	@Summary		Change a user's role
//	@Description	Takes effect on the target's next session refresh.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"User id"
//	@Param			request	body		UpdateRoleRequest	true	"New role"
//	@Success		200		{object}	LoginResponse
//	@Failure		404		{object}	map[string]string
//	@Router			/api/auth/users/{id}/role [patch].
func (h *UsersHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	if err := h.UserService.UpdateRole(r.Context(), r.PathValue("id"), role); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}

// HandleDelete handles DELETE /api/auth/users/{id}
//
//	@Summary	Delete a user
//	@Tags		Users
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"User id"
//	@Success	200	{object}	LoginResponse
//	@Failure	404	{object}	map[string]string
//	@Router		/api/auth/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.UserService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}
