package http

import (
	"errors"
	"net/http"

	"github.com/stocklane/stocklane/internal/service"
	"github.com/stocklane/stocklane/internal/store"
	"github.com/stocklane/stocklane/pkg/httpx"
	"github.com/stocklane/stocklane/pkg/slogx"
)

// writeServiceError maps service errors onto the JSON error envelope. Sign-in
// failures that must stay indistinguishable share one message; the rest carry
// the specific message the client is expected to show.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var mismatch *service.ProviderMismatchError
	if errors.As(err, &mismatch) {
		httpx.WriteError(w, http.StatusForbidden, mismatch.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid email or password!")
	case errors.Is(err, service.ErrOAuthOnlyAccount):
		httpx.WriteError(w, http.StatusForbidden, "Email is linked to a social login account!")
	case errors.Is(err, service.ErrEmailNotVerified):
		httpx.WriteError(w, http.StatusForbidden, "Please verify your email. A new verification link has been sent!")
	case errors.Is(err, service.ErrInvalidTwoFactorCode):
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid 2FA code!")
	case errors.Is(err, service.ErrTwoFactorCodeExpired):
		httpx.WriteError(w, http.StatusUnauthorized, "2FA code expired!")
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteError(w, http.StatusBadRequest, "Invalid token!")
	case errors.Is(err, service.ErrTokenExpired):
		httpx.WriteError(w, http.StatusBadRequest, "Token has expired!")
	case errors.Is(err, service.ErrUnauthenticated):
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "You do not have permission to access this resource")
	case errors.Is(err, service.ErrUserExists):
		httpx.WriteError(w, http.StatusConflict, "Email already in use!")
	case errors.Is(err, service.ErrEmailNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Email not found!")
	case errors.Is(err, service.ErrUnknownProvider):
		httpx.WriteError(w, http.StatusBadRequest, "Unknown provider")
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, "Already exists")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Something went wrong!")
	}
}
