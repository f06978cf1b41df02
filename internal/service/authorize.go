package service

import (
	"github.com/stocklane/stocklane/internal/domain"
)

// Route gates over the resolved session. All fail closed: no session or an
// insufficient role always denies. The route layer maps ErrUnauthenticated
// and ErrForbidden to 401/403.

// RequireAuth fails when no valid session was resolved for the request.
func RequireAuth(session *domain.Session) (domain.Session, error) {
	if session == nil || session.UserID == "" {
		return domain.Session{}, ErrUnauthenticated
	}
	return *session, nil
}

// RequireAdmin allows ADMIN only.
func RequireAdmin(session *domain.Session) (domain.Session, error) {
	return requireRoles(session, domain.RoleAdmin)
}

// RequireAdminOrProduct allows ADMIN and PRODUCT_MANAGER.
func RequireAdminOrProduct(session *domain.Session) (domain.Session, error) {
	return requireRoles(session, domain.RoleAdmin, domain.RoleProductManager)
}

// RequireAdminOrSales allows ADMIN and SALES_MANAGER.
func RequireAdminOrSales(session *domain.Session) (domain.Session, error) {
	return requireRoles(session, domain.RoleAdmin, domain.RoleSalesManager)
}

func requireRoles(session *domain.Session, allowed ...domain.Role) (domain.Session, error) {
	sess, err := RequireAuth(session)
	if err != nil {
		return domain.Session{}, err
	}

	for _, role := range allowed {
		if sess.Role == role {
			return sess, nil
		}
	}

	return domain.Session{}, ErrForbidden
}
