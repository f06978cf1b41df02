package domain

import "fmt"

// Role is the closed set of user roles. It deliberately carries no
// permission bits of its own; route gates decide what each role may do.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleProductManager Role = "PRODUCT_MANAGER"
	RoleSalesManager   Role = "SALES_MANAGER"
	RoleViewer         Role = "VIEWER"
)

// ParseRole validates a role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleProductManager, RoleSalesManager, RoleViewer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }
