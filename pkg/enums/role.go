package enums

// UserRole is the actor role carried in access-token claims.
type UserRole string

const (
	RoleCustomer UserRole = "cliente"
	RoleSeller   UserRole = "vendedor"
	RoleAdmin    UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role may manage orders it does not own.
func (r UserRole) IsStaff() bool {
	return r == RoleSeller || r == RoleAdmin
}
