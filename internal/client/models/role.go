package models

// Role is one of the four mutually exclusive user types the client
// authenticates as. The zero value means "not logged in".
type Role string

const (
	RoleNone     Role = ""
	RoleAdmin    Role = "admin"
	RoleSeller   Role = "seller"
	RoleMechanic Role = "mechanic"
	RoleInvestor Role = "investor"
)

// SuperAdminRole short-circuits every permission check to true.
const SuperAdminRole = "super-admin"

// ParseRole maps a backend user_type discriminator to a Role.
// ok is false for missing or unrecognized values.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleSeller, RoleMechanic, RoleInvestor:
		return Role(s), true
	default:
		return RoleNone, false
	}
}
