// Package perms gates UI actions on the active identity's roles and
// permissions. All checks are pure functions over a session snapshot:
// nothing here talks to the backend or mutates state.
//
// Fine-grained permissions only exist for the admin portal. Seller,
// mechanic, and investor screens are gated by role identity alone, so
// every check below answers false for them regardless of any role- or
// permission-shaped data on their records.
package perms

import (
	"github.com/revline/revline-go/internal/client/models"
)

// HasRole reports whether the active identity is an admin whose role-name
// list contains name.
func HasRole(identity models.Identity, name string) bool {
	if identity.Admin == nil {
		return false
	}
	for _, grant := range identity.Admin.Roles {
		if grant.Name == name {
			return true
		}
	}
	return false
}

// Can reports whether the active identity holds the permission. Admins
// whose roles include super-admin pass every check, granted or not.
func Can(identity models.Identity, permission string) bool {
	if identity.Admin == nil {
		return false
	}
	if HasRole(identity, models.SuperAdminRole) {
		return true
	}
	_, ok := permissionSet(identity.Admin)[permission]
	return ok
}

// CanAny reports whether the active identity holds at least one of the
// requested permissions, with the same super-admin short-circuit as Can.
func CanAny(identity models.Identity, permissions ...string) bool {
	if identity.Admin == nil {
		return false
	}
	if HasRole(identity, models.SuperAdminRole) {
		return true
	}
	held := permissionSet(identity.Admin)
	for _, p := range permissions {
		if _, ok := held[p]; ok {
			return true
		}
	}
	return false
}

// permissionSet flattens roles[].permissions plus any directly attached
// permissions into one name set.
func permissionSet(admin *models.AdminUser) map[string]struct{} {
	set := make(map[string]struct{})
	for _, grant := range admin.Roles {
		for _, p := range grant.Permissions {
			set[p.Name] = struct{}{}
		}
	}
	for _, p := range admin.Permissions {
		set[p.Name] = struct{}{}
	}
	return set
}
