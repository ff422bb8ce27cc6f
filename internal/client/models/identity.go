// Package models defines the client-side view of Revline backend records:
// roles, role-specific identity records, and permission grants. The backend
// owns true storage; these types only mirror what the API sends.
package models

import "encoding/json"

// Permission is a single named capability granted to an admin role.
type Permission struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// RoleGrant is a named admin role with its nested permissions, as
// returned by GET /auth/me.
type RoleGrant struct {
	ID          int64        `json:"id,omitempty"`
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions,omitempty"`
}

// AdminUser is the identity record for the admin portal.
type AdminUser struct {
	ID          int64        `json:"id"`
	UUID        string       `json:"uuid,omitempty"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Avatar      string       `json:"avatar,omitempty"`
	IsActive    bool         `json:"is_active"`
	DeletedAt   *string      `json:"deleted_at,omitempty"`
	Roles       []RoleGrant  `json:"roles,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`
}

// Seller is the identity record for the seller portal.
type Seller struct {
	ID                   int64   `json:"id"`
	UUID                 string  `json:"uuid,omitempty"`
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Phone                string  `json:"phone,omitempty"`
	CommissionPercentage float64 `json:"commission_percentage,omitempty"`
	CompanyLogo          string  `json:"company_logo,omitempty"`
}

// Mechanic is the identity record for the mechanic portal.
type Mechanic struct {
	ID         int64   `json:"id"`
	UUID       string  `json:"uuid,omitempty"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone,omitempty"`
	Specialty  string  `json:"specialty,omitempty"`
	HourlyRate float64 `json:"hourly_rate,omitempty"`
}

// Investor is the identity record for the investor portal.
type Investor struct {
	ID            int64   `json:"id"`
	UUID          string  `json:"uuid,omitempty"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone,omitempty"`
	TotalInvested float64 `json:"total_invested,omitempty"`
}

// Identity is the role-discriminated identity record held alongside the
// session token. Exactly one field is non-nil, matching the active role.
type Identity struct {
	Admin    *AdminUser `json:"admin,omitempty"`
	Seller   *Seller    `json:"seller,omitempty"`
	Mechanic *Mechanic  `json:"mechanic,omitempty"`
	Investor *Investor  `json:"investor,omitempty"`
}

// IsZero reports whether no identity record is held.
func (i Identity) IsZero() bool {
	return i.Admin == nil && i.Seller == nil && i.Mechanic == nil && i.Investor == nil
}

// DisplayName returns the name of whichever record is held, or "".
func (i Identity) DisplayName() string {
	switch {
	case i.Admin != nil:
		return i.Admin.Name
	case i.Seller != nil:
		return i.Seller.Name
	case i.Mechanic != nil:
		return i.Mechanic.Name
	case i.Investor != nil:
		return i.Investor.Name
	}
	return ""
}

// Role reports which role the held record belongs to.
func (i Identity) Role() Role {
	switch {
	case i.Admin != nil:
		return RoleAdmin
	case i.Seller != nil:
		return RoleSeller
	case i.Mechanic != nil:
		return RoleMechanic
	case i.Investor != nil:
		return RoleInvestor
	}
	return RoleNone
}

// DecodeIdentity unmarshals a role-specific data bag into an Identity for
// the given role.
func DecodeIdentity(role Role, raw json.RawMessage) (Identity, error) {
	var id Identity
	var err error
	switch role {
	case RoleAdmin:
		id.Admin = &AdminUser{}
		err = json.Unmarshal(raw, id.Admin)
	case RoleSeller:
		id.Seller = &Seller{}
		err = json.Unmarshal(raw, id.Seller)
	case RoleMechanic:
		id.Mechanic = &Mechanic{}
		err = json.Unmarshal(raw, id.Mechanic)
	case RoleInvestor:
		id.Investor = &Investor{}
		err = json.Unmarshal(raw, id.Investor)
	}
	if err != nil {
		return Identity{}, err
	}
	return id, nil
}
