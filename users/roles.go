package users

import (
	"fmt"
	"strings"

	"github.com/redsource/redsource-server/internal/errors"
)

// RoleType is the closed set of account types
type RoleType string

const (
	RoleDonor     RoleType = "DONOR"
	RoleBloodBank RoleType = "BLOODBANK"
	RoleHospital  RoleType = "HOSPITAL"
	RoleAdmin     RoleType = "ADMIN"
)

const rolePrefix = "ROLE_"

// Permission strings granted through roles
const (
	PermDonorRead   = "donor:read"
	PermDonorUpdate = "donor:update"

	PermBloodBankRead   = "bloodbank:read"
	PermBloodBankWrite  = "bloodbank:write"
	PermBloodBankUpdate = "bloodbank:update"
	PermBloodBankDelete = "bloodbank:delete"

	PermHospitalRead   = "hospital:read"
	PermHospitalWrite  = "hospital:write"
	PermHospitalUpdate = "hospital:update"

	PermAdminRead   = "admin:read"
	PermAdminWrite  = "admin:write"
	PermAdminUpdate = "admin:update"
	PermAdminDelete = "admin:delete"
)

var ErrInvalidRole = fmt.Errorf("unknown role: %w", errors.ErrInvalidRequest)

// rolePermissions is fixed at init; Authorities reads it without locking.
var rolePermissions = map[RoleType][]string{
	RoleDonor:     {PermDonorRead, PermDonorUpdate},
	RoleBloodBank: {PermBloodBankRead, PermBloodBankWrite, PermBloodBankUpdate, PermBloodBankDelete},
	RoleHospital:  {PermHospitalRead, PermHospitalWrite, PermHospitalUpdate},
	RoleAdmin:     {PermAdminRead, PermAdminWrite, PermAdminUpdate, PermAdminDelete},
}

// Roles lists every valid role.
func Roles() []RoleType {
	return []RoleType{RoleDonor, RoleBloodBank, RoleHospital, RoleAdmin}
}

// ParseRole maps a case-insensitive role name onto the enum.
func ParseRole(s string) (RoleType, error) {
	role := RoleType(strings.ToUpper(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidRole)
	}
	return role, nil
}

func (r RoleType) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Authority returns the role authority string, e.g. ROLE_DONOR.
func (r RoleType) Authority() string {
	return rolePrefix + string(r)
}

// Authorities returns ROLE_<role> followed by the role's permissions in table
// order. Unknown roles have no authorities.
func Authorities(role RoleType) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	authorities := make([]string, 0, len(perms)+1)
	authorities = append(authorities, role.Authority())
	return append(authorities, perms...)
}
