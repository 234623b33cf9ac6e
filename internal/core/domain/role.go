package domain

import (
	"errors"
	"fmt"
)

// Role is the single access role a principal holds at any time.
type Role string

const (
	RoleGrowers         Role = "growers"
	RolePackingEmployee Role = "packing_employee" // quality control
	RoleManagement      Role = "management"
	RoleSanitation      Role = "sanitation"
	RoleAdmin           Role = "admin"
)

// DefaultSignUpRole is given to self-registered accounts until an admin changes it.
const DefaultSignUpRole = RoleGrowers

// ErrInvalidRole is returned when a string is not one of the known roles.
var ErrInvalidRole = errors.New("invalid role")

// AllRoles lists the closed role set in display order.
var AllRoles = []Role{
	RoleGrowers,
	RolePackingEmployee,
	RoleManagement,
	RoleSanitation,
	RoleAdmin,
}

var roleLabels = map[Role]string{
	RoleGrowers:         "Growers",
	RolePackingEmployee: "Packing Employee",
	RoleManagement:      "Management",
	RoleSanitation:      "Sanitation",
	RoleAdmin:           "Admin",
}

var roleLandingPaths = map[Role]string{
	RoleGrowers:         "/growers",
	RolePackingEmployee: "/packing-employee",
	RoleManagement:      "/management",
	RoleSanitation:      "/sanitation",
	RoleAdmin:           "/admin/users",
}

// ParseRole validates s against the closed role set. It never coerces.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

func (r Role) IsValid() bool {
	_, ok := roleLabels[r]
	return ok
}

// Label returns the human readable name, or "" for an invalid role.
func (r Role) Label() string {
	return roleLabels[r]
}

// LandingPath returns the default page for the role, or "" for an invalid role.
func (r Role) LandingPath() string {
	return roleLandingPaths[r]
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// CanAccess reports whether a principal holding acting may view target's pages.
// Admin sees everything, management everything except admin, everyone else only their own.
func CanAccess(acting, target Role) bool {
	switch acting {
	case RoleAdmin:
		return true
	case RoleManagement:
		return target != RoleAdmin
	default:
		return acting == target
	}
}
