package model

import "strings"

// Role is the closed set of account roles. Values are the wire strings stored in
// users.rol and carried in the "rol" token claim.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleManager       Role = "gerente"
	RoleOwner         Role = "propietario"
	RoleHR            Role = "recursos_humanos"
	RoleYardLead      Role = "supervisor_patio"
	RolePulpMiller    Role = "moledor_pasta"
	RoleYardAssistant Role = "auxiliar_patio"
)

// Roles lists every valid role in display order.
var Roles = []Role{
	RoleAdmin,
	RoleManager,
	RoleOwner,
	RoleHR,
	RoleYardLead,
	RolePulpMiller,
	RoleYardAssistant,
}

// PrivilegedRoles may act on every employee's documents and manage accounts.
var PrivilegedRoles = []Role{RoleAdmin, RoleManager, RoleOwner, RoleHR}

// ParseRole normalizes s and reports whether it names a known role.
// "rrhh" is accepted as the legacy spelling of RoleHR.
func ParseRole(s string) (Role, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "rrhh" {
		return RoleHR, true
	}
	for _, r := range Roles {
		if string(r) == norm {
			return r, true
		}
	}
	return "", false
}

// Privileged reports whether r belongs to PrivilegedRoles.
func (r Role) Privileged() bool {
	for _, p := range PrivilegedRoles {
		if r == p {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }
