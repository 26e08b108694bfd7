package auth

import "hrdocs/internal/model"

// Identity is the authenticated caller of one request.
type Identity struct {
	UserID int64
	Role   model.Role
	Name   string
	// EmployeeID is the linked employee claim; nil when the token carried none.
	EmployeeID *int64
}

// Privileged reports whether the caller may act on every employee's records.
func (i Identity) Privileged() bool {
	return i.Role.Privileged()
}

// Identity converts verified claims into the per-request identity.
func (c *Claims) Identity() Identity {
	return Identity{
		UserID:     c.UserID,
		Role:       c.Role,
		Name:       c.Name,
		EmployeeID: c.EmployeeID,
	}
}
