package domain

import "errors"

// Principal is the authenticated caller of a request.
type Principal struct {
	ID    string
	Email string
	Role  Role
}

// Role represents a caller's access level
type Role string

const (
	// RoleAdmin can add and remove ledger entries
	RoleAdmin Role = "admin"

	// RoleOperator can add ledger entries
	RoleOperator Role = "operator"

	// RoleViewer can only read balances and reports
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleOperator: true,
	RoleViewer:   true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanCreate checks if the role can add entries
func (r Role) CanCreate() bool {
	return r == RoleAdmin || r == RoleOperator
}

// CanDelete checks if the role can remove entries
func (r Role) CanDelete() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
