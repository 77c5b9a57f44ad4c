package user

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the access level of a user
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// User represents an account in the domain.
// RefreshToken holds the only refresh token currently accepted for the user.
type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	Mobile         string
	PasswordHashed string
	Role           Role
	IsVerified     bool
	RefreshToken   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
