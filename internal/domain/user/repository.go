package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user repository operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByLogin finds a user whose email or mobile equals identifier.
	GetByLogin(ctx context.Context, identifier string) (*User, error)
	GetByIdentifier(ctx context.Context, id Identifier) (*User, error)
	// GetByRefreshToken finds the user only while token is the stored refresh token.
	GetByRefreshToken(ctx context.Context, userID uuid.UUID, token string) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)

	// ResetRegistration overwrites name, mobile and password and clears the verified flag.
	ResetRegistration(ctx context.Context, user *User) error
	MarkVerified(ctx context.Context, userID uuid.UUID) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	SetRefreshToken(ctx context.Context, userID uuid.UUID, token string) error
}
