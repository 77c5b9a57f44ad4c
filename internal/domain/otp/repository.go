package otp

import (
	"context"
	"time"

	"ecommerce-backend/internal/domain/user"
)

type Repository interface {
	// UpsertSignup replaces any pending signup code for the record's email.
	UpsertSignup(ctx context.Context, record *Record) error
	Create(ctx context.Context, record *Record) error
	// FindValid returns a code matching id, code and purpose that expires after now.
	// Inside a transaction the returned row stays locked until commit.
	FindValid(ctx context.Context, id user.Identifier, code string, purpose Purpose, now time.Time) (*Record, error)
	// DeleteByIdentifier removes every record selected by id, whatever its purpose.
	DeleteByIdentifier(ctx context.Context, id user.Identifier) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
