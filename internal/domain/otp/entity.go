package otp

import (
	"time"

	"github.com/google/uuid"
)

type Purpose string

const (
	PurposeSignup        Purpose = "Signup"
	PurposePasswordReset Purpose = "PasswordReset"
)

// Record is a one-time code. Validity is decided by ExpiresAt at the moment it is consulted.
type Record struct {
	ID        uuid.UUID
	Email     string
	Mobile    string
	Code      string
	Purpose   Purpose
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (r *Record) IsExpired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
