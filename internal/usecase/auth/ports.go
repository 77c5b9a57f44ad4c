package auth

import (
	"context"
	"fmt"
	"time"

	"ecommerce-backend/internal/domain/otp"
	domainUser "ecommerce-backend/internal/domain/user"
)

//go:generate mockgen -destination=mocks/mock_ports.go -package=mocks ecommerce-backend/internal/usecase/auth Notifier

// Notifier delivers a message to a user's email address.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// TxRunner runs fn inside one database transaction with repositories bound to it.
type TxRunner interface {
	Run(ctx context.Context, fn func(users domainUser.Repository, otps otp.Repository) error) error
}

const otpSubject = "Your OTP Code"

func otpBody(code string, ttl time.Duration) string {
	return fmt.Sprintf("<p>Your OTP is <b>%s</b>. It expires in %d minutes.</p>", code, int(ttl.Minutes()))
}
