package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	UserSignupRequested Type = "user.signup_requested"
	UserVerified        Type = "user.verified"
	UserPasswordReset   Type = "user.password_reset"
	CartCheckoutReady   Type = "cart.checkout_ready"
)

type Event struct {
	ID         string                 `json:"id"`
	Type       Type                   `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}

func New(t Type, payload map[string]interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

//go:generate mockgen -destination=mocks/mock_publisher.go -package=mocks ecommerce-backend/internal/domain/event Publisher

// Publisher delivers domain events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
