package cart

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Item, error)
	// GetByID only returns lines owned by userID.
	GetByID(ctx context.Context, userID, itemID uuid.UUID) (*Item, error)
	// AddOrIncrement creates the line or adds item.Quantity to the existing one and returns the stored line.
	AddOrIncrement(ctx context.Context, item *Item) (*Item, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
	ClearByUser(ctx context.Context, userID uuid.UUID) error
	// Replace clears the user's cart and stores item as its only line.
	Replace(ctx context.Context, item *Item) (*Item, error)
}
