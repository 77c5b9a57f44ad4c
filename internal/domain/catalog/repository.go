package catalog

import (
	"context"

	"github.com/google/uuid"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*Category, error)
	ListActive(ctx context.Context) ([]*Category, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*Product, error)
	ListActive(ctx context.Context) ([]*Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*Product, error)
}
