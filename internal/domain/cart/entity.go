package cart

import (
	"time"

	"ecommerce-backend/internal/domain/catalog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one cart line. A user holds at most one line per product.
type Item struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Product   *catalog.Product
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subtotal is quantity times the product price, or zero when the product is not loaded.
func (i *Item) Subtotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums the subtotals of items.
func Total(items []*Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
