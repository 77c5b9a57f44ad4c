package cart

import (
	"time"

	domainCart "ecommerce-backend/internal/domain/cart"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=0,lte=1000"`
}

// UpdateCartItemRequest sets a line's quantity. Zero or less removes the line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"lte=1000"`
}

type ProductSummary struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

type CartItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Product   *ProductSummary `json:"product,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type CartResponse struct {
	Items       []*CartItemResponse `json:"items"`
	TotalAmount decimal.Decimal     `json:"totalAmount"`
	TotalItems  int                 `json:"totalItems"`
}

type BuyNowResponse struct {
	Item          *CartItemResponse `json:"item"`
	CheckoutReady bool              `json:"checkoutReady"`
}

func ToCartItemResponse(item *domainCart.Item) *CartItemResponse {
	if item == nil {
		return nil
	}
	resp := &CartItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Subtotal:  item.Subtotal(),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if p := item.Product; p != nil {
		resp.Product = &ProductSummary{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
			Image:       p.Image,
		}
	}
	return resp
}

func ToCartResponse(items []*domainCart.Item) *CartResponse {
	resp := &CartResponse{
		Items:       make([]*CartItemResponse, len(items)),
		TotalAmount: domainCart.Total(items),
		TotalItems:  len(items),
	}
	for i, item := range items {
		resp.Items[i] = ToCartItemResponse(item)
	}
	return resp
}
