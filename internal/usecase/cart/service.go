package cart

import (
	"context"
	"errors"

	domainCart "ecommerce-backend/internal/domain/cart"
	domainCatalog "ecommerce-backend/internal/domain/catalog"
	"ecommerce-backend/internal/domain/event"
	"ecommerce-backend/internal/logger"
	appErrors "ecommerce-backend/pkg/errors"
	"ecommerce-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgProductNotFound  = "Product not found"
	msgCartItemNotFound = "Cart item not found"
)

// Service implements the shopping cart of the authenticated user
type Service struct {
	cartRepo    domainCart.Repository
	productRepo domainCatalog.ProductRepository
	publisher   event.Publisher
}

func NewService(cartRepo domainCart.Repository, productRepo domainCatalog.ProductRepository, publisher event.Publisher) *Service {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

func (s *Service) GetCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal(ctx, "Error fetching cart", err)
	}
	return ToCartResponse(items), nil
}

func (s *Service) AddToCart(ctx context.Context, userID uuid.UUID, req *AddToCartRequest) (*CartItemResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Product id is required", err)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := s.ensureProduct(ctx, req.ProductID); err != nil {
		return nil, err
	}

	item, err := s.cartRepo.AddOrIncrement(ctx, &domainCart.Item{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return nil, internal(ctx, "Error adding to cart", err)
	}

	logger.FromContext(ctx).Info("Product added to cart",
		zap.String("user_id", userID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.Int("quantity", item.Quantity),
		zap.String("event", "cart_item_added"),
	)
	return ToCartItemResponse(item), nil
}

// UpdateCartItem sets the quantity of a line. A quantity of zero or less deletes
// the line instead, reported by removed with a nil item.
func (s *Service) UpdateCartItem(ctx context.Context, userID, itemID uuid.UUID, req *UpdateCartItemRequest) (item *CartItemResponse, removed bool, err error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, false, appErrors.Validation("Invalid quantity", err)
	}

	if req.Quantity <= 0 {
		if err := s.RemoveFromCart(ctx, userID, itemID); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	if err := s.cartRepo.UpdateQuantity(ctx, userID, itemID, req.Quantity); err != nil {
		if errors.Is(err, domainCart.ErrCartItemNotFound) {
			return nil, false, appErrors.NotFound(msgCartItemNotFound, err)
		}
		return nil, false, internal(ctx, "Error updating cart item", err)
	}

	updated, err := s.cartRepo.GetByID(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, domainCart.ErrCartItemNotFound) {
			return nil, false, appErrors.NotFound(msgCartItemNotFound, err)
		}
		return nil, false, internal(ctx, "Error updating cart item", err)
	}
	return ToCartItemResponse(updated), false, nil
}

func (s *Service) RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.cartRepo.Delete(ctx, userID, itemID); err != nil {
		if errors.Is(err, domainCart.ErrCartItemNotFound) {
			return appErrors.NotFound(msgCartItemNotFound, err)
		}
		return internal(ctx, "Error removing from cart", err)
	}
	return nil
}

func (s *Service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartRepo.ClearByUser(ctx, userID); err != nil {
		return internal(ctx, "Error clearing cart", err)
	}
	return nil
}

// BuyNow empties the cart, leaves only the requested product in it and marks it ready for checkout.
func (s *Service) BuyNow(ctx context.Context, userID uuid.UUID, req *AddToCartRequest) (*BuyNowResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Product id is required", err)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := s.ensureProduct(ctx, req.ProductID); err != nil {
		return nil, err
	}

	item, err := s.cartRepo.Replace(ctx, &domainCart.Item{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return nil, internal(ctx, "Error processing Buy Now", err)
	}

	e := event.New(event.CartCheckoutReady, map[string]interface{}{
		"user_id":    userID.String(),
		"product_id": req.ProductID.String(),
		"quantity":   item.Quantity,
		"amount":     item.Subtotal().StringFixed(2),
	})
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish event",
			zap.String("type", string(e.Type)),
			zap.Error(err),
			zap.String("event", "event_publish_failed"),
		)
	}

	return &BuyNowResponse{Item: ToCartItemResponse(item), CheckoutReady: true}, nil
}

func (s *Service) ensureProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, domainCatalog.ErrProductNotFound) {
			return appErrors.NotFound(msgProductNotFound, err)
		}
		return internal(ctx, "Error fetching product", err)
	}
	return nil
}

func internal(ctx context.Context, message string, err error) error {
	logger.FromContext(ctx).Error(message, zap.Error(err))
	return appErrors.Internal(message, err)
}
