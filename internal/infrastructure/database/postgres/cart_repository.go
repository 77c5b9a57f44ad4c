package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce-backend/internal/domain/cart"
	"ecommerce-backend/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository implements cart.Repository on gorm
type CartRepository struct {
	db *DB
}

func NewCartRepository(db *DB) cart.Repository {
	return &CartRepository{db: db}
}

func (r *CartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*cart.Item, error) {
	var dbModels []models.CartItemModel
	err := r.db.DB.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	items := make([]*cart.Item, len(dbModels))
	for i := range dbModels {
		items[i] = toCartItemEntity(&dbModels[i])
	}
	return items, nil
}

func (r *CartRepository) GetByID(ctx context.Context, userID, itemID uuid.UUID) (*cart.Item, error) {
	return r.first(r.db.DB.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID))
}

func (r *CartRepository) first(query *gorm.DB) (*cart.Item, error) {
	var dbModel models.CartItemModel
	err := query.Preload("Product").First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, cart.ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}

	return toCartItemEntity(&dbModel), nil
}

func (r *CartRepository) AddOrIncrement(ctx context.Context, item *cart.Item) (*cart.Item, error) {
	if err := addOrIncrement(r.db.DB.WithContext(ctx), item); err != nil {
		return nil, err
	}
	return r.first(r.db.DB.WithContext(ctx).Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID))
}

func addOrIncrement(db *gorm.DB, item *cart.Item) error {
	now := time.Now()
	dbModel := &models.CartItemModel{
		ID:        uuid.New(),
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
			"updated_at": now,
		}),
	}).Create(dbModel).Error
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	result := r.db.DB.WithContext(ctx).Model(&models.CartItemModel{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).Delete(&models.CartItemModel{}, "id = ? AND user_id = ?", itemID, userID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}
	return nil
}

func (r *CartRepository) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	if err := r.db.DB.WithContext(ctx).Delete(&models.CartItemModel{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (r *CartRepository) Replace(ctx context.Context, item *cart.Item) (*cart.Item, error) {
	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CartItemModel{}, "user_id = ?", item.UserID).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return addOrIncrement(tx, item)
	})
	if err != nil {
		return nil, err
	}
	return r.first(r.db.DB.WithContext(ctx).Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID))
}

func toCartItemEntity(m *models.CartItemModel) *cart.Item {
	item := &cart.Item{
		ID:        m.ID,
		UserID:    m.UserID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Product != nil {
		item.Product = toProductEntity(m.Product)
	}
	return item
}
