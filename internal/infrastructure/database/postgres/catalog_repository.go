package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce-backend/internal/domain/catalog"
	"ecommerce-backend/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepository implements catalog.CategoryRepository on gorm
type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) catalog.CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *catalog.Category) error {
	now := time.Now()
	c.ID = uuid.New()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := r.db.DB.WithContext(ctx).Create(toCategoryModel(c)).Error; err != nil {
		if isUniqueViolation(err) {
			return catalog.ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	return r.first(r.db.DB.WithContext(ctx).Where("id = ?", id))
}

func (r *CategoryRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	return r.first(r.db.DB.WithContext(ctx).Where("id = ? AND is_active = ?", id, true))
}

func (r *CategoryRepository) first(query *gorm.DB) (*catalog.Category, error) {
	var dbModel models.CategoryModel
	err := query.First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return toCategoryEntity(&dbModel), nil
}

func (r *CategoryRepository) ListActive(ctx context.Context) ([]*catalog.Category, error) {
	var dbModels []models.CategoryModel
	err := r.db.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]*catalog.Category, len(dbModels))
	for i := range dbModels {
		categories[i] = toCategoryEntity(&dbModels[i])
	}
	return categories, nil
}

// ProductRepository implements catalog.ProductRepository on gorm
type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) catalog.ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	now := time.Now()
	p.ID = uuid.New()
	p.CreatedAt = now
	p.UpdatedAt = now

	dbModel := toProductModel(p)
	if err := r.db.DB.WithContext(ctx).Omit("Category").Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.first(r.withCategory(ctx).Where("products.id = ?", id))
}

func (r *ProductRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.first(r.withCategory(ctx).Where("products.id = ? AND products.is_active = ?", id, true))
}

func (r *ProductRepository) ListActive(ctx context.Context) ([]*catalog.Product, error) {
	return r.find(r.withCategory(ctx).
		Where("products.is_active = ?", true).
		Order("products.created_at DESC"))
}

func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*catalog.Product, error) {
	return r.find(r.withCategory(ctx).
		Where("products.category_id = ?", categoryID).
		Order("products.name ASC"))
}

func (r *ProductRepository) withCategory(ctx context.Context) *gorm.DB {
	return r.db.DB.WithContext(ctx).Preload("Category", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "image")
	})
}

func (r *ProductRepository) first(query *gorm.DB) (*catalog.Product, error) {
	var dbModel models.ProductModel
	err := query.First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return toProductEntity(&dbModel), nil
}

func (r *ProductRepository) find(query *gorm.DB) ([]*catalog.Product, error) {
	var dbModels []models.ProductModel
	if err := query.Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*catalog.Product, len(dbModels))
	for i := range dbModels {
		products[i] = toProductEntity(&dbModels[i])
	}
	return products, nil
}

func toCategoryModel(c *catalog.Category) *models.CategoryModel {
	return &models.CategoryModel{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
		IsActive:    c.IsActive,
		ParentID:    c.ParentID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCategoryEntity(m *models.CategoryModel) *catalog.Category {
	return &catalog.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Image:       m.Image,
		IsActive:    m.IsActive,
		ParentID:    m.ParentID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toProductModel(p *catalog.Product) *models.ProductModel {
	return &models.ProductModel{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		Images:        models.StringList(p.Images),
		CategoryID:    p.CategoryID,
		Stock:         p.Stock,
		IsActive:      p.IsActive,
		Tags:          models.StringList(p.Tags),
		AnimeSeries:   p.AnimeSeries,
		Character:     p.Character,
		Size:          p.Size,
		Material:      p.Material,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toProductEntity(m *models.ProductModel) *catalog.Product {
	p := &catalog.Product{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		Price:         m.Price,
		OriginalPrice: m.OriginalPrice,
		Image:         m.Image,
		Images:        []string(m.Images),
		CategoryID:    m.CategoryID,
		Stock:         m.Stock,
		IsActive:      m.IsActive,
		Tags:          []string(m.Tags),
		AnimeSeries:   m.AnimeSeries,
		Character:     m.Character,
		Size:          m.Size,
		Material:      m.Material,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Category != nil {
		p.Category = toCategoryEntity(m.Category)
	}
	return p
}
