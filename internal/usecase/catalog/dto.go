package catalog

import (
	"time"

	domainCatalog "ecommerce-backend/internal/domain/catalog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateCategoryRequest struct {
	Name        string     `json:"name" validate:"required,max=255"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	Image       string     `json:"image" validate:"omitempty,max=500"`
	IsActive    *bool      `json:"isActive"`
	ParentID    *uuid.UUID `json:"parentId"`
}

type CreateProductRequest struct {
	Name          string           `json:"name" validate:"required,max=255"`
	Description   string           `json:"description" validate:"omitempty,max=5000"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Image         string           `json:"image" validate:"omitempty,max=500"`
	Images        []string         `json:"images" validate:"omitempty,dive,max=500"`
	CategoryID    uuid.UUID        `json:"categoryId" validate:"required"`
	Stock         int              `json:"stock" validate:"gte=0"`
	IsActive      *bool            `json:"isActive"`
	Tags          []string         `json:"tags" validate:"omitempty,dive,max=100"`
	AnimeSeries   string           `json:"animeSeries" validate:"omitempty,max=255"`
	Character     string           `json:"character" validate:"omitempty,max=255"`
	Size          string           `json:"size" validate:"omitempty,max=100"`
	Material      string           `json:"material" validate:"omitempty,max=255"`
}

type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	IsActive    bool       `json:"isActive"`
	ParentID    *uuid.UUID `json:"parentId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CategorySummary is the category as embedded in product listings.
type CategorySummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image string    `json:"image"`
}

type ProductResponse struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Image         string           `json:"image"`
	Images        []string         `json:"images"`
	CategoryID    uuid.UUID        `json:"categoryId"`
	Category      *CategorySummary `json:"category,omitempty"`
	Stock         int              `json:"stock"`
	IsActive      bool             `json:"isActive"`
	Tags          []string         `json:"tags"`
	AnimeSeries   string           `json:"animeSeries"`
	Character     string           `json:"character"`
	Size          string           `json:"size"`
	Material      string           `json:"material"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func ToCategoryResponse(c *domainCatalog.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{
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

func ToProductResponse(p *domainCatalog.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	resp := &ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		Images:        nonNil(p.Images),
		CategoryID:    p.CategoryID,
		Stock:         p.Stock,
		IsActive:      p.IsActive,
		Tags:          nonNil(p.Tags),
		AnimeSeries:   p.AnimeSeries,
		Character:     p.Character,
		Size:          p.Size,
		Material:      p.Material,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Category != nil {
		resp.Category = &CategorySummary{ID: p.Category.ID, Name: p.Category.Name, Image: p.Category.Image}
	}
	return resp
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
