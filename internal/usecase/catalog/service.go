package catalog

import (
	"context"
	"errors"

	domainCatalog "ecommerce-backend/internal/domain/catalog"
	"ecommerce-backend/internal/logger"
	appErrors "ecommerce-backend/pkg/errors"
	"ecommerce-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgCategoryNotFound = "Category not found"
	msgProductNotFound  = "Product not found"
)

// Service implements catalog browsing and administration
type Service struct {
	categoryRepo domainCatalog.CategoryRepository
	productRepo  domainCatalog.ProductRepository
}

func NewService(categoryRepo domainCatalog.CategoryRepository, productRepo domainCatalog.ProductRepository) *Service {
	return &Service{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *Service) ListCategories(ctx context.Context) ([]*CategoryResponse, error) {
	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, internal(ctx, "Error fetching categories", err)
	}

	resp := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = ToCategoryResponse(c)
	}
	return resp, nil
}

func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	c, err := s.categoryRepo.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainCatalog.ErrCategoryNotFound) {
			return nil, appErrors.NotFound(msgCategoryNotFound, err)
		}
		return nil, internal(ctx, "Error fetching category", err)
	}
	return ToCategoryResponse(c), nil
}

func (s *Service) ListProducts(ctx context.Context) ([]*ProductResponse, error) {
	products, err := s.productRepo.ListActive(ctx)
	if err != nil {
		return nil, internal(ctx, "Error fetching products", err)
	}
	return toProductResponses(products), nil
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.productRepo.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainCatalog.ErrProductNotFound) {
			return nil, appErrors.NotFound(msgProductNotFound, err)
		}
		return nil, internal(ctx, "Error fetching product", err)
	}
	return ToProductResponse(p), nil
}

func (s *Service) ListProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]*ProductResponse, error) {
	products, err := s.productRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, internal(ctx, "Error fetching products by category", err)
	}
	return toProductResponses(products), nil
}

func (s *Service) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*CategoryResponse, error) {
	req.Name = utils.SanitizeString(req.Name)
	req.Description = utils.SanitizeString(req.Description)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Category name is required", err)
	}

	if req.ParentID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.ParentID); err != nil {
			if errors.Is(err, domainCatalog.ErrCategoryNotFound) {
				return nil, appErrors.NotFound("Parent category not found", err)
			}
			return nil, internal(ctx, "Error creating category", err)
		}
	}

	c := &domainCatalog.Category{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    req.IsActive == nil || *req.IsActive,
		ParentID:    req.ParentID,
	}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		if errors.Is(err, domainCatalog.ErrCategoryAlreadyExists) {
			return nil, appErrors.Conflict("Category already exists", err)
		}
		return nil, internal(ctx, "Error creating category", err)
	}

	logger.FromContext(ctx).Info("Category created",
		zap.String("category_id", c.ID.String()),
		zap.String("name", c.Name),
		zap.String("event", "category_created"),
	)
	return ToCategoryResponse(c), nil
}

func (s *Service) CreateProduct(ctx context.Context, req *CreateProductRequest) (*ProductResponse, error) {
	req.Name = utils.SanitizeString(req.Name)
	req.Description = utils.SanitizeString(req.Description)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid product data", err)
	}
	if !req.Price.IsPositive() {
		return nil, appErrors.Validation("Price must be greater than zero", appErrors.ErrInvalidInput)
	}
	if req.OriginalPrice != nil && req.OriginalPrice.IsNegative() {
		return nil, appErrors.Validation("Original price cannot be negative", appErrors.ErrInvalidInput)
	}

	category, err := s.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, domainCatalog.ErrCategoryNotFound) {
			return nil, appErrors.NotFound(msgCategoryNotFound, err)
		}
		return nil, internal(ctx, "Error creating product", err)
	}

	p := &domainCatalog.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price.Round(2),
		OriginalPrice: req.OriginalPrice,
		Image:         req.Image,
		Images:        req.Images,
		CategoryID:    category.ID,
		Category:      category,
		Stock:         req.Stock,
		IsActive:      req.IsActive == nil || *req.IsActive,
		Tags:          req.Tags,
		AnimeSeries:   req.AnimeSeries,
		Character:     req.Character,
		Size:          req.Size,
		Material:      req.Material,
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, internal(ctx, "Error creating product", err)
	}

	logger.FromContext(ctx).Info("Product created",
		zap.String("product_id", p.ID.String()),
		zap.String("category_id", category.ID.String()),
		zap.String("event", "product_created"),
	)
	return ToProductResponse(p), nil
}

func toProductResponses(products []*domainCatalog.Product) []*ProductResponse {
	resp := make([]*ProductResponse, len(products))
	for i, p := range products {
		resp[i] = ToProductResponse(p)
	}
	return resp
}

func internal(ctx context.Context, message string, err error) error {
	logger.FromContext(ctx).Error(message, zap.Error(err))
	return appErrors.Internal(message, err)
}
