package handler

import (
	"context"
	"net/http"

	"ecommerce-backend/internal/usecase/catalog"
	"ecommerce-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogService interface {
	ListCategories(ctx context.Context) ([]*catalog.CategoryResponse, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*catalog.CategoryResponse, error)
	ListProducts(ctx context.Context) ([]*catalog.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.ProductResponse, error)
	ListProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]*catalog.ProductResponse, error)
	CreateCategory(ctx context.Context, req *catalog.CreateCategoryRequest) (*catalog.CategoryResponse, error)
	CreateProduct(ctx context.Context, req *catalog.CreateProductRequest) (*catalog.ProductResponse, error)
}

type CatalogHandler struct {
	service CatalogService
}

func NewCatalogHandler(service CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategory)
	}

	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/category/:id", h.ListProductsByCategory)
		products.GET("/:id", h.GetProduct)
	}
}

func (h *CatalogHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.POST("/categories", h.CreateCategory)
	router.POST("/products", h.CreateProduct)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", categories)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid category ID")
	if !ok {
		return
	}

	category, err := h.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Category retrieved successfully", category)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid product ID")
	if !ok {
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *CatalogHandler) ListProductsByCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid category ID")
	if !ok {
		return
	}

	products, err := h.service.ListProductsByCategory(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req catalog.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Category created successfully", category)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req catalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Product created successfully", product)
}
