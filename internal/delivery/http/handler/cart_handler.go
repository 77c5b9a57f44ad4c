package handler

import (
	"context"
	"net/http"

	"ecommerce-backend/internal/middleware"
	"ecommerce-backend/internal/usecase/cart"
	"ecommerce-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*cart.CartResponse, error)
	AddToCart(ctx context.Context, userID uuid.UUID, req *cart.AddToCartRequest) (*cart.CartItemResponse, error)
	UpdateCartItem(ctx context.Context, userID, itemID uuid.UUID, req *cart.UpdateCartItemRequest) (item *cart.CartItemResponse, removed bool, err error)
	RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
	BuyNow(ctx context.Context, userID uuid.UUID, req *cart.AddToCartRequest) (*cart.BuyNowResponse, error)
}

type CartHandler struct {
	service CartService
}

func NewCartHandler(service CartService) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	cartGroup := router.Group("/cart")
	{
		cartGroup.GET("", h.GetCart)
		cartGroup.POST("/add", h.AddToCart)
		cartGroup.POST("/buy-now", h.BuyNow)
		cartGroup.PUT("/update/:id", h.UpdateCartItem)
		cartGroup.DELETE("/remove/:id", h.RemoveFromCart)
		cartGroup.DELETE("/clear", h.ClearCart)
	}
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
	}
	return userID, ok
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	resp, err := h.service.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", resp)
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.service.AddToCart(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Product added to cart successfully", item)
}

func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "id", "Invalid cart item ID")
	if !ok {
		return
	}

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, removed, err := h.service.UpdateCartItem(c.Request.Context(), userID, itemID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if removed {
		utils.SuccessResponse(c, http.StatusOK, "Item removed from cart", nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cart item updated successfully", item)
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "id", "Invalid cart item ID")
	if !ok {
		return
	}

	if err := h.service.RemoveFromCart(c.Request.Context(), userID, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Item removed from cart successfully", nil)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.service.ClearCart(c.Request.Context(), userID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cart cleared successfully", nil)
}

func (h *CartHandler) BuyNow(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.BuyNow(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ready for checkout", resp)
}
