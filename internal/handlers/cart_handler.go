package handlers

import (
	"fmt"
	"net/http"

	"storefront/internal/cart"
	"storefront/internal/dto"
	"storefront/internal/middleware"
	"storefront/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartHandler struct {
	cart     *cart.Service
	products repository.ProductRepo
	log      *zap.Logger
}

func NewCartHandler(cartSvc *cart.Service, products repository.ProductRepo, log *zap.Logger) *CartHandler {
	return &CartHandler{cart: cartSvc, products: products, log: log}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError(""))
		return
	}

	items, err := h.cart.Items(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Cart read failed", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, dto.NewCartResponse(items, ""))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError(""))
		return
	}

	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product_id", []dto.FieldError{}))
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.log.Error("Product lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("product not found"))
		return
	}

	items, err := h.cart.Add(c.Request.Context(), userID, cart.Normalize(*product), req.Quantity)
	if err != nil {
		h.log.Error("Cart add failed", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, dto.NewCartResponse(items, fmt.Sprintf("%s added to your cart", product.Name)))
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError(""))
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", []dto.FieldError{}))
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	items, err := h.cart.UpdateQuantity(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		h.log.Error("Cart update failed", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, dto.NewCartResponse(items, ""))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError(""))
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", []dto.FieldError{}))
		return
	}

	items, err := h.cart.Remove(c.Request.Context(), userID, productID)
	if err != nil {
		h.log.Error("Cart remove failed", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, dto.NewCartResponse(items, "Item removed from your cart"))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError(""))
		return
	}

	if err := h.cart.Clear(c.Request.Context(), userID); err != nil {
		h.log.Error("Cart clear failed", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, dto.NewCartResponse([]cart.CartItem{}, "Your cart has been cleared"))
}
