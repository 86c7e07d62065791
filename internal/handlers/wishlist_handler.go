package handlers

import (
	"net/http"

	"storefront/internal/dto"
	"storefront/internal/middleware"
	"storefront/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WishlistHandler struct {
	wishlists repository.WishlistRepo
	products  repository.ProductRepo
	log       *zap.Logger
}

func NewWishlistHandler(wishlists repository.WishlistRepo, products repository.ProductRepo, log *zap.Logger) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists, products: products, log: log}
}

func (h *WishlistHandler) List(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError(""))
		return
	}

	items, err := h.wishlists.ListProductsByUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Wishlist listing failed", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *WishlistHandler) Add(c *gin.Context) {
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

	if err := h.wishlists.Add(c.Request.Context(), userID, productID); err != nil {
		h.log.Error("Wishlist add failed", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Product added to your wishlist"})
}

func (h *WishlistHandler) Remove(c *gin.Context) {
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

	removed, err := h.wishlists.Remove(c.Request.Context(), userID, productID)
	if err != nil {
		h.log.Error("Wishlist remove failed", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("product is not in the wishlist"))
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Product removed from your wishlist"})
}
