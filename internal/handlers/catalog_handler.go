package handlers

import (
	"net/http"
	"strconv"

	"storefront/internal/dto"
	"storefront/internal/models"
	"storefront/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const relatedProductsLimit = 4

type CatalogHandler struct {
	products   repository.ProductRepo
	categories repository.CategoryRepo
	log        *zap.Logger
}

func NewCatalogHandler(products repository.ProductRepo, categories repository.CategoryRepo, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{products: products, categories: categories, log: log}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	f := repository.ProductListFilter{
		Query:  c.Query("q"),
		Limit:  atoiQuery(c, "limit", 20),
		Offset: atoiQuery(c, "offset", 0),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid category_id", []dto.FieldError{}))
			return
		}
		f.CategoryID = &id
	}
	if raw := c.Query("featured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid featured flag", []dto.FieldError{}))
			return
		}
		f.Featured = &v
	}

	items, total, err := h.products.List(c.Request.Context(), f)
	if err != nil {
		h.log.Error("Product listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"total":  total,
		"limit":  f.Limit,
		"offset": f.Offset,
	})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", []dto.FieldError{}))
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Product lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("product not found"))
		return
	}

	related := []models.Product{}
	// Выбираем на один больше лимита, чтобы после исключения самого товара осталось до 4 позиций.
	candidates, err := h.products.ListByCategory(c.Request.Context(), product.CategoryID, relatedProductsLimit+1)
	if err != nil {
		h.log.Warn("Related products lookup failed", zap.String("product_id", id.String()), zap.Error(err))
	} else {
		for _, p := range candidates {
			if p.ID == product.ID {
				continue
			}
			related = append(related, p)
			if len(related) == relatedProductsLimit {
				break
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"related": related,
	})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.log.Error("Category listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": categories})
}

func atoiQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
