package repository

import (
	"context"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductQuantityRow — пара (товар, количество) из позиции заказа.
type ProductQuantityRow struct {
	ProductID *uuid.UUID
	Quantity  int
}

// SalesItemRow — позиция заказа вместе со статусом родительского заказа
// и категорией товара, для распределения выручки по категориям.
type SalesItemRow struct {
	Quantity    int
	PriceAtTime float64
	OrderStatus models.OrderStatus
	CategoryID  *uuid.UUID
}

type OrderItemRepo interface {
	// ProductQuantities возвращает (product_id, quantity) по всем позициям заказов.
	ProductQuantities(ctx context.Context) ([]ProductQuantityRow, error)
	// ListSalesRows возвращает до limit позиций, соединённых со статусом
	// заказа и категорией товара.
	ListSalesRows(ctx context.Context, limit int) ([]SalesItemRow, error)
}

type orderItemRepo struct{ db *gorm.DB }

func NewOrderItemRepo(db *gorm.DB) OrderItemRepo { return &orderItemRepo{db: db} }

func (r *orderItemRepo) ProductQuantities(ctx context.Context) ([]ProductQuantityRow, error) {
	var rows []ProductQuantityRow
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Select("product_id, quantity").
		Scan(&rows).Error
	return rows, err
}

func (r *orderItemRepo) ListSalesRows(ctx context.Context, limit int) ([]SalesItemRow, error) {
	if limit <= 0 {
		limit = 1000
	}
	var rows []SalesItemRow
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Select("order_items.quantity, order_items.price_at_time, orders.status AS order_status, products.category_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
