package repository

import (
	"context"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderTotalRow — строка для месячных сумм продаж, total + дата создания.
type OrderTotalRow struct {
	Total     float64
	CreatedAt time.Time
}

// UserOrderRow — строка для клиентской аналитики.
type UserOrderRow struct {
	UserID    *uuid.UUID
	Total     float64
	CreatedAt time.Time
}

type OrderRepo interface {
	// ListTotalsInRange возвращает заказы с указанными статусами,
	// созданные в интервале [from, to].
	ListTotalsInRange(ctx context.Context, from, to time.Time, statuses []models.OrderStatus) ([]OrderTotalRow, error)
	// ListUserOrders возвращает все заказы (user_id, total, created_at),
	// отсортированные по возрастанию created_at. Порядок важен: по нему
	// определяется первый заказ каждого клиента.
	ListUserOrders(ctx context.Context) ([]UserOrderRow, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) ListTotalsInRange(ctx context.Context, from, to time.Time, statuses []models.OrderStatus) ([]OrderTotalRow, error) {
	var rows []OrderTotalRow
	q := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("total, created_at").
		Where("created_at >= ? AND created_at <= ?", from, to)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *orderRepo) ListUserOrders(ctx context.Context) ([]UserOrderRow, error) {
	var rows []UserOrderRow
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("user_id, total, created_at").
		Order("created_at ASC").
		Scan(&rows).Error
	return rows, err
}
