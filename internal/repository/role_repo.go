package repository

import (
	"context"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRepo interface {
	// ListByUser возвращает все роли пользователя (их может быть несколько).
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Role, error)
	// Ensure добавляет роль, если её ещё нет.
	Ensure(ctx context.Context, userID uuid.UUID, role models.Role) error
	Remove(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error)
}

type roleRepo struct{ db *gorm.DB }

func NewRoleRepo(db *gorm.DB) RoleRepo { return &roleRepo{db: db} }

func (r *roleRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role", &roles).Error
	return roles, err
}

func (r *roleRepo) Ensure(ctx context.Context, userID uuid.UUID, role models.Role) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserRole{UserID: userID, Role: role}).Error
}

func (r *roleRepo) Remove(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&models.UserRole{})
	return tx.RowsAffected > 0, tx.Error
}
