package repository

import "gorm.io/gorm"

type Repository struct {
	DB             *gorm.DB
	Users          UserRepo
	Profiles       ProfileRepo
	Roles          RoleRepo
	RefreshTokens  RefreshRepo
	PasswordResets PasswordResetRepo
	Products       ProductRepo
	Categories     CategoryRepo
	Orders         OrderRepo
	OrderItems     OrderItemRepo
	Wishlists      WishlistRepo
}

func New(db *gorm.DB) *Repository {
	return &Repository{
		DB:             db,
		Users:          NewUserRepo(db),
		Profiles:       NewProfileRepo(db),
		Roles:          NewRoleRepo(db),
		RefreshTokens:  NewRefreshRepo(db),
		PasswordResets: NewPasswordResetRepo(db),
		Products:       NewProductRepo(db),
		Categories:     NewCategoryRepo(db),
		Orders:         NewOrderRepo(db),
		OrderItems:     NewOrderItemRepo(db),
		Wishlists:      NewWishlistRepo(db),
	}
}
