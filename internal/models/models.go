package models

import (
	"time"

	"github.com/google/uuid"
)

// Статус заказа — строковый тип. Переходы статусов принадлежат внешней
// системе обработки заказов, витрина их только читает.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// RevenueStatuses — статусы, учитываемые во всей выручке и отчётах.
var RevenueStatuses = []OrderStatus{OrderStatusCompleted, OrderStatusDelivered}

type Order struct {
	ID            uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        *uuid.UUID  `gorm:"type:uuid;index"`
	Status        OrderStatus `gorm:"type:text;not null;default:'pending';index"`
	Total         float64     `gorm:"type:numeric(12,2);not null;default:0"` // total >= 0
	AddressID     *uuid.UUID  `gorm:"type:uuid"`
	PaymentMethod *string     `gorm:"type:text"`
	OrderNotes    *string     `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   *uuid.UUID `gorm:"type:uuid;index"`
	ProductID *uuid.UUID `gorm:"type:uuid;index"`
	Quantity  int        `gorm:"type:int;not null"` // > 0, CHECK в миграции
	// PriceAtTime — снимок цены товара на момент покупки, неизменяемый.
	// Вся выручка считается по нему, не по текущей цене товара.
	PriceAtTime float64 `gorm:"type:numeric(12,2);not null"`
}

func (OrderItem) TableName() string { return "order_items" }

type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Price         float64   `gorm:"type:numeric(12,2);not null" json:"price"`
	OriginalPrice *float64  `gorm:"type:numeric(12,2)" json:"original_price,omitempty"`
	Discount      *float64  `gorm:"type:numeric(5,2)" json:"discount,omitempty"`
	Image         string    `gorm:"type:text;not null" json:"image"`
	CategoryID    uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	Stock         int       `gorm:"type:int;not null;default:0" json:"stock"` // >= 0
	Unit          string    `gorm:"type:text;not null" json:"unit"`
	Featured      *bool     `gorm:"default:false" json:"featured,omitempty"`
	IsNew         *bool     `gorm:"column:is_new;default:false" json:"is_new,omitempty"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Product) TableName() string { return "products" }

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Image       string    `gorm:"type:text;not null" json:"image"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Category) TableName() string { return "categories" }

// User — учётные данные. Профиль (витринные данные) лежит отдельно в profiles.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `gorm:"not null"` // уникальность через функциональный индекс lower(email)
	Password  string    `gorm:"not null"` // bcrypt hash
	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

type Profile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"` // = users.id
	Email       *string   `json:"email,omitempty"`
	Name        *string   `json:"name,omitempty"`
	Avatar      *string   `gorm:"type:text" json:"avatar,omitempty"`
	PhoneNumber *string   `gorm:"type:text" json:"phone_number,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// rolePriority задаёт порядок для выбора наивысшей роли пользователя.
var rolePriority = map[Role]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// HighestRole возвращает наивысшую роль из списка. Пустой список — RoleUser.
func HighestRole(roles []Role) Role {
	best := RoleUser
	for _, r := range roles {
		if rolePriority[r] > rolePriority[best] {
			best = r
		}
	}
	return best
}

// UserRole — строка назначения роли. Пользователь может держать несколько ролей.
type UserRole struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_user_roles_user_role"`
	Role      Role      `gorm:"type:text;not null;default:'user';uniqueIndex:ux_user_roles_user_role"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (UserRole) TableName() string { return "user_roles" }

type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"not null;index"` // хранится ХЭШ opaque-токена
	ExpiresAt time.Time `gorm:"not null;index"`
	Revoked   bool      `gorm:"not null;default:false;index"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

type PasswordResetToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Email     string    `gorm:"not null"`
	CodeHash  string    `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Consumed  bool      `gorm:"not null;default:false;index"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (PasswordResetToken) TableName() string { return "password_reset_tokens" }

type Wishlist struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:ux_wishlists_user_product"`
	ProductID *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:ux_wishlists_user_product"`
	CreatedAt time.Time  `gorm:"not null;default:now()"`
}

func (Wishlist) TableName() string { return "wishlists" }
