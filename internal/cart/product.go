package cart

import (
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// CartProduct — канонический снимок товара, который хранится в корзине.
// Это проекция под хранение: только то, что нужно для отрисовки корзины
// и подсчёта суммы, безопасная к изменениям каталога.
type CartProduct struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	Image       string     `json:"image"`
	Description string     `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Category    string     `json:"category,omitempty"`
	Featured    bool       `json:"featured"`
	IsNew       bool       `json:"is_new"`
	Discount    float64    `json:"discount"`
	Unit        string     `json:"unit"`
	Stock       int        `json:"stock"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type CartItem struct {
	Product  CartProduct `json:"product"`
	Quantity int         `json:"quantity"`
}

// Normalize приводит каталожную модель товара к канонической форме корзины.
// Разные источники (каталог, сохранённый снимок) сходятся в одну проекцию.
func Normalize(p models.Product) CartProduct {
	cp := CartProduct{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
		Unit:        p.Unit,
		Stock:       p.Stock,
	}
	if p.CategoryID != uuid.Nil {
		id := p.CategoryID
		cp.CategoryID = &id
	}
	if p.Category != nil {
		cp.Category = p.Category.Name
	}
	if p.Featured != nil {
		cp.Featured = *p.Featured
	}
	if p.IsNew != nil {
		cp.IsNew = *p.IsNew
	}
	if p.Discount != nil {
		cp.Discount = *p.Discount
	}
	if !p.CreatedAt.IsZero() {
		t := p.CreatedAt
		cp.CreatedAt = &t
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		cp.UpdatedAt = &t
	}
	return cp
}
