package dto

import "storefront/internal/cart"

type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items   []cart.CartItem `json:"items"`
	Count   int             `json:"count"`
	Total   float64         `json:"total"`
	Message string          `json:"message,omitempty"`
}

func NewCartResponse(items []cart.CartItem, message string) CartResponse {
	sum := cart.Summarize(items)
	return CartResponse{
		Items:   items,
		Count:   sum.Count,
		Total:   sum.Total,
		Message: message,
	}
}
