package models

import "time"

// CartItem is what the storefront client holds. Price and name are display
// values only; checkout re-reads both from the catalog before charging.
type CartItem struct {
	ProductID string  `json:"product_id" binding:"required"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	Image     string  `json:"image,omitempty"`
}

type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}
