package domain

import "time"

// Cart is one caller's set of lines with totals resolved from the catalog.
type Cart struct {
	UserID        string     `json:"userId"`
	Lines         []CartLine `json:"lines"`
	SubtotalPaise int64      `json:"subtotalPaise"`
}

// CartLine is keyed by (user, product, color); color "" means no variant.
type CartLine struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	ProductID string    `json:"productId"`
	Color     string    `json:"color,omitempty"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`

	// Product is resolved on read and nil when the catalog entry is gone.
	Product *Product `json:"product,omitempty"`
}
