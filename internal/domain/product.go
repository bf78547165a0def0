package domain

import "time"

type Product struct {
	ID            string    `json:"id"`
	Key           string    `json:"key"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	PricePaise    int64     `json:"pricePaise"`
	Colors        []string  `json:"colors,omitempty"`
	StockQuantity int       `json:"stockQuantity"`
	Sales         int64     `json:"sales"`
	Rating        float64   `json:"rating"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HasColor reports whether color is allowed for the product. An empty
// allowed set accepts anything, and an unsupplied color is always allowed.
func (p Product) HasColor(color string) bool {
	if color == "" || len(p.Colors) == 0 {
		return true
	}
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}
