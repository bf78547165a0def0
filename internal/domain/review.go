package domain

import "time"

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewBreakdown is computed fresh from the reviews themselves; Mean must
// agree with the product's stored rating.
type ReviewBreakdown struct {
	Total  int         `json:"total"`
	Mean   float64     `json:"mean"`
	Counts map[int]int `json:"counts"`
}
