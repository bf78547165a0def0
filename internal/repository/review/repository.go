package review

import (
	"context"

	"github.com/strytechcompany/time2cart/internal/domain"
)

type Repository interface {
	// Create appends the review and recomputes the product's mean rating in
	// the same transaction. A second review by the same user on the same
	// product reports domain.ErrAlreadyExists.
	Create(ctx context.Context, review domain.Review) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
	Breakdown(ctx context.Context, productID string) (*domain.ReviewBreakdown, error)
}
