package cart

import (
	"context"

	"github.com/strytechcompany/time2cart/internal/domain"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	// AddLine merges into an existing (product, color) line or appends a new
	// one; the increment is atomic so concurrent adds never lose updates.
	AddLine(ctx context.Context, userID, productID, color string, quantity int) error
	// UpdateLine sets the quantity of the (product, color) line. When
	// newColor is non-nil and differs, the line moves; if the destination
	// variant already exists the two lines merge.
	UpdateLine(ctx context.Context, userID, productID, color string, quantity int, newColor *string) error
	// RemoveLine deletes the product's lines; nil color means all variants.
	RemoveLine(ctx context.Context, userID, productID string, color *string) error
	Clear(ctx context.Context, userID string) error
}
