package intent

import (
	"context"
	"time"
)

// Intent is a short-lived, single-use payment target bound to a caller and
// to the cart total computed at issue time. Consumption happens inside the
// order creation transaction, keyed on the used_at column.
type Intent struct {
	Token       string
	UserID      string
	AmountPaise int64
	ExpiresAt   time.Time
}

type Repository interface {
	Create(ctx context.Context, in Intent) error
}
