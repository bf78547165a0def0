package order

import (
	"context"
	"errors"

	"github.com/strytechcompany/time2cart/internal/domain"
)

var (
	// ErrIntentUnavailable means the payment intent was missing, foreign,
	// expired or already consumed when the create transaction ran.
	ErrIntentUnavailable = errors.New("payment intent unavailable")
	// ErrIntentAmountMismatch means the order total differs from the amount
	// the intent was issued for; the intent is left unconsumed.
	ErrIntentAmountMismatch = errors.New("order total does not match intent amount")
)

type CreateOrderInput struct {
	UserID        string
	Items         []domain.OrderItem
	TotalPaise    int64
	TransactionID string
	IntentToken   string
	Shipping      domain.ShippingAddress
}

type Repository interface {
	// Create consumes the payment intent and inserts the order with its
	// items in one transaction, so a failed insert never burns the token
	// and a consumed token always has its order.
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	// ConfirmPayment is the single fulfillment transition: it flips the order
	// to shipped/paid and debits stock / credits sales for every line, all in
	// one transaction. A second call on the same order changes nothing and
	// reports domain.ErrAlreadyExists.
	ConfirmPayment(ctx context.Context, orderID, trackingLink, deliveryPhone string) (*domain.Order, error)
	// UpdateStatus moves status from one value to another; the source value
	// is part of the predicate so concurrent transitions cannot interleave.
	UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, orderID string) error
	// HasQualifyingPurchase reports whether the user has a paid order in
	// shipped or delivered state containing the product.
	HasQualifyingPurchase(ctx context.Context, userID, productID string) (bool, error)
}
