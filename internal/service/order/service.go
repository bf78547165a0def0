package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/strytechcompany/time2cart/internal/domain"
	"github.com/strytechcompany/time2cart/internal/notify"
	orderrepo "github.com/strytechcompany/time2cart/internal/repository/order"
)

var (
	// ErrAlreadyConfirmed means confirm-payment already ran for the order;
	// stock and sales were not touched again.
	ErrAlreadyConfirmed = errors.New("order payment already confirmed")
	// ErrIntentInvalid rejects order creation without a redeemable intent.
	ErrIntentInvalid = errors.New("payment intent invalid or expired")
	// ErrIntentAmountMismatch rejects a total that differs from the amount
	// the intent was issued for.
	ErrIntentAmountMismatch = errors.New("total does not match payment intent amount")
)

type Service struct {
	repo     orderRepo
	products productRepo
	carts    cartRepo
	notifier notify.Notifier
	logger   *log.Logger
}

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ConfirmPayment(ctx context.Context, orderID, trackingLink, deliveryPhone string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, orderID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type cartRepo interface {
	Clear(ctx context.Context, userID string) error
}

func New(repo orderRepo, products productRepo, carts cartRepo, notifier notify.Notifier, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, products: products, carts: carts, notifier: notifier, logger: logger}
}

type CreateItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
}

type CreateInput struct {
	Items         []CreateItem           `json:"items"`
	TotalPaise    int64                  `json:"totalPaise"`
	TransactionID string                 `json:"transactionId"`
	IntentToken   string                 `json:"intentToken"`
	Shipping      domain.ShippingAddress `json:"shippingAddress"`
}

// Create turns a caller-reported UPI payment into a pending order. Unit
// prices are snapshotted from the catalog at this moment; the intent token is
// consumed so a stale QR cannot be replayed.
func (s *Service) Create(ctx context.Context, caller domain.Caller, in CreateInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.TransactionID) == "" {
		return nil, fmt.Errorf("%w: transactionId required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.IntentToken) == "" {
		return nil, fmt.Errorf("%w: intentToken required", domain.ErrInvalidInput)
	}
	if in.TotalPaise <= 0 {
		return nil, fmt.Errorf("%w: totalAmount must be positive", domain.ErrInvalidInput)
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for product %s must be positive", domain.ErrInvalidInput, item.ProductID)
		}
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: product %s not found", domain.ErrInvalidInput, item.ProductID)
			}
			return nil, err
		}
		color := strings.TrimSpace(item.Color)
		if !product.HasColor(color) {
			return nil, fmt.Errorf("%w: color %q not available for product %s", domain.ErrInvalidInput, color, item.ProductID)
		}
		items = append(items, domain.OrderItem{
			ProductID:      product.ID,
			Quantity:       item.Quantity,
			Color:          color,
			UnitPricePaise: product.PricePaise,
		})
	}

	o, err := s.repo.Create(ctx, orderrepo.CreateOrderInput{
		UserID:        caller.UserID,
		Items:         items,
		TotalPaise:    in.TotalPaise,
		TransactionID: strings.TrimSpace(in.TransactionID),
		IntentToken:   strings.TrimSpace(in.IntentToken),
		Shipping:      in.Shipping,
	})
	if err != nil {
		switch {
		case errors.Is(err, orderrepo.ErrIntentUnavailable):
			return nil, ErrIntentInvalid
		case errors.Is(err, orderrepo.ErrIntentAmountMismatch):
			return nil, ErrIntentAmountMismatch
		}
		return nil, err
	}

	if err := s.carts.Clear(ctx, caller.UserID); err != nil {
		s.logger.Printf("order service: clear cart user_id=%s error=%v", caller.UserID, err)
	}
	s.notifier.OrderCreated(ctx, o)
	return o, nil
}

// ConfirmPayment is the admin fulfillment action: shipped + paid + stock
// debit + sales credit, exactly once per order.
func (s *Service) ConfirmPayment(ctx context.Context, caller domain.Caller, orderID, trackingLink, deliveryPhone string) (*domain.Order, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	o, err := s.repo.ConfirmPayment(ctx, orderID, trackingLink, deliveryPhone)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrAlreadyConfirmed
		}
		return nil, err
	}
	s.notifier.PaymentConfirmed(ctx, o)
	return o, nil
}

// UpdateStatus moves the order along the status axis only; payment state and
// stock are never touched here.
func (s *Service) UpdateStatus(ctx context.Context, caller domain.Caller, orderID string, to domain.OrderStatus) (*domain.Order, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
	}
	o, err := s.repo.UpdateStatus(ctx, orderID, current.Status, to)
	if err != nil {
		// The CAS predicate failed, so a concurrent transition won.
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
		}
		return nil, err
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, caller domain.Caller, orderID string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *Service) ListMine(ctx context.Context, caller domain.Caller) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, caller.UserID)
}

func (s *Service) ListAll(ctx context.Context, caller domain.Caller) ([]domain.Order, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListAll(ctx)
}

// Delete removes the order record outright. Stock is deliberately left
// alone: goods already shipped do not come back on purge.
func (s *Service) Delete(ctx context.Context, caller domain.Caller, orderID string) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, orderID)
}
