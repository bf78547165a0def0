package notify

import (
	"context"
	"io"
	"log"

	"github.com/strytechcompany/time2cart/internal/domain"
)

// Notifier is the fire-and-forget dispatch contract. Delivery (email, push)
// lives outside this service; implementations must never fail the calling
// operation.
type Notifier interface {
	OrderCreated(ctx context.Context, order *domain.Order)
	PaymentConfirmed(ctx context.Context, order *domain.Order)
	ReviewSubmitted(ctx context.Context, productID string, review *domain.Review)
	ProductPublished(ctx context.Context, product *domain.Product)
}

type logNotifier struct {
	logger *log.Logger
}

// NewLog returns a Notifier that records events on the shared logger.
func NewLog(logger *log.Logger) Notifier {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &logNotifier{logger: logger}
}

func (n *logNotifier) OrderCreated(_ context.Context, order *domain.Order) {
	n.logger.Printf("notify: order created id=%s user_id=%s total_paise=%d", order.ID, order.UserID, order.TotalPaise)
}

func (n *logNotifier) PaymentConfirmed(_ context.Context, order *domain.Order) {
	n.logger.Printf("notify: payment confirmed id=%s user_id=%s", order.ID, order.UserID)
}

func (n *logNotifier) ReviewSubmitted(_ context.Context, productID string, review *domain.Review) {
	n.logger.Printf("notify: review submitted product_id=%s user_id=%s rating=%d", productID, review.UserID, review.Rating)
}

func (n *logNotifier) ProductPublished(_ context.Context, product *domain.Product) {
	n.logger.Printf("notify: product published id=%s key=%s", product.ID, product.Key)
}
