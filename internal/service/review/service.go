package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/strytechcompany/time2cart/internal/domain"
	"github.com/strytechcompany/time2cart/internal/notify"
)

var (
	// ErrNotPurchased gates reviews on a paid, shipped-or-delivered order
	// containing the product.
	ErrNotPurchased = errors.New("purchase required before reviewing")
	// ErrAlreadyReviewed limits each reviewer to one review per product.
	ErrAlreadyReviewed = errors.New("product already reviewed")
)

type Service struct {
	repo     reviewRepo
	orders   orderRepo
	products productRepo
	notifier notify.Notifier
}

type reviewRepo interface {
	Create(ctx context.Context, review domain.Review) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
	Breakdown(ctx context.Context, productID string) (*domain.ReviewBreakdown, error)
}

type orderRepo interface {
	HasQualifyingPurchase(ctx context.Context, userID, productID string) (bool, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo reviewRepo, orders orderRepo, products productRepo, notifier notify.Notifier) *Service {
	return &Service{repo: repo, orders: orders, products: products, notifier: notifier}
}

type SubmitInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Submit appends the caller's review and folds it into the product's mean
// rating. The caller must have actually bought the product and may review it
// only once.
func (s *Service) Submit(ctx context.Context, caller domain.Caller, productID string, in SubmitInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	purchased, err := s.orders.HasQualifyingPurchase(ctx, caller.UserID, productID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, ErrNotPurchased
	}

	rv, err := s.repo.Create(ctx, domain.Review{
		ProductID: productID,
		UserID:    caller.UserID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	s.notifier.ReviewSubmitted(ctx, productID, rv)
	return rv, nil
}

func (s *Service) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.ListByProduct(ctx, productID)
}

// Breakdown recomputes star counts and the mean from the reviews themselves.
func (s *Service) Breakdown(ctx context.Context, productID string) (*domain.ReviewBreakdown, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.Breakdown(ctx, productID)
}
