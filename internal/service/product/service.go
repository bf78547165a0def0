package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/strytechcompany/time2cart/internal/domain"
	"github.com/strytechcompany/time2cart/internal/notify"
)

type Service struct {
	repo     repo
	notifier notify.Notifier
}

type repo interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

func New(repo repo, notifier notify.Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

type UpsertInput struct {
	Key           string   `json:"key"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	PricePaise    int64    `json:"pricePaise"`
	Colors        []string `json:"colors"`
	StockQuantity int      `json:"stockQuantity"`
	ImageURL      string   `json:"imageUrl"`
}

// Upsert creates or replaces a catalog entry; admin only.
func (s *Service) Upsert(ctx context.Context, caller domain.Caller, in UpsertInput) (*domain.Product, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Key) == "" {
		return nil, fmt.Errorf("%w: key required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrInvalidInput)
	}
	if in.PricePaise < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if in.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stockQuantity must not be negative", domain.ErrInvalidInput)
	}

	p, err := s.repo.Upsert(ctx, domain.Product{
		Key:           strings.TrimSpace(in.Key),
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		PricePaise:    in.PricePaise,
		Colors:        in.Colors,
		StockQuantity: in.StockQuantity,
		ImageURL:      in.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ProductPublished(ctx, p)
	return p, nil
}
