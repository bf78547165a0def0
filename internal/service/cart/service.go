package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/strytechcompany/time2cart/internal/domain"
)

type Service struct {
	repo        cartRepo
	productRepo productRepo
}

type cartRepo interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddLine(ctx context.Context, userID, productID, color string, quantity int) error
	UpdateLine(ctx context.Context, userID, productID, color string, quantity int, newColor *string) error
	RemoveLine(ctx context.Context, userID, productID string, color *string) error
	Clear(ctx context.Context, userID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartRepo, productRepo productRepo) *Service {
	return &Service{repo: repo, productRepo: productRepo}
}

type AddLineInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
}

type UpdateLineInput struct {
	Color    string  `json:"color"`
	Quantity int     `json:"quantity"`
	NewColor *string `json:"newColor,omitempty"`
}

func (s *Service) Get(ctx context.Context, caller domain.Caller) (*domain.Cart, error) {
	return s.repo.Get(ctx, caller.UserID)
}

// AddLine merges into the caller's existing (product, color) line or appends
// a new one, then returns the full updated cart.
func (s *Service) AddLine(ctx context.Context, caller domain.Caller, in AddLineInput) (*domain.Cart, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	color, err := resolveColor(product.Colors, in.Color)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddLine(ctx, caller.UserID, product.ID, color, in.Quantity); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, caller.UserID)
}

// UpdateLine sets the quantity of one line and optionally moves it to a new
// color; a move onto an occupied variant merges the two lines.
func (s *Service) UpdateLine(ctx context.Context, caller domain.Caller, productID string, in UpdateLineInput) (*domain.Cart, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	newColor := in.NewColor
	if newColor != nil {
		product, err := s.productRepo.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		resolved, err := resolveColor(product.Colors, *newColor)
		if err != nil {
			return nil, err
		}
		newColor = &resolved
	}

	if err := s.repo.UpdateLine(ctx, caller.UserID, productID, strings.TrimSpace(in.Color), in.Quantity, newColor); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, caller.UserID)
}

// RemoveLine drops all of the product's lines when color is nil, or one
// variant when it is set.
func (s *Service) RemoveLine(ctx context.Context, caller domain.Caller, productID string, color *string) (*domain.Cart, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	if err := s.repo.RemoveLine(ctx, caller.UserID, productID, color); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, caller.UserID)
}

func (s *Service) Clear(ctx context.Context, caller domain.Caller) error {
	return s.repo.Clear(ctx, caller.UserID)
}
