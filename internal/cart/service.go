package cart

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ajcastillo/gearmart-backend/pkg/db/models"
	pkgerrors "github.com/ajcastillo/gearmart-backend/pkg/errors"
)

type productFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
}

// AddItemInput carries the validated inputs for a cart write.
type AddItemInput struct {
	UserID    uint
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

// Service defines cart operations with validation and coded errors.
type Service interface {
	AddItem(ctx context.Context, input AddItemInput) (*models.CartItem, error)
	List(ctx context.Context, userID uint) ([]models.CartItem, error)
	RemoveItem(ctx context.Context, userID, cartItemID uint) error
	Clear(ctx context.Context, userID uint) error
}

type service struct {
	repo     *Repository
	products productFinder
}

// NewService builds a cart service with the required dependencies.
func NewService(repo *Repository, products productFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	if products == nil {
		return nil, fmt.Errorf("products finder is required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) AddItem(ctx context.Context, input AddItemInput) (*models.CartItem, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}

	saved, err := s.repo.Upsert(ctx, &models.CartItem{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving cart item")
	}
	return saved, nil
}

func (s *service) List(ctx context.Context, userID uint) ([]models.CartItem, error) {
	items, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cart")
	}
	return items, nil
}

func (s *service) RemoveItem(ctx context.Context, userID, cartItemID uint) error {
	err := s.repo.DeleteByID(ctx, userID, cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID uint) error {
	if err := s.repo.ClearForUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
	}
	return nil
}
