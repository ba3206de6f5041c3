package reviews

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ajcastillo/gearmart-backend/pkg/db/models"
	pkgerrors "github.com/ajcastillo/gearmart-backend/pkg/errors"
)

type productRatings interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	RecomputeRating(ctx context.Context, productID uint) error
}

type purchaseChecker interface {
	HasCompletedOrderForProduct(ctx context.Context, userID, productID uint) (bool, error)
}

// Service defines review operations with validation and coded errors.
type Service interface {
	Create(ctx context.Context, input CreateReviewInput) (*ReviewDTO, error)
	Get(ctx context.Context, id uint) (*models.Review, error)
	ListForProduct(ctx context.Context, productID uint) ([]models.Review, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Review, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo      *Repository
	products  productRatings
	purchases purchaseChecker
}

// NewService builds a reviews service with the required dependencies.
func NewService(repo *Repository, products productRatings, purchases purchaseChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	if products == nil {
		return nil, fmt.Errorf("products dependency is required")
	}
	if purchases == nil {
		return nil, fmt.Errorf("purchases dependency is required")
	}
	return &service{repo: repo, products: products, purchases: purchases}, nil
}

func (s *service) Create(ctx context.Context, input CreateReviewInput) (*ReviewDTO, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.Review{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating review")
	}

	if err := s.products.RecomputeRating(ctx, input.ProductID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recomputing product rating")
	}

	// Advisory only; a verification failure never undoes the review.
	verified, err := s.purchases.HasCompletedOrderForProduct(ctx, input.UserID, input.ProductID)
	if err != nil {
		verified = false
	}
	return FromModel(created, verified), nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading review")
	}
	return review, nil
}

func (s *service) ListForProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	rows, err := s.repo.ListForProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing reviews")
	}
	return rows, nil
}

func (s *service) ListForUser(ctx context.Context, userID uint) ([]models.Review, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing reviews")
	}
	return rows, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting review")
	}

	if err := s.products.RecomputeRating(ctx, review.ProductID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recomputing product rating")
	}
	return nil
}
