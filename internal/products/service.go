package products

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	dberrors "github.com/ajcastillo/gearmart-backend/pkg/db"
	"github.com/ajcastillo/gearmart-backend/pkg/db/models"
	pkgerrors "github.com/ajcastillo/gearmart-backend/pkg/errors"
	"github.com/ajcastillo/gearmart-backend/pkg/pagination"
)

// Service defines catalog operations with validation and coded errors.
type Service interface {
	Create(ctx context.Context, input CreateProductDTO) (*models.Product, error)
	Get(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductList, error)
	ListAccessories(ctx context.Context, productID uint) ([]models.Product, error)
	LinkAccessory(ctx context.Context, productID, accessoryID uint) error
	UnlinkAccessory(ctx context.Context, productID, accessoryID uint) error
	Update(ctx context.Context, id uint, input UpdateProductDTO) (*models.Product, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo *Repository
}

// NewService builds a products service with the required dependencies.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductDTO) (*models.Product, error) {
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.ParentProductID != nil {
		if _, err := s.repo.FindByID(ctx, *input.ParentProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parent product not found")
			}
			return nil, err
		}
	}

	created, err := s.repo.Create(ctx, input.ToModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return product, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "listing products")
	}
	return list, nil
}

func (s *service) ListAccessories(ctx context.Context, productID uint) ([]models.Product, error) {
	if _, err := s.Get(ctx, productID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAccessoriesOf(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing accessories")
	}
	return rows, nil
}

func (s *service) LinkAccessory(ctx context.Context, productID, accessoryID uint) error {
	if productID == accessoryID {
		return pkgerrors.New(pkgerrors.CodeValidation, "product cannot be its own accessory")
	}
	if _, err := s.Get(ctx, productID); err != nil {
		return err
	}
	if _, err := s.Get(ctx, accessoryID); err != nil {
		return err
	}

	if err := s.repo.LinkAccessory(ctx, productID, accessoryID); err != nil {
		if dberrors.IsUniqueViolation(err, "") {
			return pkgerrors.New(pkgerrors.CodeConflict, "accessory already linked")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "linking accessory")
	}
	return nil
}

func (s *service) UnlinkAccessory(ctx context.Context, productID, accessoryID uint) error {
	err := s.repo.UnlinkAccessory(ctx, productID, accessoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "accessory link not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unlinking accessory")
	}
	return nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateProductDTO) (*models.Product, error) {
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	if err := s.repo.Update(ctx, id, input.toUpdates()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}
