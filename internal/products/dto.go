package products

import (
	"github.com/shopspring/decimal"

	"github.com/ajcastillo/gearmart-backend/pkg/db/models"
)

// CreateProductDTO carries the validated inputs for a new catalog listing.
type CreateProductDTO struct {
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Description     string          `json:"description" validate:"required,max=4000"`
	Category        string          `json:"category" validate:"required,min=1,max=100"`
	Price           decimal.Decimal `json:"price" validate:"required"`
	Stock           int             `json:"stock" validate:"gte=0"`
	ParentProductID *uint           `json:"parent_product_id,omitempty"`
}

// UpdateProductDTO carries partial updates; nil fields are left untouched.
type UpdateProductDTO struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=4000"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
}

// ProductList is one page of products plus the cursor for the next page.
type ProductList struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

func (c CreateProductDTO) ToModel() *models.Product {
	return &models.Product{
		Name:            c.Name,
		Description:     c.Description,
		Category:        c.Category,
		Price:           c.Price,
		Stock:           c.Stock,
		ParentProductID: c.ParentProductID,
	}
}

func (u UpdateProductDTO) toUpdates() map[string]any {
	updates := map[string]any{}
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Category != nil {
		updates["category"] = *u.Category
	}
	if u.Price != nil {
		updates["price"] = *u.Price
	}
	if u.Stock != nil {
		updates["stock"] = *u.Stock
	}
	return updates
}
