package orders

import (
	"github.com/shopspring/decimal"

	"github.com/ajcastillo/gearmart-backend/pkg/db/models"
	"github.com/ajcastillo/gearmart-backend/pkg/enums"
)

// OrderLine is one requested (product, quantity) pair for placement.
type OrderLine struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

// PlaceOrderInput carries everything needed to place an order. Prices are
// never part of the input; they are read from the live catalog at placement
// time and frozen into the line items.
type PlaceOrderInput struct {
	UserID          uint
	Lines           []OrderLine `json:"lines" validate:"required,min=1,dive"`
	ShippingAddress string      `json:"shipping_address" validate:"required,min=1,max=500"`
}

// PlacedOrder is the outcome of a successful placement.
type PlacedOrder struct {
	OrderID     uint              `json:"order_id"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Status      enums.OrderStatus `json:"order_status"`
}

// OrderList is one page of orders plus the cursor for the next page.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
