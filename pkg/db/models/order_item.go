package models

import "github.com/shopspring/decimal"

// OrderItem is a frozen line of an order. PriceAtOrderTime copies the
// product's price at the moment of purchase and must never be refreshed from
// the live product row.
type OrderItem struct {
	ID               uint            `gorm:"column:order_item_id;primaryKey;autoIncrement" json:"order_item_id"`
	OrderID          uint            `gorm:"column:order_id;not null" json:"order_id"`
	ProductID        uint            `gorm:"column:product_id;not null" json:"product_id"`
	Quantity         int             `gorm:"column:quantity;not null" json:"quantity"`
	PriceAtOrderTime decimal.Decimal `gorm:"column:price_at_order_time;type:numeric(10,2);not null" json:"price_at_order_time"`
}

// TableName implements gorm's table naming interface.
func (OrderItem) TableName() string {
	return "order_items"
}
