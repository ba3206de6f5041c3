package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajcastillo/gearmart-backend/pkg/enums"
)

// Order is created atomically together with its line items. TotalAmount is
// computed once at placement and never recomputed, even when product prices
// change afterwards.
type Order struct {
	ID              uint              `gorm:"column:order_id;primaryKey;autoIncrement" json:"order_id"`
	UserID          uint              `gorm:"column:user_id;not null" json:"user_id"`
	OrderDate       time.Time         `gorm:"column:order_date;not null" json:"order_date"`
	Status          enums.OrderStatus `gorm:"column:order_status;type:text;not null;default:NEW" json:"order_status"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null" json:"total_amount"`
	ShippingAddress string            `gorm:"column:shipping_address;not null" json:"shipping_address"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName implements gorm's table naming interface.
func (Order) TableName() string {
	return "orders"
}
