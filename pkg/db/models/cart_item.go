package models

import "time"

// CartItem holds one product in a user's cart. (user_id, product_id) is
// unique; adding the same product again replaces the row wholesale.
type CartItem struct {
	ID        uint      `gorm:"column:cart_item_id;primaryKey;autoIncrement" json:"cart_item_id"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_cart_items_user_product" json:"user_id"`
	ProductID uint      `gorm:"column:product_id;not null;uniqueIndex:idx_cart_items_user_product" json:"product_id"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

// TableName implements gorm's table naming interface.
func (CartItem) TableName() string {
	return "cart_items"
}
