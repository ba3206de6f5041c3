package models

import (
	"time"

	"github.com/shopspring/decimal"

	dbtypes "github.com/ajcastillo/gearmart-backend/pkg/db/types"
)

// Product represents a catalog listing. A non-nil ParentProductID marks the
// row as an accessory of another product; deleting the parent nulls the
// reference instead of cascading, so accessories survive as standalone rows.
type Product struct {
	ID              uint               `gorm:"column:product_id;primaryKey;autoIncrement" json:"product_id"`
	ParentProductID *uint              `gorm:"column:parent_product_id" json:"parent_product_id,omitempty"`
	Name            string             `gorm:"column:name;not null" json:"name"`
	Description     string             `gorm:"column:description;not null" json:"description"`
	Category        string             `gorm:"column:category;not null" json:"category"`
	Price           decimal.Decimal    `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Stock           int                `gorm:"column:stock;not null;default:0" json:"stock"`
	Rating          float64            `gorm:"column:rating;not null;default:0" json:"rating"`
	ReviewSnippets  dbtypes.StringList `gorm:"column:reviews;type:text;not null;default:'[]'" json:"-"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Parent      *Product  `gorm:"foreignKey:ParentProductID;constraint:OnDelete:SET NULL" json:"-"`
	Accessories []Product `gorm:"many2many:product_accessories;joinForeignKey:ProductID;joinReferences:AccessoryID" json:"-"`
}

// TableName implements gorm's table naming interface.
func (Product) TableName() string {
	return "products"
}
