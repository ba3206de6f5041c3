package models

// ProductAccessory joins a product to its accessory products. Both sides
// cascade on delete.
type ProductAccessory struct {
	ProductID   uint `gorm:"column:product_id;primaryKey" json:"product_id"`
	AccessoryID uint `gorm:"column:accessory_id;primaryKey" json:"accessory_id"`
}

// TableName implements gorm's table naming interface.
func (ProductAccessory) TableName() string {
	return "product_accessories"
}
