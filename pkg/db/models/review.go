package models

import "time"

// Review is the authoritative review record. The legacy snippet column on
// Product is never synchronized with this table.
type Review struct {
	ID        uint      `gorm:"column:review_id;primaryKey;autoIncrement" json:"review_id"`
	UserID    uint      `gorm:"column:user_id;not null" json:"user_id"`
	ProductID uint      `gorm:"column:product_id;not null" json:"product_id"`
	Rating    int       `gorm:"column:rating;not null" json:"rating"`
	Comment   string    `gorm:"column:comment;not null" json:"comment"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName implements gorm's table naming interface.
func (Review) TableName() string {
	return "reviews"
}
