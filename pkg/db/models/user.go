package models

import (
	"time"

	"github.com/ajcastillo/gearmart-backend/pkg/enums"
)

// User represents a storefront account.
//
// Username uniqueness is a convention enforced at registration time, not a
// storage constraint.
type User struct {
	ID           uint       `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	Username     string     `gorm:"column:username;not null" json:"username"`
	Email        string     `gorm:"column:email;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Role         enums.Role `gorm:"column:role;type:text;not null;default:USER" json:"role"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	CartItems []CartItem `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders    []Order    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews   []Review   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName implements gorm's table naming interface.
func (User) TableName() string {
	return "users"
}
