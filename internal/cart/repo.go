package cart

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ajcastillo/gearmart-backend/pkg/db/models"
)

// Repository exposes cart persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repo bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Upsert adds the product to the user's cart. When the product is already
// present the row's quantity is REPLACED with the new value, not summed.
// Callers wanting increment semantics read the current row first.
func (r *Repository) Upsert(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(item).Error
	if err != nil {
		return nil, err
	}

	// The conflict path does not backfill the generated key; reload the row.
	var saved models.CartItem
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
		First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListForUser returns the user's cart with product rows preloaded, oldest
// entries first.
func (r *Repository) ListForUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC, cart_item_id ASC").
		Find(&items).Error
	return items, err
}

// FindForUserAndProduct loads a single cart row.
func (r *Repository) FindForUserAndProduct(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteByID removes one cart row, scoped to the owning user.
func (r *Repository) DeleteByID(ctx context.Context, userID, cartItemID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}, "cart_item_id = ?", cartItemID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearForUser empties the user's cart.
func (r *Repository) ClearForUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}
