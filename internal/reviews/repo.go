package reviews

import (
	"context"

	"gorm.io/gorm"

	"github.com/ajcastillo/gearmart-backend/pkg/db/models"
)

// Repository exposes review persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a reviews repository bound to the provided DB.
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

// Create inserts a review and returns it with its generated id.
func (r *Repository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// FindByID loads a single review.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "review_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListForProduct returns a product's reviews, newest first.
func (r *Repository) ListForProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, review_id DESC").
		Find(&rows).Error
	return rows, err
}

// ListForUser returns a user's reviews, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uint) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, review_id DESC").
		Find(&rows).Error
	return rows, err
}

// Delete removes the review row.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, "review_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
