package reviews

import (
	"time"

	"github.com/ajcastillo/gearmart-backend/pkg/db/models"
)

// CreateReviewInput carries the validated inputs for a new review.
type CreateReviewInput struct {
	UserID    uint
	ProductID uint   `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required,max=2000"`
}

// ReviewDTO is the transport shape. VerifiedPurchase is advisory metadata
// computed from completed orders; it never gates review creation.
type ReviewDTO struct {
	ID               uint      `json:"review_id"`
	UserID           uint      `json:"user_id"`
	ProductID        uint      `json:"product_id"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	CreatedAt        time.Time `json:"created_at"`
}

func FromModel(r *models.Review, verified bool) *ReviewDTO {
	if r == nil {
		return nil
	}
	return &ReviewDTO{
		ID:               r.ID,
		UserID:           r.UserID,
		ProductID:        r.ProductID,
		Rating:           r.Rating,
		Comment:          r.Comment,
		VerifiedPurchase: verified,
		CreatedAt:        r.CreatedAt,
	}
}
