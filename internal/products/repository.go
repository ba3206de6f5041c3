package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/ajcastillo/gearmart-backend/pkg/db/models"
	"github.com/ajcastillo/gearmart-backend/pkg/pagination"
)

// Repository exposes catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
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

// Create inserts a product and returns it with its generated id.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a product with its accessory associations.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Accessories").
		First(&product, "product_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListFilters narrows the catalog listing.
type ListFilters struct {
	Category string
	Search   string
	// MainOnly keeps rows without a parent, the top-level catalog view.
	MainOnly bool
}

// List returns a page of products ordered newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	q := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Order("created_at DESC, product_id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if filters.Category != "" {
		q = q.Where("category = ?", filters.Category)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if filters.MainOnly {
		q = q.Where("parent_product_id IS NULL")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where(
			"(created_at < ?) OR (created_at = ? AND product_id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Product
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	list := &ProductList{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	list.Products = rows
	return list, nil
}

// ListAccessoriesOf returns the accessory products linked to the given product.
func (r *Repository) ListAccessoriesOf(ctx context.Context, productID uint) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN product_accessories pa ON pa.accessory_id = products.product_id").
		Where("pa.product_id = ?", productID).
		Order("products.product_id ASC").
		Find(&rows).Error
	return rows, err
}

// LinkAccessory records the accessory relation. Inserting an existing pair
// fails on the composite primary key.
func (r *Repository) LinkAccessory(ctx context.Context, productID, accessoryID uint) error {
	return r.db.WithContext(ctx).Create(&models.ProductAccessory{
		ProductID:   productID,
		AccessoryID: accessoryID,
	}).Error
}

// UnlinkAccessory removes the accessory relation.
func (r *Repository) UnlinkAccessory(ctx context.Context, productID, accessoryID uint) error {
	res := r.db.WithContext(ctx).Delete(&models.ProductAccessory{
		ProductID:   productID,
		AccessoryID: accessoryID,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Update applies column updates to the product row.
func (r *Repository) Update(ctx context.Context, id uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("product_id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecomputeRating refreshes the denormalized rating aggregate from the
// reviews table in one statement.
func (r *Repository) RecomputeRating(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE products
		 SET rating = (SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE product_id = ?)
		 WHERE product_id = ?`,
		productID, productID,
	).Error
}

// Delete removes the product row. Child accessories keep their rows with
// parent_product_id nulled; cart items, reviews, and accessory links cascade.
// Order items are untouched so placed orders keep their frozen lines.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "product_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
