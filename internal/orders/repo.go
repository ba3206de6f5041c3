package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/ajcastillo/gearmart-backend/pkg/db/models"
	"github.com/ajcastillo/gearmart-backend/pkg/enums"
	"github.com/ajcastillo/gearmart-backend/pkg/pagination"
)

// Repository exposes order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
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

// CreateWithItems inserts the order, stamps the generated order id onto each
// line item, and bulk-inserts the items. Callers run this inside a
// transaction; a failure after the order insert must roll the order back.
func (r *Repository) CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
			return nil, err
		}
	}
	order.Items = items
	return order, nil
}

// FindByID loads an order with its line items.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "order_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListForUser returns a page of the user's orders, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uint, params pagination.Params) (*OrderList, error) {
	return r.list(ctx, params, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

// ListAll returns a page across all users, newest first. Admin surface.
func (r *Repository) ListAll(ctx context.Context, params pagination.Params) (*OrderList, error) {
	return r.list(ctx, params, nil)
}

func (r *Repository) list(ctx context.Context, params pagination.Params, scope func(*gorm.DB) *gorm.DB) (*OrderList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	q := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items").
		Order("created_at DESC, order_id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if scope != nil {
		q = scope(q)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where(
			"(created_at < ?) OR (created_at = ? AND order_id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Order
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	list := &OrderList{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	list.Orders = rows
	return list, nil
}

// ListItems returns the frozen line items of an order.
func (r *Repository) ListItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("order_item_id ASC").
		Find(&items).Error
	return items, err
}

// UpdateStatus overwrites the order's status.
func (r *Repository) UpdateStatus(ctx context.Context, orderID uint, status enums.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ?", orderID).
		UpdateColumn("order_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasCompletedOrderForProduct reports whether the user has a COMPLETED order
// containing the product. Advisory; callers must not gate writes on it.
func (r *Repository) HasCompletedOrderForProduct(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.order_id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ? AND orders.order_status = ?",
			userID, productID, enums.OrderStatusCompleted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
