package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ajcastillo/gearmart-backend/internal/cart"
	"github.com/ajcastillo/gearmart-backend/internal/products"
	"github.com/ajcastillo/gearmart-backend/pkg/db/models"
	"github.com/ajcastillo/gearmart-backend/pkg/enums"
	pkgerrors "github.com/ajcastillo/gearmart-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn := setupOrdersTestDB(t)
	svc, err := NewService(
		NewRepository(conn),
		products.NewRepository(conn),
		cart.NewRepository(conn),
		gormTxRunner{db: conn},
	)
	require.NoError(t, err)
	return svc, conn
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected coded error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestPlaceOrderFreezesPrices(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	buyer := seedUser(t, conn, "buyer")
	keyboard := seedProduct(t, conn, "Keyboard", "80.00")
	mouse := seedProduct(t, conn, "Mouse", "20.50")

	placed, err := svc.PlaceOrder(ctx, PlaceOrderInput{
		UserID: buyer.ID,
		Lines: []OrderLine{
			{ProductID: keyboard.ID, Quantity: 2},
			{ProductID: mouse.ID, Quantity: 1},
		},
		ShippingAddress: "1 Main St",
	})
	require.NoError(t, err)
	assert.True(t, placed.TotalAmount.Equal(decimal.RequireFromString("180.50")))
	assert.Equal(t, enums.OrderStatusNew, placed.Status)

	// A later price change must not alter the placed order.
	require.NoError(t, conn.Model(&models.Product{}).
		Where("product_id = ?", keyboard.ID).
		UpdateColumn("price", decimal.RequireFromString("999.99")).Error)

	order, err := svc.Get(ctx, placed.OrderID)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("180.50")))
	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		if item.ProductID == keyboard.ID {
			assert.True(t, item.PriceAtOrderTime.Equal(decimal.RequireFromString("80.00")))
		}
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	buyer := seedUser(t, conn, "buyer")
	product := seedProduct(t, conn, "Keyboard", "80.00")

	_, err := svc.PlaceOrder(ctx, PlaceOrderInput{UserID: buyer.ID, ShippingAddress: "1 Main St"})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.PlaceOrder(ctx, PlaceOrderInput{
		UserID: buyer.ID,
		Lines:  []OrderLine{{ProductID: product.ID, Quantity: 1}},
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.PlaceOrder(ctx, PlaceOrderInput{
		UserID:          buyer.ID,
		Lines:           []OrderLine{{ProductID: product.ID, Quantity: -1}},
		ShippingAddress: "1 Main St",
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestPlaceOrderMissingProductLeavesNothingBehind(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	buyer := seedUser(t, conn, "buyer")
	product := seedProduct(t, conn, "Keyboard", "80.00")

	_, err := svc.PlaceOrder(ctx, PlaceOrderInput{
		UserID: buyer.ID,
		Lines: []OrderLine{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: 9999, Quantity: 1},
		},
		ShippingAddress: "1 Main St",
	})
	requireCode(t, err, pkgerrors.CodeNotFound)

	var orderCount, itemCount int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, conn.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount, "failed placement leaves no order")
	assert.Zero(t, itemCount, "failed placement leaves no items")
}

func TestPlaceOrderFromCartClearsCart(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	buyer := seedUser(t, conn, "buyer")
	product := seedProduct(t, conn, "Keyboard", "80.00")

	cartRepo := cart.NewRepository(conn)
	_, err := cartRepo.Upsert(ctx, &models.CartItem{UserID: buyer.ID, ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	placed, err := svc.PlaceOrderFromCart(ctx, buyer.ID, "1 Main St")
	require.NoError(t, err)
	assert.True(t, placed.TotalAmount.Equal(decimal.RequireFromString("240.00")))

	items, err := cartRepo.ListForUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "cart is cleared in the placement transaction")

	_, err = svc.PlaceOrderFromCart(ctx, buyer.ID, "1 Main St")
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	buyer := seedUser(t, conn, "buyer")
	product := seedProduct(t, conn, "Keyboard", "80.00")

	placed, err := svc.PlaceOrder(ctx, PlaceOrderInput{
		UserID:          buyer.ID,
		Lines:           []OrderLine{{ProductID: product.ID, Quantity: 1}},
		ShippingAddress: "1 Main St",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, placed.OrderID, enums.OrderStatus("SHIPPED"))
	requireCode(t, err, pkgerrors.CodeValidation)

	order, err := svc.UpdateStatus(ctx, placed.OrderID, enums.OrderStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusInProgress, order.Status)

	// Fulfillment never moves backwards, not even before completion.
	_, err = svc.UpdateStatus(ctx, placed.OrderID, enums.OrderStatusNew)
	requireCode(t, err, pkgerrors.CodeStateConflict)

	order, err = svc.UpdateStatus(ctx, placed.OrderID, enums.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, order.Status)

	_, err = svc.UpdateStatus(ctx, placed.OrderID, enums.OrderStatusNew)
	requireCode(t, err, pkgerrors.CodeStateConflict)

	_, err = svc.UpdateStatus(ctx, 9999, enums.OrderStatusCompleted)
	requireCode(t, err, pkgerrors.CodeNotFound)
}
