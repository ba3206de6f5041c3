package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajcastillo/gearmart-backend/internal/cart"
	"github.com/ajcastillo/gearmart-backend/internal/orders"
	"github.com/ajcastillo/gearmart-backend/internal/products"
	"github.com/ajcastillo/gearmart-backend/internal/users"
	"github.com/ajcastillo/gearmart-backend/pkg/config"
	"github.com/ajcastillo/gearmart-backend/pkg/db"
	"github.com/ajcastillo/gearmart-backend/pkg/db/models"
	"github.com/ajcastillo/gearmart-backend/pkg/livequery"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   fmt.Sprintf("file:store_%s?mode=memory&cache=shared", t.Name()),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.CreateSchema())

	st, err := New(client, livequery.NewBus())
	require.NoError(t, err)
	return st
}

func seedCatalog(t *testing.T, st *Store) (*models.User, *models.Product) {
	t.Helper()
	ctx := context.Background()

	user, err := st.Users.Create(ctx, users.CreateUserDTO{
		Username:     "shopper",
		Email:        "shopper@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	product, err := st.Products.Create(ctx, products.CreateProductDTO{
		Name:        "Graphics Card",
		Description: "12GB VRAM",
		Category:    "gpus",
		Price:       decimal.RequireFromString("399.00"),
		Stock:       4,
	})
	require.NoError(t, err)
	return user, product
}

func TestFacadePlaceOrderEndToEnd(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user, product := seedCatalog(t, st)

	_, err := st.Cart.AddItem(ctx, cart.AddItemInput{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  2,
	})
	require.NoError(t, err)

	placed, err := st.Orders.PlaceOrderFromCart(ctx, user.ID, "1 Main St")
	require.NoError(t, err)
	assert.True(t, placed.TotalAmount.Equal(decimal.RequireFromString("798.00")))

	items, err := st.Cart.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFacadePlaceOrderDelegates(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user, product := seedCatalog(t, st)

	placed, err := st.PlaceOrder(ctx, orders.PlaceOrderInput{
		UserID:          user.ID,
		Lines:           []orders.OrderLine{{ProductID: product.ID, Quantity: 1}},
		ShippingAddress: "1 Main St",
	})
	require.NoError(t, err)
	assert.NotZero(t, placed.OrderID)
}

func TestLiveSubscriptionSeesNewOrders(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user, product := seedCatalog(t, st)

	sub := st.Bus().Subscribe("orders")
	defer sub.Close()

	_, err := st.PlaceOrder(ctx, orders.PlaceOrderInput{
		UserID:          user.ID,
		Lines:           []orders.OrderLine{{ProductID: product.ID, Quantity: 1}},
		ShippingAddress: "1 Main St",
	})
	require.NoError(t, err)

	select {
	case ev := <-sub.Events():
		assert.Equal(t, "orders", ev.Table)
		assert.Equal(t, livequery.OpCreate, ev.Op)
	case <-time.After(time.Second):
		t.Fatal("no change event after placing an order")
	}
}
