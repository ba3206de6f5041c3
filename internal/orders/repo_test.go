package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ajcastillo/gearmart-backend/pkg/db"
	"github.com/ajcastillo/gearmart-backend/pkg/db/models"
	"github.com/ajcastillo/gearmart-backend/pkg/enums"
	"github.com/ajcastillo/gearmart-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:orders_%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	for _, stmt := range db.SchemaStatements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, conn *gorm.DB, name, price string) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:        name,
		Description: name,
		Category:    "misc",
		Price:       decimal.RequireFromString(price),
		Stock:       10,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestCreateWithItemsStampsOrderID(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := seedUser(t, conn, "buyer")
	product := seedProduct(t, conn, "SSD", "99.99")

	order := &models.Order{
		UserID:          user.ID,
		OrderDate:       time.Now().UTC(),
		Status:          enums.OrderStatusNew,
		TotalAmount:     decimal.RequireFromString("199.98"),
		ShippingAddress: "1 Main St",
	}
	items := []models.OrderItem{
		{ProductID: product.ID, Quantity: 2, PriceAtOrderTime: decimal.RequireFromString("99.99")},
	}

	created, err := repo.CreateWithItems(ctx, order, items)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Len(t, created.Items, 1)
	assert.Equal(t, created.ID, created.Items[0].OrderID)

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.True(t, loaded.Items[0].PriceAtOrderTime.Equal(decimal.RequireFromString("99.99")))
}

func TestCreateWithItemsRollsBackAtomically(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := seedUser(t, conn, "buyer")
	product := seedProduct(t, conn, "SSD", "99.99")

	injected := fmt.Errorf("boom")
	err := conn.Transaction(func(tx *gorm.DB) error {
		order := &models.Order{
			UserID:          user.ID,
			OrderDate:       time.Now().UTC(),
			TotalAmount:     decimal.RequireFromString("99.99"),
			ShippingAddress: "1 Main St",
		}
		items := []models.OrderItem{
			{ProductID: product.ID, Quantity: 1, PriceAtOrderTime: product.Price},
		}
		if _, err := repo.WithTx(tx).CreateWithItems(ctx, order, items); err != nil {
			return err
		}
		// Failure after both inserts must discard the whole placement.
		return injected
	})
	require.ErrorIs(t, err, injected)

	var orderCount, itemCount int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, conn.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
}

func TestListForUserPaginates(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	buyer := seedUser(t, conn, "buyer")
	other := seedUser(t, conn, "other")

	for i := 0; i < 4; i++ {
		_, err := repo.CreateWithItems(ctx, &models.Order{
			UserID:          buyer.ID,
			OrderDate:       time.Now().UTC(),
			TotalAmount:     decimal.RequireFromString("10.00"),
			ShippingAddress: "1 Main St",
		}, nil)
		require.NoError(t, err)
	}
	_, err := repo.CreateWithItems(ctx, &models.Order{
		UserID:          other.ID,
		OrderDate:       time.Now().UTC(),
		TotalAmount:     decimal.RequireFromString("5.00"),
		ShippingAddress: "2 Side St",
	}, nil)
	require.NoError(t, err)

	page, err := repo.ListForUser(ctx, buyer.ID, pagination.Params{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 3)
	require.NotEmpty(t, page.NextCursor)

	rest, err := repo.ListForUser(ctx, buyer.ID, pagination.Params{Limit: 3, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Len(t, rest.Orders, 1)
	assert.Empty(t, rest.NextCursor)

	all, err := repo.ListAll(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, all.Orders, 5)
}

func TestUpdateStatus(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	buyer := seedUser(t, conn, "buyer")
	created, err := repo.CreateWithItems(ctx, &models.Order{
		UserID:          buyer.ID,
		OrderDate:       time.Now().UTC(),
		Status:          enums.OrderStatusNew,
		TotalAmount:     decimal.RequireFromString("10.00"),
		ShippingAddress: "1 Main St",
	}, nil)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, created.ID, enums.OrderStatusInProgress))
	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusInProgress, loaded.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, 9999, enums.OrderStatusCompleted), gorm.ErrRecordNotFound)
}

func TestHasCompletedOrderForProduct(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	buyer := seedUser(t, conn, "buyer")
	product := seedProduct(t, conn, "GPU", "499.99")

	created, err := repo.CreateWithItems(ctx, &models.Order{
		UserID:          buyer.ID,
		OrderDate:       time.Now().UTC(),
		Status:          enums.OrderStatusNew,
		TotalAmount:     product.Price,
		ShippingAddress: "1 Main St",
	}, []models.OrderItem{
		{ProductID: product.ID, Quantity: 1, PriceAtOrderTime: product.Price},
	})
	require.NoError(t, err)

	has, err := repo.HasCompletedOrderForProduct(ctx, buyer.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, has, "NEW orders do not count")

	require.NoError(t, repo.UpdateStatus(ctx, created.ID, enums.OrderStatusCompleted))

	has, err = repo.HasCompletedOrderForProduct(ctx, buyer.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasCompletedOrderForProduct(ctx, buyer.ID+1, product.ID)
	require.NoError(t, err)
	assert.False(t, has, "scoped to the purchasing user")
}
