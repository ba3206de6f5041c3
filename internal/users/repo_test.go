package users

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

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:users_%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	for _, stmt := range db.SchemaStatements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func TestCreateAndFindUser(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Username:     "wanda",
		Email:        "wanda@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, enums.RoleUser, created.Role, "role defaults to USER")

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "wanda", byID.Username)

	byName, err := repo.FindByUsername(ctx, "wanda")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := repo.FindByEmail(ctx, "wanda@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateRoleAndDelete(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Username:     "victor",
		Email:        "victor@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateRole(ctx, created.ID, enums.RoleAdmin))
	reloaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleAdmin, reloaded.Role)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID), gorm.ErrRecordNotFound)
}

func TestDeleteUserCascadesDependents(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	buyer, err := repo.Create(ctx, CreateUserDTO{
		Username:     "buyer",
		Email:        "buyer@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	other, err := repo.Create(ctx, CreateUserDTO{
		Username:     "other",
		Email:        "other@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	price := decimal.RequireFromString("99.99")
	product := &models.Product{
		Name:        "SSD",
		Description: "NVMe drive",
		Category:    "Components",
		Price:       price,
		Stock:       5,
	}
	require.NoError(t, conn.Create(product).Error)

	require.NoError(t, conn.Create(&models.CartItem{
		UserID: buyer.ID, ProductID: product.ID, Quantity: 2,
	}).Error)
	require.NoError(t, conn.Create(&models.Review{
		UserID: buyer.ID, ProductID: product.ID, Rating: 4, Comment: "quick",
	}).Error)
	order := &models.Order{
		UserID:          buyer.ID,
		OrderDate:       time.Now().UTC(),
		Status:          enums.OrderStatusNew,
		TotalAmount:     price,
		ShippingAddress: "1 Main St",
	}
	require.NoError(t, conn.Create(order).Error)
	require.NoError(t, conn.Create(&models.OrderItem{
		OrderID: order.ID, ProductID: product.ID, Quantity: 1, PriceAtOrderTime: price,
	}).Error)

	// An unrelated user's cart must survive the delete.
	require.NoError(t, conn.Create(&models.CartItem{
		UserID: other.ID, ProductID: product.ID, Quantity: 1,
	}).Error)

	require.NoError(t, repo.Delete(ctx, buyer.ID))

	var cartItems, ordersLeft, orderItems, reviewsLeft int64
	require.NoError(t, conn.Model(&models.CartItem{}).Where("user_id = ?", buyer.ID).Count(&cartItems).Error)
	require.NoError(t, conn.Model(&models.Order{}).Count(&ordersLeft).Error)
	require.NoError(t, conn.Model(&models.OrderItem{}).Count(&orderItems).Error)
	require.NoError(t, conn.Model(&models.Review{}).Count(&reviewsLeft).Error)
	assert.Zero(t, cartItems, "buyer's cart items must cascade")
	assert.Zero(t, ordersLeft, "buyer's orders must cascade")
	assert.Zero(t, orderItems, "line items must follow their order")
	assert.Zero(t, reviewsLeft, "buyer's reviews must cascade")

	var otherCart int64
	require.NoError(t, conn.Model(&models.CartItem{}).Where("user_id = ?", other.ID).Count(&otherCart).Error)
	assert.EqualValues(t, 1, otherCart)

	_, err = repo.FindByID(ctx, buyer.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var productsLeft int64
	require.NoError(t, conn.Model(&models.Product{}).Count(&productsLeft).Error)
	assert.EqualValues(t, 1, productsLeft, "catalog rows are untouched by user deletes")
}

func TestListUsersPaginates(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, CreateUserDTO{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: "hash",
		})
		require.NoError(t, err)
	}

	first, err := repo.List(ctx, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, first.Users, 3)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.List(ctx, pagination.Params{Limit: 3, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Users, 2)
	assert.Empty(t, second.NextCursor)

	seen := map[uint]bool{}
	for _, u := range append(first.Users, second.Users...) {
		assert.False(t, seen[u.ID], "user %d appeared twice", u.ID)
		seen[u.ID] = true
	}
}

func TestUserDTOOmitsHash(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)

	created, err := repo.Create(context.Background(), CreateUserDTO{
		Username:     "nina",
		Email:        "nina@example.com",
		PasswordHash: "supersecret",
		Role:         enums.RoleAdmin,
	})
	require.NoError(t, err)

	dto := FromModel(created)
	assert.Equal(t, created.ID, dto.ID)
	assert.Equal(t, enums.RoleAdmin, dto.Role)
}
