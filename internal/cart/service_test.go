package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajcastillo/gearmart-backend/internal/products"
	pkgerrors "github.com/ajcastillo/gearmart-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository, *products.Repository) {
	t.Helper()

	conn := setupCartTestDB(t)
	repo := NewRepository(conn)
	productRepo := products.NewRepository(conn)
	svc, err := NewService(repo, productRepo)
	require.NoError(t, err)
	return svc, repo, productRepo
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected coded error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestAddItemValidation(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	user, product := seedUserAndProduct(t, repo.db)

	_, err := svc.AddItem(ctx, AddItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 0})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.AddItem(ctx, AddItemInput{UserID: user.ID, ProductID: 9999, Quantity: 1})
	requireCode(t, err, pkgerrors.CodeNotFound)

	item, err := svc.AddItem(ctx, AddItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
}

func TestRemoveItemNotFound(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	user, _ := seedUserAndProduct(t, repo.db)
	requireCode(t, svc.RemoveItem(ctx, user.ID, 9999), pkgerrors.CodeNotFound)
}
