package products

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ajcastillo/gearmart-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()

	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected coded error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestServiceCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductDTO{
		Name:        "Bad Price",
		Description: "x",
		Category:    "misc",
		Price:       decimal.RequireFromString("-1"),
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	missing := uint(9999)
	_, err = svc.Create(ctx, CreateProductDTO{
		Name:            "Orphan",
		Description:     "x",
		Category:        "misc",
		Price:           decimal.RequireFromString("1.00"),
		ParentProductID: &missing,
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceGetNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), 404)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceLinkAccessoryGuards(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	keyboard := newProduct(t, repo, "Keyboard", "79.99")
	wristRest := newProduct(t, repo, "Wrist Rest", "19.99")

	requireCode(t, svc.LinkAccessory(ctx, keyboard.ID, keyboard.ID), pkgerrors.CodeValidation)
	requireCode(t, svc.LinkAccessory(ctx, keyboard.ID, 9999), pkgerrors.CodeNotFound)

	require.NoError(t, svc.LinkAccessory(ctx, keyboard.ID, wristRest.ID))
	requireCode(t, svc.LinkAccessory(ctx, keyboard.ID, wristRest.ID), pkgerrors.CodeConflict)
}

func TestServiceUpdateAndDelete(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	product := newProduct(t, repo, "Monitor", "199.99")

	name := "27in Monitor"
	stock := 3
	updated, err := svc.Update(ctx, product.ID, UpdateProductDTO{Name: &name, Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, "27in Monitor", updated.Name)
	assert.Equal(t, 3, updated.Stock)

	badPrice := decimal.RequireFromString("-5")
	_, err = svc.Update(ctx, product.ID, UpdateProductDTO{Price: &badPrice})
	requireCode(t, err, pkgerrors.CodeValidation)

	require.NoError(t, svc.Delete(ctx, product.ID))
	requireCode(t, svc.Delete(ctx, product.ID), pkgerrors.CodeNotFound)
}
