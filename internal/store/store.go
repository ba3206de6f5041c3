// Package store assembles the repositories and services over one database
// handle and exposes them as a single façade. Apart from PlaceOrder, every
// method on the underlying services is plain delegation.
package store

import (
	"context"
	"fmt"

	"github.com/ajcastillo/gearmart-backend/internal/cart"
	"github.com/ajcastillo/gearmart-backend/internal/orders"
	"github.com/ajcastillo/gearmart-backend/internal/products"
	"github.com/ajcastillo/gearmart-backend/internal/reviews"
	"github.com/ajcastillo/gearmart-backend/internal/users"
	"github.com/ajcastillo/gearmart-backend/pkg/db"
	"github.com/ajcastillo/gearmart-backend/pkg/livequery"
)

// Store is the aggregate data-access façade handed to the API layer.
type Store struct {
	client *db.Client
	bus    *livequery.Bus

	Users    *users.Repository
	Products products.Service
	Cart     cart.Service
	Orders   orders.Service
	Reviews  reviews.Service
}

// New wires the repositories and services over the client's connection and
// hooks the livequery plugin so every committed write lands on the bus.
func New(client *db.Client, bus *livequery.Bus) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if bus == nil {
		bus = livequery.NewBus()
	}

	if err := client.DB().Use(livequery.NewPlugin(bus)); err != nil {
		return nil, fmt.Errorf("registering livequery plugin: %w", err)
	}

	conn := client.DB()
	userRepo := users.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	reviewRepo := reviews.NewRepository(conn)

	productSvc, err := products.NewService(productRepo)
	if err != nil {
		return nil, err
	}
	cartSvc, err := cart.NewService(cartRepo, productRepo)
	if err != nil {
		return nil, err
	}
	orderSvc, err := orders.NewService(orderRepo, productRepo, cartRepo, client)
	if err != nil {
		return nil, err
	}
	reviewSvc, err := reviews.NewService(reviewRepo, productRepo, orderRepo)
	if err != nil {
		return nil, err
	}

	return &Store{
		client:   client,
		bus:      bus,
		Users:    userRepo,
		Products: productSvc,
		Cart:     cartSvc,
		Orders:   orderSvc,
		Reviews:  reviewSvc,
	}, nil
}

// PlaceOrder freezes live prices into an atomic order. Delegates to the
// orders service; kept on the façade because it is the one cross-repo write.
func (s *Store) PlaceOrder(ctx context.Context, input orders.PlaceOrderInput) (*orders.PlacedOrder, error) {
	return s.Orders.PlaceOrder(ctx, input)
}

// Bus exposes the change bus for live subscriptions.
func (s *Store) Bus() *livequery.Bus {
	return s.bus
}

// Client exposes the underlying database client.
func (s *Store) Client() *db.Client {
	return s.client
}
