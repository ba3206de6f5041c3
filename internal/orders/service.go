package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ajcastillo/gearmart-backend/internal/cart"
	"github.com/ajcastillo/gearmart-backend/internal/products"
	"github.com/ajcastillo/gearmart-backend/pkg/db/models"
	"github.com/ajcastillo/gearmart-backend/pkg/enums"
	pkgerrors "github.com/ajcastillo/gearmart-backend/pkg/errors"
	"github.com/ajcastillo/gearmart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order operations with validation and coded errors.
type Service interface {
	// PlaceOrder reads live prices for the requested lines, freezes them
	// into order items, and creates the order atomically.
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlacedOrder, error)
	// PlaceOrderFromCart places an order from the user's current cart and
	// clears the cart in the same transaction.
	PlaceOrderFromCart(ctx context.Context, userID uint, shippingAddress string) (*PlacedOrder, error)
	Get(ctx context.Context, id uint) (*models.Order, error)
	ListForUser(ctx context.Context, userID uint, params pagination.Params) (*OrderList, error)
	ListAll(ctx context.Context, params pagination.Params) (*OrderList, error)
	UpdateStatus(ctx context.Context, orderID uint, status enums.OrderStatus) (*models.Order, error)
	HasCompletedOrderForProduct(ctx context.Context, userID, productID uint) (bool, error)
}

type service struct {
	repo     *Repository
	products *products.Repository
	cart     *cart.Repository
	tx       txRunner
}

// NewService builds an orders service with the required dependencies.
func NewService(repo *Repository, productRepo *products.Repository, cartRepo *cart.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repo is required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repo is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	return &service{repo: repo, products: productRepo, cart: cartRepo, tx: tx}, nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlacedOrder, error) {
	order, err := s.placeOrder(ctx, input, false)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) PlaceOrderFromCart(ctx context.Context, userID uint, shippingAddress string) (*PlacedOrder, error) {
	items, err := s.cart.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading cart")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return s.placeOrder(ctx, PlaceOrderInput{
		UserID:          userID,
		Lines:           lines,
		ShippingAddress: shippingAddress,
	}, true)
}

// placeOrder is the single multi-statement transaction of the system.
// Everything inside the WithTx closure commits together or not at all.
func (s *service) placeOrder(ctx context.Context, input PlaceOrderInput, clearCart bool) (*PlacedOrder, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}
	if input.ShippingAddress == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
	}

	var placed *PlacedOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		productRepo := s.products.WithTx(tx)

		// Live prices are read inside the transaction and frozen into the
		// line items. Later catalog price changes never touch the order.
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(input.Lines))
		for _, line := range input.Lines {
			product, err := productRepo.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound,
						fmt.Sprintf("product %d not found", line.ProductID))
				}
				return err
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineTotal)
			items = append(items, models.OrderItem{
				ProductID:        line.ProductID,
				Quantity:         line.Quantity,
				PriceAtOrderTime: product.Price,
			})
		}

		order := &models.Order{
			UserID:          input.UserID,
			OrderDate:       time.Now().UTC(),
			Status:          enums.OrderStatusNew,
			TotalAmount:     total,
			ShippingAddress: input.ShippingAddress,
		}
		if _, err := s.repo.WithTx(tx).CreateWithItems(ctx, order, items); err != nil {
			return err
		}

		if clearCart {
			if err := s.cart.WithTx(tx).ClearForUser(ctx, input.UserID); err != nil {
				return err
			}
		}

		placed = &PlacedOrder{
			OrderID:     order.ID,
			TotalAmount: order.TotalAmount,
			Status:      order.Status,
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "placing order")
	}
	return placed, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	return order, nil
}

func (s *service) ListForUser(ctx context.Context, userID uint, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListForUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "listing orders")
	}
	return list, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListAll(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "listing orders")
	}
	return list, nil
}

// statusRank orders the fulfillment states. Status only moves forward, which
// also makes COMPLETED terminal.
var statusRank = map[enums.OrderStatus]int{
	enums.OrderStatusNew:        0,
	enums.OrderStatusInProgress: 1,
	enums.OrderStatusCompleted:  2,
}

func (s *service) UpdateStatus(ctx context.Context, orderID uint, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	current, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if statusRank[status] < statusRank[current.Status] {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order status cannot move from %s back to %s", current.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	return s.Get(ctx, orderID)
}

func (s *service) HasCompletedOrderForProduct(ctx context.Context, userID, productID uint) (bool, error) {
	return s.repo.HasCompletedOrderForProduct(ctx, userID, productID)
}
