package db

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ajcastillo/gearmart-backend/pkg/config"
	"github.com/ajcastillo/gearmart-backend/pkg/db/models"
	dbtypes "github.com/ajcastillo/gearmart-backend/pkg/db/types"
	"github.com/ajcastillo/gearmart-backend/pkg/enums"
	"github.com/ajcastillo/gearmart-backend/pkg/logger"
	"github.com/ajcastillo/gearmart-backend/pkg/security"
)

// MaybeSeedDemo populates demo rows in the background when this process
// created the store file. Reopening an existing store never reseeds. Seeding
// is best effort: failures are logged and swallowed, and the caller is never
// blocked on it.
func MaybeSeedDemo(client *Client, cfg *config.Config, logg *logger.Logger) {
	if client == nil || cfg == nil || !cfg.FeatureFlags.SeedDemo {
		return
	}
	if !client.FreshStore() {
		return
	}

	go func() {
		ctx := context.Background()
		if err := seedDemoData(ctx, client, cfg.Password); err != nil {
			if logg != nil {
				logg.Warn(ctx, "demo seed failed: "+err.Error())
			}
			return
		}
		if logg != nil {
			logg.Info(ctx, "demo data seeded")
		}
	}()
}

// seedDemoData writes the fixed demo dataset: an admin, a shopper, three
// products (one an accessory), one review, and one completed order with a
// single line item.
func seedDemoData(ctx context.Context, client *Client, pwCfg config.PasswordConfig) error {
	return client.WithTx(ctx, func(tx *gorm.DB) error {
		adminHash, err := security.HashPassword("admin123", pwCfg)
		if err != nil {
			return err
		}
		userHash, err := security.HashPassword("user123", pwCfg)
		if err != nil {
			return err
		}

		admin := &models.User{
			Username:     "admin",
			Email:        "admin@gearmart.dev",
			PasswordHash: adminHash,
			Role:         enums.RoleAdmin,
		}
		shopper := &models.User{
			Username:     "demo",
			Email:        "demo@gearmart.dev",
			PasswordHash: userHash,
			Role:         enums.RoleUser,
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		if err := tx.Create(shopper).Error; err != nil {
			return err
		}

		keyboard := &models.Product{
			Name:           "Mechanical Keyboard TKL",
			Description:    "Tenkeyless mechanical keyboard with hot-swappable switches.",
			Category:       "Peripherals",
			Price:          decimal.NewFromFloat(89.99),
			Stock:          25,
			Rating:         4.5,
			ReviewSnippets: dbtypes.StringList{"Great typing feel"},
		}
		gpu := &models.Product{
			Name:           "RTX 4070 Graphics Card",
			Description:    "12GB GDDR6X graphics card for gaming and compute.",
			Category:       "Components",
			Price:          decimal.NewFromFloat(599.00),
			Stock:          8,
			Rating:         5,
			ReviewSnippets: dbtypes.StringList{},
		}
		if err := tx.Create(keyboard).Error; err != nil {
			return err
		}
		if err := tx.Create(gpu).Error; err != nil {
			return err
		}

		wristRest := &models.Product{
			ParentProductID: &keyboard.ID,
			Name:            "Keyboard Wrist Rest",
			Description:     "Memory foam wrist rest sized for TKL boards.",
			Category:        "Accessories",
			Price:           decimal.NewFromFloat(19.99),
			Stock:           40,
			ReviewSnippets:  dbtypes.StringList{},
		}
		if err := tx.Create(wristRest).Error; err != nil {
			return err
		}
		link := &models.ProductAccessory{ProductID: keyboard.ID, AccessoryID: wristRest.ID}
		if err := tx.Create(link).Error; err != nil {
			return err
		}

		review := &models.Review{
			UserID:    shopper.ID,
			ProductID: keyboard.ID,
			Rating:    5,
			Comment:   "Solid board, the stabilizers are factory lubed.",
		}
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		order := &models.Order{
			UserID:          shopper.ID,
			OrderDate:       time.Now().UTC(),
			Status:          enums.OrderStatusCompleted,
			TotalAmount:     keyboard.Price,
			ShippingAddress: "1 Demo Street, Springfield",
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		item := &models.OrderItem{
			OrderID:          order.ID,
			ProductID:        keyboard.ID,
			Quantity:         1,
			PriceAtOrderTime: keyboard.Price,
		}
		return tx.Create(item).Error
	})
}
