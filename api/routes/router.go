package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ajcastillo/gearmart-backend/api/controllers"
	"github.com/ajcastillo/gearmart-backend/api/middleware"
	"github.com/ajcastillo/gearmart-backend/internal/auth"
	"github.com/ajcastillo/gearmart-backend/internal/store"
	"github.com/ajcastillo/gearmart-backend/pkg/auth/session"
	"github.com/ajcastillo/gearmart-backend/pkg/config"
	"github.com/ajcastillo/gearmart-backend/pkg/enums"
	"github.com/ajcastillo/gearmart-backend/pkg/logger"
	"github.com/ajcastillo/gearmart-backend/pkg/metrics"
	redisclient "github.com/ajcastillo/gearmart-backend/pkg/redis"
)

// NewRouter assembles the HTTP surface over the data-access facade.
// redisClient and sessions may be nil; rate limiting, idempotency replay,
// and refresh sessions are then disabled.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	st *store.Store,
	authService auth.Service,
	sessions session.AccessSessionChecker,
	redisClient *redisclient.Client,
	httpMetrics *metrics.HTTPMetrics,
	promHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginAccountLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterAccountLimit,
	)

	var idemStore redisclient.IdempotencyStore
	if redisClient != nil {
		idemStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		if redisClient != nil {
			r.Get("/ready", controllers.HealthReady(cfg, logg, st.Client(), redisClient))
		} else {
			r.Get("/ready", controllers.HealthReady(cfg, logg, st.Client(), nil))
		}
	})

	if promHandler != nil {
		r.Method(http.MethodGet, "/metrics", promHandler)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.Idempotency(idemStore, logg))
		if redisClient != nil {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		} else {
			r.Post("/login", controllers.AuthLogin(authService, logg))
			r.Post("/register", controllers.AuthRegister(authService, logg))
		}
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, cfg.JWT, logg))
	})

	// Public catalog reads.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(st.Products, logg))
		r.Get("/{productId}", controllers.ProductDetail(st.Products, logg))
		r.Get("/{productId}/accessories", controllers.ProductAccessories(st.Products, logg))
		r.Get("/{productId}/reviews", controllers.ProductReviews(st.Reviews, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Get("/stream", controllers.StreamChanges(st.Bus(), logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(st.Cart, logg))
			r.Put("/", controllers.CartUpsert(st.Cart, logg))
			r.Delete("/", controllers.CartClear(st.Cart, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(st.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderPlace(st.Orders, logg))
			r.Post("/checkout", controllers.OrderCheckout(st.Orders, logg))
			r.Get("/", controllers.OrderList(st.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(st.Orders, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", controllers.ReviewCreate(st.Reviews, logg))
			r.Get("/mine", controllers.MyReviews(st.Reviews, logg))
			r.Delete("/{reviewId}", controllers.ReviewDelete(st.Reviews, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(st.Products, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(st.Products, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(st.Products, logg))
			r.Post("/{productId}/accessories/{accessoryId}", controllers.AdminProductLinkAccessory(st.Products, logg))
			r.Delete("/{productId}/accessories/{accessoryId}", controllers.AdminProductUnlinkAccessory(st.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(st.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(st.Orders, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUserList(st.Users, logg))
			r.Get("/{userId}", controllers.AdminUserDetail(st.Users, logg))
			r.Patch("/{userId}/role", controllers.AdminUserUpdateRole(st.Users, logg))
			r.Delete("/{userId}", controllers.AdminUserDelete(st.Users, logg))
		})
	})

	return r
}
