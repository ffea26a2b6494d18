package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/deliverydash-backend/api/controllers"
	"github.com/angelmondragon/deliverydash-backend/api/middleware"
	"github.com/angelmondragon/deliverydash-backend/internal/auth"
	"github.com/angelmondragon/deliverydash-backend/internal/cart"
	"github.com/angelmondragon/deliverydash-backend/internal/catalog"
	"github.com/angelmondragon/deliverydash-backend/internal/orders"
	"github.com/angelmondragon/deliverydash-backend/internal/theme"
	"github.com/angelmondragon/deliverydash-backend/internal/users"
	"github.com/angelmondragon/deliverydash-backend/pkg/auth/session"
	"github.com/angelmondragon/deliverydash-backend/pkg/config"
	"github.com/angelmondragon/deliverydash-backend/pkg/enums"
	"github.com/angelmondragon/deliverydash-backend/pkg/logger"
	"github.com/angelmondragon/deliverydash-backend/pkg/metrics"
)

// Dependencies is everything the router hands to controllers and middleware.
// Nil services answer INTERNAL_ERROR; nil pingers are skipped by readiness.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions session.AccessSessionChecker
	Limiter  middleware.WindowLimiter
	Pingers  map[string]controllers.Pinger

	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	Auth    auth.Service
	Catalog catalog.Service
	Cart    cart.Service
	Orders  orders.Service
	Users   users.Service
	Theme   theme.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	signInPolicy := middleware.NewAuthRateLimitPolicy(
		"signin",
		cfg.AuthRateLimit.SignInWindow,
		cfg.AuthRateLimit.SignInIPLimit,
		cfg.AuthRateLimit.SignInEmailLimit,
	)
	signUpPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignUpWindow,
		cfg.AuthRateLimit.SignUpIPLimit,
		cfg.AuthRateLimit.SignUpEmailLimit,
	)
	requireAuth := middleware.Auth(cfg.JWT, deps.Sessions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/theme", controllers.GetTheme(deps.Theme, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Catalog, logg))
			r.Get("/{productId}", controllers.GetProduct(deps.Catalog, logg))
			r.Post("/{productId}/quote", controllers.QuoteProduct(deps.Catalog, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(signUpPolicy, deps.Limiter, logg)).Post("/signup", controllers.AuthSignUp(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(signInPolicy, deps.Limiter, logg)).Post("/signin", controllers.AuthSignIn(deps.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
			r.With(requireAuth).Post("/signout", controllers.AuthSignOut(deps.Auth, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/me", controllers.Me(deps.Auth, logg))
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Cart, logg))
				r.Delete("/", controllers.ClearCart(deps.Cart, logg))
				r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
				r.Delete("/items/{index}", controllers.RemoveCartItem(deps.Cart, logg))
			})
			r.Post("/checkout", controllers.Checkout(deps.Orders, logg))
			r.Get("/orders", controllers.ListMyOrders(deps.Orders, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(deps.Catalog, logg))
			r.Put("/{productId}", controllers.AdminUpdateProduct(deps.Catalog, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.Catalog, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
		})
		r.Get("/users", controllers.AdminListUsers(deps.Users, logg))
		r.Get("/users/{userId}", controllers.AdminGetUser(deps.Users, logg))
		r.Get("/theme", controllers.GetTheme(deps.Theme, logg))
		r.Put("/theme", controllers.AdminSaveTheme(deps.Theme, logg))
	})

	return r
}
