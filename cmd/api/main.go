package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/deliverydash-backend/api"
	"github.com/angelmondragon/deliverydash-backend/api/controllers"
	"github.com/angelmondragon/deliverydash-backend/api/routes"
	"github.com/angelmondragon/deliverydash-backend/internal/auth"
	"github.com/angelmondragon/deliverydash-backend/internal/cart"
	"github.com/angelmondragon/deliverydash-backend/internal/catalog"
	"github.com/angelmondragon/deliverydash-backend/internal/orders"
	"github.com/angelmondragon/deliverydash-backend/internal/pricing"
	"github.com/angelmondragon/deliverydash-backend/internal/theme"
	"github.com/angelmondragon/deliverydash-backend/internal/users"
	"github.com/angelmondragon/deliverydash-backend/pkg/auth/session"
	"github.com/angelmondragon/deliverydash-backend/pkg/config"
	"github.com/angelmondragon/deliverydash-backend/pkg/db"
	"github.com/angelmondragon/deliverydash-backend/pkg/logger"
	"github.com/angelmondragon/deliverydash-backend/pkg/metrics"
	"github.com/angelmondragon/deliverydash-backend/pkg/migrate"
	"github.com/angelmondragon/deliverydash-backend/pkg/pubsub"
	"github.com/angelmondragon/deliverydash-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i].Close())
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return err
	}
	closers = append(closers, dbClient)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	closers = append(closers, redisClient)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	pingers := map[string]controllers.Pinger{"db": dbClient, "redis": redisClient}

	var publisher orders.Publisher = pubsub.NoopPublisher{}
	if cfg.PubSub.Enabled() {
		psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			return err
		}
		closers = append(closers, psClient)
		topic, err := pubsub.NewTopicPublisher(psClient.OrdersPublisher())
		if err != nil {
			return err
		}
		defer topic.Stop()
		publisher = topic
		pingers["pubsub"] = psClient
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	userRepo := users.NewRepository(dbClient.DB())
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		AdminConfig:    cfg.Admin,
		Logger:         logg,
	})
	if err != nil {
		return err
	}

	usersService, err := users.NewService(userRepo)
	if err != nil {
		return err
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), dbClient, logg, catalog.Options{
		Cache:    redisClient,
		CacheTTL: cfg.Catalog.CacheTTL,
	})
	if err != nil {
		return err
	}

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(cartStore, catalogService, pricing.NewStaleLogger(logg, storefrontMetrics), storefrontMetrics, logg)
	if err != nil {
		return err
	}
	unsubscribe := authService.Subscribe(cartService.OnSessionEvent)
	defer unsubscribe()

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:      orders.NewRepository(dbClient.DB()),
		DB:        dbClient,
		Carts:     cartService,
		Publisher: publisher,
		Metrics:   storefrontMetrics,
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	themeService, err := theme.NewService(theme.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	router := routes.NewRouter(routes.Dependencies{
		Config:      cfg,
		Logger:      logg,
		Sessions:    sessionManager,
		Limiter:     redisClient,
		Pingers:     pingers,
		Registry:    registry,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
		Auth:        authService,
		Catalog:     catalogService,
		Cart:        cartService,
		Orders:      ordersService,
		Users:       usersService,
		Theme:       themeService,
	})

	server := api.NewServer(cfg, router)
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": server.Addr,
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
