package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/catalog"
	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/config"
	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/event"
	handler "github.com/shaha-expressitbd/shoppingbd-sub000/internal/handler/http"
	redisrepo "github.com/shaha-expressitbd/shoppingbd-sub000/internal/repository/redis"
	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/service"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/health"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/httpclient"
	pkgkafka "github.com/shaha-expressitbd/shoppingbd-sub000/pkg/kafka"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize tracing.
	tracingCfg := tracing.DefaultConfig("storefront")
	tracingCfg.Environment = cfg.Environment
	tracingCfg.OTLPEndpoint = cfg.OTLPEndpoint
	tracingCfg.SampleRate = cfg.TraceSampleRate
	tracingCfg.Enabled = cfg.TracingEnabled
	tracingShutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize tracing: %w", err)
	}

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	eventProducer := event.NewProducer(producer, logger)

	// Upstream clients. Catalog reads go through a circuit breaker;
	// order submission uses a non-retrying client so a slow success is
	// never duplicated.
	readClient := httpclient.New(httpclient.DefaultConfig())
	catalogBreaker := httpclient.NewCircuitBreakerClient(
		readClient, httpclient.DefaultCircuitBreakerConfig("catalog"), logger)
	catalogClient := catalog.NewClient(catalogBreaker, cfg.CatalogBaseURL, cfg.BusinessID, logger)
	orderClient := catalog.NewOrderClient(
		httpclient.New(httpclient.SubmitConfig()), cfg.OrderBaseURL, cfg.BusinessID)

	// Session-scoped stores.
	storeTTL := time.Duration(cfg.StoreTTL) * time.Hour
	cartRepo := redisrepo.NewCartRepository(rdb, storeTTL)
	wishlistRepo := redisrepo.NewWishlistRepository(rdb, storeTTL)
	settingsCache := redisrepo.NewSettingsCache(rdb, time.Duration(cfg.SettingsCacheTTL)*time.Minute)

	// Build the dependency graph.
	catalogService := catalog.NewService(catalogClient, settingsCache, logger)
	cartService := service.NewCartService(cartRepo, catalogClient, eventProducer, logger)
	wishlistService := service.NewWishlistService(wishlistRepo, catalogClient, eventProducer, logger)
	checkoutService := service.NewCheckoutService(
		cartService, catalogService, orderClient, eventProducer, logger, cfg.SiteBaseURL)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("catalog", func(ctx context.Context) error {
		_, err := catalogService.GetSettings(ctx)
		return err
	})

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		CartService:     cartService,
		WishlistService: wishlistService,
		CheckoutService: checkoutService,
		CatalogService:  catalogService,
		HealthHandler:   healthHandler,
		Logger:          logger,
		AllowedOrigins:  cfg.AllowedOrigins,
		Environment:     cfg.Environment,
		CheckoutRPS:     cfg.CheckoutRPS,
		CheckoutBurst:   cfg.CheckoutBurst,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Flush pending trace spans.
	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
