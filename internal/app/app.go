package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eleven-jw/ecom-lab/pkg/database"
	"github.com/eleven-jw/ecom-lab/pkg/health"
	"github.com/eleven-jw/ecom-lab/pkg/httpclient"
	pkgkafka "github.com/eleven-jw/ecom-lab/pkg/kafka"
	"github.com/eleven-jw/ecom-lab/pkg/tracing"

	"github.com/eleven-jw/ecom-lab/internal/auth"
	"github.com/eleven-jw/ecom-lab/internal/client"
	"github.com/eleven-jw/ecom-lab/internal/config"
	"github.com/eleven-jw/ecom-lab/internal/event"
	"github.com/eleven-jw/ecom-lab/internal/gateway"
	handler "github.com/eleven-jw/ecom-lab/internal/handler/http"
	redisrepo "github.com/eleven-jw/ecom-lab/internal/repository/redis"
	"github.com/eleven-jw/ecom-lab/internal/service"
)

// App wires together all dependencies and runs the storefront core.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storecore",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize Redis client.
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Outbound HTTP: retrying client behind a circuit breaker.
	httpClient := httpclient.New(httpclient.DefaultConfig())
	backendClient := httpclient.NewCircuitBreakerClient(
		httpClient,
		httpclient.DefaultCircuitBreakerConfig("backend"),
		logger,
	)

	// Build the dependency graph.
	authClient := client.NewAuthClient(backendClient, cfg.BackendURL, logger)
	catalogClient := client.NewCatalogClient(backendClient, cfg.BackendURL)
	sessionStore := redisrepo.NewSessionStore(rdb)
	eventProducer := event.NewProducer(producer, logger)
	decoder := auth.NewDecoder()

	sessions := service.NewSessionManager(authClient, sessionStore, decoder, eventProducer, logger)
	if err := sessions.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	gw := gateway.New(backendClient, cfg.BackendURL, sessions, logger)

	cartService := service.NewCartService(logger)
	addressService := service.NewAddressService(logger)
	orderService := service.NewOrderService(eventProducer, logger)
	afterSaleService := service.NewAfterSaleService(eventProducer, logger)
	checkoutService := service.NewCheckoutService(cartService, addressService, orderService, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	// HTTP router.
	router := handler.NewRouter(handler.RouterDeps{
		Sessions:      sessions,
		Cart:          cartService,
		Addresses:     addressService,
		Orders:        orderService,
		AfterSale:     afterSaleService,
		Checkout:      checkoutService,
		Gateway:       gw,
		Catalog:       catalogClient,
		HealthHandler: healthHandler,
		Logger:        logger,
		Environment:   cfg.Environment,
		CORSOrigins:   cfg.CORSAllowedOrigins,
		PprofCIDRs:    cfg.PprofCIDRs,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Flush pending spans after HTTP drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
