package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"hostel-service/internal/auth"
	"hostel-service/internal/config"
	"hostel-service/internal/crud"
	"hostel-service/internal/dashboard"
	"hostel-service/internal/db"
	"hostel-service/internal/directory"
	"hostel-service/internal/events"
	"hostel-service/internal/fee"
	"hostel-service/internal/health"
	"hostel-service/internal/logger"
	"hostel-service/internal/maintenance"
	"hostel-service/internal/metrics"
	"hostel-service/internal/middleware"
	"hostel-service/internal/report"
	"hostel-service/internal/room"
	"hostel-service/internal/student"
	"hostel-service/internal/telemetry"
	"hostel-service/internal/visitor"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

var now = time.Now

type App struct {
	config    *config.Config
	router    *gin.Engine
	server    *http.Server
	logger    *slog.Logger
	provider  *sdkmetric.MeterProvider
	db        *bun.DB
	redis     *redis.Client
	publisher events.Publisher
}

// New loads the configuration and builds the application.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(ctx, cfg, logger.NewForService(ServiceName, Version, cfg.Env))
}

func NewWithConfig(ctx context.Context, cfg *config.Config, slogLogger *slog.Logger) (*App, error) {
	slog.SetDefault(slogLogger)
	slogLogger.Info("initializing application", "env", cfg.Env, "version", Version, "commit", GitCommit)

	app := &App{config: cfg, logger: slogLogger}
	if err := app.init(ctx); err != nil {
		// release whatever was opened before the failure
		_ = app.Shutdown(ctx)
		return nil, err
	}

	slogLogger.Info("application initialized successfully")
	return app, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.config

	provider, err := telemetry.InitMeterProvider(ctx, cfg.Telemetry.OTLPEndpoint, ServiceName, Version, a.logger)
	if err != nil {
		return fmt.Errorf("failed to init telemetry: %w", err)
	}
	a.provider = provider
	meter := provider.Meter(ServiceName)

	m, err := metrics.New(ctx, meter, a.logger)
	if err != nil {
		return fmt.Errorf("failed to init metrics: %w", err)
	}
	if err := m.Health.RegisterServiceInfo(meter, ServiceName, Version, cfg.Env); err != nil {
		return fmt.Errorf("failed to register service info: %w", err)
	}

	var checks []health.Check

	if cfg.Storage.UsesPostgres() {
		database, err := db.New(ctx, cfg.Database, a.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = database
		if err := m.Database.ObservePool(meter, database.DB); err != nil {
			return fmt.Errorf("failed to observe database pool: %w", err)
		}
		if err := migrate(ctx, database, cfg.Storage); err != nil {
			return err
		}
		checks = append(checks, health.Check{Name: "database", Ping: database.PingContext})
	}

	var observers []crud.Observer
	pub, err := a.newPublisher(m.Events)
	if err != nil {
		return err
	}
	if pub != nil {
		a.publisher = pub
		observers = append(observers, events.Observer(pub, a.logger))
	}

	ks := openStores(a.db, cfg.Storage, m.Database)
	if err := seedStores(ctx, ks, newSampleGenerator(cfg.Sample), a.logger); err != nil {
		return err
	}
	stores := ks.observed(observers)
	dir := directory.New(stores.Students, stores.Rooms)

	var limiter middleware.Limiter
	if cfg.RateLimit.PerMinute > 0 {
		if cfg.RateLimit.Backend == "redis" {
			a.redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
			limiter = middleware.NewRedisWindow(a.redis, cfg.RateLimit.PerMinute)
			checks = append(checks, health.Check{Name: "redis", Ping: func(ctx context.Context) error {
				return a.redis.Ping(ctx).Err()
			}})
		} else {
			limiter = middleware.NewTokenBucket(cfg.RateLimit.PerMinute, cfg.RateLimit.PerMinute)
		}
	}

	httpMetrics := middleware.NewHTTPMetrics()

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(a.logger, "/health", "/ready", "/metrics"),
		middleware.CORS(cfg.Server.CORSOrigins),
		httpMetrics.Middleware(),
	)

	// Health and metrics endpoints (no auth required)
	health.NewHandler(m.Health, checks...).RegisterRoutes(router)
	router.GET("/metrics", httpMetrics.Handler())

	api := router.Group("/api")
	if limiter != nil {
		api.Use(middleware.RateLimit(limiter, a.logger))
	}

	if cfg.Auth.Enabled {
		tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
		admin := auth.Admin{Email: cfg.Auth.AdminEmail, PasswordHash: cfg.Auth.AdminPasswordHash}
		auth.NewHandler(auth.NewService(admin, tokens), a.logger, m.Hostel, cfg.Env == "prod").RegisterRoutes(router)
		api.Use(auth.RequireForWrites(tokens, a.logger))
	}

	crud.NewHandler(student.Kind, stores.Students, a.logger, m.Hostel).RegisterRoutes(api)
	crud.NewHandler(room.Kind, stores.Rooms, a.logger, m.Hostel).RegisterRoutes(api)
	crud.NewHandler(fee.Kind, stores.Fees, a.logger, m.Hostel,
		crud.WithExpander[fee.Fee](fee.NewExpander(dir))).RegisterRoutes(api)
	crud.NewHandler(visitor.Kind, stores.Visitors, a.logger, m.Hostel,
		crud.WithExpander[visitor.Visitor](visitor.NewExpander(dir))).RegisterRoutes(api)
	crud.NewHandler(maintenance.Kind, stores.Maintenance, a.logger, m.Hostel,
		crud.WithExpander[maintenance.Request](maintenance.NewExpander(dir))).RegisterRoutes(api)

	dashboard.NewHandler(stores, a.logger).RegisterRoutes(api)
	report.NewHandler(report.NewGenerator(stores, dir), a.logger, m.Hostel).RegisterRoutes(api)

	a.router = router
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}
	return nil
}

func (a *App) newPublisher(recorder events.PublishRecorder) (events.Publisher, error) {
	cfg := a.config
	switch cfg.Events.Backend {
	case "nats":
		pub, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, a.logger, recorder)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		return pub, nil
	case "kafka":
		pub, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, a.logger, recorder)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Kafka: %w", err)
		}
		return pub, nil
	default:
		return nil, nil
	}
}

// Handler exposes the router, e.g. for httptest.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves until Shutdown is called. It may run on its own goroutine
// while another one calls Shutdown.
func (a *App) Run() error {
	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server and closes every connection the app opened.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var errs []error
	if a.server != nil {
		errs = append(errs, a.server.Shutdown(ctx))
	}
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	errs = append(errs, telemetry.Shutdown(ctx, a.provider, a.logger))
	return errors.Join(errs...)
}
