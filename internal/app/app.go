package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kanavphull/stores-rest-api/internal/auth"
	"github.com/kanavphull/stores-rest-api/internal/config"
	"github.com/kanavphull/stores-rest-api/internal/event"
	handler "github.com/kanavphull/stores-rest-api/internal/handler/http"
	"github.com/kanavphull/stores-rest-api/internal/mailer"
	"github.com/kanavphull/stores-rest-api/internal/repository/postgres"
	redisrepo "github.com/kanavphull/stores-rest-api/internal/repository/redis"
	"github.com/kanavphull/stores-rest-api/internal/service"
	"github.com/kanavphull/stores-rest-api/migrations"
	"github.com/kanavphull/stores-rest-api/pkg/database"
	"github.com/kanavphull/stores-rest-api/pkg/health"
	"github.com/kanavphull/stores-rest-api/pkg/httpclient"
	pkgkafka "github.com/kanavphull/stores-rest-api/pkg/kafka"
)

// App wires together all dependencies and runs the stores REST API.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize PostgreSQL connection pool.
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPass
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSL

	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "stores")

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.Files, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Token blocklist backend.
	var (
		blocklist   auth.Blocklist
		redisClient *redis.Client
	)
	if cfg.BlocklistBackend == "redis" {
		redisCfg := database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		redisClient, err = database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		blocklist = redisrepo.NewBlocklist(redisClient)
		logger.Info("redis blocklist initialized", slog.String("addr", redisCfg.Addr()))
	} else {
		blocklist = auth.NewMemoryBlocklist()
		logger.Info("in-memory blocklist initialized")
	}

	// Kafka producer for the user.registered event.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Welcome email sender. Without credentials, emails are only logged.
	var sender mailer.Sender
	if cfg.MailgunAPIKey != "" && cfg.MailgunDomain != "" {
		client := httpclient.New(httpclient.DefaultConfig())
		sender = mailer.NewMailgunSender(client, cfg.MailgunBaseURL, cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailFrom)
		logger.Info("mailgun sender initialized", slog.String("domain", cfg.MailgunDomain))
	} else {
		sender = mailer.NewLogSender(logger)
		logger.Info("log-only mail sender initialized")
	}

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userRepo := postgres.NewUserRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	tagRepo := postgres.NewTagRepository(pool)
	eventProducer := event.NewProducer(producer, logger)

	authService := service.NewAuthService(userRepo, blocklist, jwtManager, eventProducer, sender, logger)
	storeService := service.NewStoreService(storeRepo, logger)
	itemService := service.NewItemService(itemRepo, logger)
	tagService := service.NewTagService(tagRepo, itemRepo, storeRepo, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// HTTP router.
	router := handler.NewRouter(
		authService,
		storeService,
		itemService,
		tagService,
		healthHandler,
		logger,
		handler.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		redis:      redisClient,
		producer:   producer,
		httpServer: httpServer,
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

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Kafka producer
// 3. Redis client
// 4. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// 1. Drain in-flight HTTP requests (5s budget).
	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 2. Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 3. Close Redis client.
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// 4. Close PostgreSQL pool.
	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
