package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tinytrail/tinytrail/internal/analytics"
	"github.com/tinytrail/tinytrail/internal/config"
	dbmigrate "github.com/tinytrail/tinytrail/internal/db"
	db "github.com/tinytrail/tinytrail/internal/db/sqlc"
	"github.com/tinytrail/tinytrail/internal/identity"
	"github.com/tinytrail/tinytrail/internal/metrics"
	"github.com/tinytrail/tinytrail/internal/server"
	"github.com/tinytrail/tinytrail/internal/shortener"
)

// App holds the application dependencies and configuration.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DBPool *pgxpool.Pool
	Server *server.Server
}

// New initializes and returns a new App instance with all dependencies wired up.
func New(ctx context.Context) (*App, error) {
	if err := loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.App.LogLevel)

	logger.Info("starting application",
		"env", cfg.App.Environment,
		"version", cfg.Observability.ServiceVersion,
	)

	// Connect to database
	dbPool, err := connectDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrateDatabase(dbPool, logger); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Setup application dependencies
	queries := db.New(dbPool)
	identities := identity.NewPostgresProvider(queries)

	shortenerRepo := shortener.NewRepository(dbPool, queries, nil)
	shortenerSvc := shortener.NewService(shortenerRepo, identities, nil)
	shortenerHandler := shortener.NewHandler(shortener.HandlerConfig{
		Service:  shortenerSvc,
		Identity: identities,
		Metrics:  metrics.New(registry),
		Logger:   logger,
		BaseURL:  cfg.Server.BaseURL,
	})

	analyticsSvc := analytics.NewService(analytics.NewRepository(queries))
	analyticsHandler := analytics.NewHandler(analytics.HandlerConfig{
		Service:  analyticsSvc,
		Identity: identities,
		Logger:   logger,
	})

	// Create server
	srv := server.New(cfg, logger, shortenerHandler, analyticsHandler, registry)

	logger.Info("application initialized",
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	return &App{
		Config: cfg,
		Logger: logger,
		DBPool: dbPool,
		Server: srv,
	}, nil
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("server starting",
		"port", a.Config.Server.Port,
		"base_url", a.Config.Server.BaseURL,
	)

	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.Logger.Info("shutting down application")

	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Info("database connection closed")
	}

	return nil
}

// loadEnv loads .env file only in non-production environments.
func loadEnv() error {
	env := os.Getenv("APP_ENV")
	if env == "development" || env == "test" {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("no .env file found.")
		}
	}
	return nil
}

// setupLogger creates a structured logger based on the log level.
func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

// connectDatabase establishes a connection to the PostgreSQL database.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Set pool configuration
	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")

	return pool, nil
}

// migrateDatabase applies pending schema migrations through a transient
// database/sql handle borrowed from the pool's configuration.
func migrateDatabase(pool *pgxpool.Pool, logger *slog.Logger) error {
	sqlDB := sql.OpenDB(stdlib.GetConnector(*pool.Config().ConnConfig))
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("failed to close migration handle", "error", err.Error())
		}
	}()

	if err := dbmigrate.Migrate(sqlDB); err != nil {
		return err
	}

	logger.Info("database migrations applied")
	return nil
}
