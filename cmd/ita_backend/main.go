package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	"github.com/SwapHands/item_trading_app/internal/core/services"
	"github.com/SwapHands/item_trading_app/internal/handlers"
	"github.com/SwapHands/item_trading_app/internal/middleware"
	"github.com/SwapHands/item_trading_app/internal/repositories/database/memory"
	"github.com/SwapHands/item_trading_app/internal/repositories/database/pgsql"
	"github.com/SwapHands/item_trading_app/internal/repositories/database/sqlite"
	"github.com/SwapHands/item_trading_app/internal/repositories/relations"
	"github.com/SwapHands/item_trading_app/pkg/config"
	"github.com/SwapHands/item_trading_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	store, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage backend", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	svcs, err := services.NewContainer(ctx, cfg, store, relations.NewResolver(store))
	if err != nil {
		logger.Error("Failed to initialize services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, svcs)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageBackend))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// openStore picks the persistence backend from config and returns the store
// along with a cleanup func to release its resources on shutdown.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.Store, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendPgsql:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store, err := pgsql.NewStore(ctx, pool)
		if err != nil {
			database.ClosePgxPool(pool)
			return nil, nil, err
		}
		logger.Info("Database connection pool established.")
		return store, func() { database.ClosePgxPool(pool) }, nil
	case config.BackendSQLite:
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("SQLite database opened", slog.String("path", cfg.SQLitePath))
		return store, func() {
			if cerr := store.Close(); cerr != nil {
				logger.Error("Error closing SQLite database", slog.String("error", cerr.Error()))
			}
		}, nil
	default:
		logger.Info("Using in-memory storage, data will not persist across restarts")
		return memory.NewStore(), func() {}, nil
	}
}
