package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pharmstock/internal/config"
	"pharmstock/internal/database"
	custommiddleware "pharmstock/internal/middleware"
	"pharmstock/internal/repository"
	"pharmstock/internal/seed"
	"pharmstock/internal/service"
	"pharmstock/internal/store"
	"pharmstock/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  store.Store
}

// OpenStore builds the key-value backend selected by the configuration.
// The postgres backend also brings its schema up to date.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case "file":
		return store.NewFile(cfg.Store.Dir)
	case "redis":
		return store.NewRedis(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	case "postgres":
		pg, err := store.NewPostgres(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(pg.DB(), "migrations", logger); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func NewServer(cfg *config.Config, logger *zap.Logger, kv store.Store) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Rate limiting needs the redis backend's connection
	if cfg.RateLimit.Enabled {
		if rs, ok := kv.(*store.Redis); ok {
			router.Use(custommiddleware.RateLimitMiddleware(rs.Client(), custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
				Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
				KeyPrefix:         "ratelimit",
			}, logger))
		} else {
			logger.Warn("Rate limiting enabled but store backend is not redis; skipping",
				zap.String("backend", cfg.Store.Backend))
		}
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	seedSource := seed.New(cfg.Seed.Dir)
	productRepo := repository.NewProductRepository(kv, seedSource)
	transactionRepo := repository.NewTransactionRepository(kv, seedSource)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo)
	ledgerService := service.NewLedgerService(transactionRepo, productRepo)

	// Register routes
	transport.NewProductHandler(catalogService, ledgerService, logger).RegisterRoutes(router)
	transport.NewTransactionHandler(ledgerService, logger).RegisterRoutes(router)
	transport.NewReportHandler(catalogService, logger).RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		store:  kv,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("Failed to close store", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
