package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/drstein77/storefront/internal/catalog"
	"github.com/drstein77/storefront/internal/config"
	"github.com/drstein77/storefront/internal/controllers"
	"github.com/drstein77/storefront/internal/dbkeeper"
	"github.com/drstein77/storefront/internal/litekeeper"
	"github.com/drstein77/storefront/internal/logger"
	"github.com/drstein77/storefront/internal/rediskeeper"
	"github.com/drstein77/storefront/internal/storage"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"
)

type Server struct {
	srv    *http.Server
	ctx    context.Context
	keeper storage.Keeper

	Log *logger.Logger
}

// NewServer builds the service from flags and environment: the slot
// keeper, the cart and session stores and the HTTP router.
func NewServer(ctx context.Context) (*Server, error) {
	option := config.NewOptions()
	option.ParseFlags()

	return NewServerWithOptions(ctx, option)
}

// NewServerWithOptions builds the service from already parsed options.
func NewServerWithOptions(ctx context.Context, option *config.Options) (*Server, error) {
	nLogger, err := logger.NewLogger(option.LogLevel())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	keeper, err := newKeeper(ctx, option, nLogger)
	if err != nil {
		return nil, err
	}

	carts := storage.NewCartStore(ctx, keeper, nLogger.With(zap.String("component", "cart")))
	sessions := storage.NewSessionStore(ctx, option.AuthSecret, option.SessionTTL, carts, keeper,
		nLogger.With(zap.String("component", "session")))
	products := catalog.NewClient(option.ContentAPIURL, nLogger.With(zap.String("component", "catalog")))

	basecontr := controllers.NewBaseController(carts, sessions, products, keeper, nLogger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(nLogger.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5, "application/json"))
	r.Mount("/", basecontr.Route())

	return &Server{
		srv: &http.Server{
			Addr:              option.RunAddr(),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		ctx:    ctx,
		keeper: keeper,
		Log:    nLogger,
	}, nil
}

// newKeeper picks the slot store: Postgres, then Redis, then the local SQLite file.
func newKeeper(ctx context.Context, option *config.Options, log *logger.Logger) (storage.Keeper, error) {
	switch {
	case option.DataBaseDSN() != "":
		kp, err := dbkeeper.NewDBKeeper(ctx, option.DataBaseDSN, log.With(zap.String("keeper", "postgres")))
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres slot store: %w", err)
		}
		return kp, nil
	case option.RedisAddress != "":
		kp, err := rediskeeper.NewRedisKeeper(ctx, option.RedisAddress, log.With(zap.String("keeper", "redis")))
		if err != nil {
			return nil, fmt.Errorf("failed to open redis slot store: %w", err)
		}
		return kp, nil
	default:
		kp, err := litekeeper.NewLiteKeeper(ctx, option.SQLitePath, log.With(zap.String("keeper", "sqlite")))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite slot store: %w", err)
		}
		return kp, nil
	}
}

// Handler exposes the router, mainly for tests.
func (server *Server) Handler() http.Handler {
	return server.srv.Handler
}

// Serve runs the HTTP server until Shutdown is called.
func (server *Server) Serve() error {
	server.Log.Info("Starting server", zap.String("addr", server.srv.Addr))

	err := server.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, waits up to timeout for in-flight ones
// and closes the slot store.
func (server *Server) Shutdown(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(server.ctx), timeout)
	defer cancel()

	if err := server.srv.Shutdown(ctx); err != nil {
		server.Log.Error("Server shutdown failed", zap.Error(err))
	}
	server.keeper.Close()
	server.Log.Info("Server stopped")
	server.Log.Sync()
}
