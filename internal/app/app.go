package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/auth"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/config"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/imports"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/storage"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/logger"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// App owns the process-wide resources of the API server.
type App struct {
	cfg    *config.Config
	stores *Stores
	redis  *redis.Client
	router *gin.Engine
}

// New connects every configured dependency and builds the router. Redis and MinIO are
// optional: when unreachable the server starts without blacklist, shared rate limiting or
// object storage.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open stores: %w", err)
	}

	var rdb *redis.Client
	if addr := cfg.RedisAddr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			logger.Infof("connected to Redis at %s", addr)
		}
	}

	// a nil *MinIOStorage must stay a nil interface for the importer
	var objects imports.ObjectStore
	mst, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	switch {
	case err != nil:
		logger.Warnf("object storage disabled: %v", err)
	case mst != nil:
		objects = mst
		logger.Infof("using MinIO bucket %s for puzzle packs", mst.Bucket())
	}

	verifier, verifierName := BuildVerifier(ctx, cfg)
	blacklist := auth.NewBlacklist(rdb)
	svc := NewServices(stores, objects)
	resolver := auth.NewTokenResolver(verifier, blacklist, auth.AdminPolicy{
		Role:     cfg.Admin.Role,
		Subjects: cfg.Admin.Subjects,
		Users:    svc.Users,
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	router := NewRouter(Deps{
		Config:       cfg,
		Stores:       stores,
		Resolver:     resolver,
		Blacklist:    blacklist,
		Redis:        rdb,
		Objects:      objects,
		VerifierName: verifierName,
	}, svc)

	logger.Infof("services ready: store=%s redis=%v objects=%v verifier=%s",
		stores.Driver, rdb != nil, objects != nil, verifierName)
	return &App{cfg: cfg, stores: stores, redis: rdb, router: router}, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler { return a.router }

// Run serves HTTP until ctx is cancelled, then drains in-flight requests within the
// configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", a.cfg.Server.Host, a.cfg.Server.Port),
		Handler:      a.router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("starting JoyJuncture API on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Close releases the store and Redis connections.
func (a *App) Close(ctx context.Context) {
	if err := a.stores.Close(ctx); err != nil {
		logger.Warnf("store disconnect: %v", err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Warnf("redis close: %v", err)
		}
	}
}
