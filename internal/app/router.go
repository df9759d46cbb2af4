package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joyjuncture/joyjuncture/backend/go-services/handlers"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/auth"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/config"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/imports"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/ledger"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/puzzles"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/users"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Deps is everything the HTTP layer needs. Redis and Objects may be nil.
type Deps struct {
	Config       *config.Config
	Stores       *Stores
	Resolver     auth.Resolver
	Blacklist    *auth.Blacklist
	Redis        *redis.Client
	Objects      imports.ObjectStore
	VerifierName string
	Gatherer     prometheus.Gatherer
}

// Services are built once from the stores and shared by every handler.
type Services struct {
	Puzzles  *puzzles.Service
	Users    *users.Service
	Ledger   *ledger.Service
	Importer *imports.Importer
}

func NewServices(s *Stores, objects imports.ObjectStore) *Services {
	puzzleSvc := puzzles.NewService(s.Puzzles)
	userSvc := users.NewService(s.Users)
	return &Services{
		Puzzles:  puzzleSvc,
		Users:    userSvc,
		Ledger:   ledger.NewService(s.Ledger, userSvc),
		Importer: imports.NewImporter(puzzleSvc, s.Runs, objects),
	}
}

var startTime = time.Now()

// NewRouter assembles the gin engine: CORS, logging, recovery, metrics, identity resolution,
// rate limiting, then the routes.
func NewRouter(d Deps, svc *Services) *gin.Engine {
	r := gin.New()
	r.Use(cors(), gin.Logger(), gin.Recovery(), middleware.Instrument())

	// identity first so the limiter can key on the subject
	r.Use(auth.Middleware(d.Resolver))
	if rl := d.Config.RateLimit; rl.Enabled {
		if rl.UseRedis && d.Redis != nil {
			r.Use(middleware.RedisRateLimitMiddleware(d.Redis, rl.RPS, rl.Burst, time.Duration(rl.WindowSeconds)*time.Second))
		} else {
			r.Use(middleware.RateLimitMiddleware(rl.RPS, rl.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readiness(d))

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	handlers.RegisterSwagger(r)

	root := r.Group("/")
	handlers.NewSudokuAdminHandler(svc.Puzzles, svc.Importer, d.Resolver).Register(root)
	handlers.NewAuthHandler(svc.Users, d.Resolver, d.Blacklist, d.Config.JWT.AccessTokenTTL).Register(root)
	handlers.NewUserHandler(svc.Users, d.Resolver).Register(root)
	handlers.NewPlayHandler(svc.Puzzles, svc.Ledger, svc.Users, d.Resolver).Register(root)
	return r
}

// readiness returns 200 only when the critical dependencies answer.
func readiness(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		deps := gin.H{"store": d.Stores.Driver, "verifier": d.VerifierName}
		if err := d.Stores.Ping(ctx); err != nil {
			deps["store"] = "unreachable"
			ready = false
		}
		if d.Redis != nil {
			if err := d.Redis.Ping(ctx).Err(); err != nil {
				deps["redis"] = false
				ready = false
			} else {
				deps["redis"] = true
			}
		}
		if d.VerifierName == "none" {
			ready = false
		}
		deps["objects"] = d.Objects != nil

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	}
}

// cors is the permissive dev policy: common headers and a short-circuit for preflight.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		h.Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
