package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/infra/config"
	"github.com/arklim/social-platform-auth/internal/infra/telemetry"
	"github.com/arklim/social-platform-auth/internal/transport/http/handlers"
	"github.com/arklim/social-platform-auth/internal/transport/http/middleware"
	"github.com/arklim/social-platform-auth/internal/usecase"
)

// DatabaseChecker exposes readiness behaviour for credential store backends.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for the ticket store backend.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config    *config.AppConfig
	Logger    *zap.Logger
	Auth      *usecase.AuthService
	Telemetry *telemetry.Provider
	Database  DatabaseChecker
	Cache     CacheChecker
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) (*gin.Engine, error) {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.App.CORSAllowedOrigins))

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, err
	}
	r.Use(metrics.Handler())

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("store", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/auth")
	{
		sessionHandler := handlers.NewSessionHandler(deps.Auth, deps.Telemetry, deps.Logger)
		sessionHandler.RegisterRoutes(auth)

		accountHandler := handlers.NewAccountHandler(deps.Auth, deps.Telemetry, deps.Logger)
		accountHandler.RegisterRoutes(auth)
	}

	return r, nil
}
