package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/captcha"
	"github.com/arklim/social-platform-auth/internal/infra/config"
	"github.com/arklim/social-platform-auth/internal/infra/database"
	"github.com/arklim/social-platform-auth/internal/infra/email"
	"github.com/arklim/social-platform-auth/internal/infra/logger"
	redisinfra "github.com/arklim/social-platform-auth/internal/infra/redis"
	"github.com/arklim/social-platform-auth/internal/infra/security"
	"github.com/arklim/social-platform-auth/internal/infra/telemetry"
	mongorepo "github.com/arklim/social-platform-auth/internal/repository/mongo"
	offlinerepo "github.com/arklim/social-platform-auth/internal/repository/offline"
	postgresrepo "github.com/arklim/social-platform-auth/internal/repository/postgres"
	redisrepo "github.com/arklim/social-platform-auth/internal/repository/redis"
	"github.com/arklim/social-platform-auth/internal/transport/http/routes"
	"github.com/arklim/social-platform-auth/internal/usecase"
)

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	mongo  *database.MongoClient
	redis  *redisinfra.Client
}

// New wires the application together. The credential store backend is
// selected exactly once, here.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	provider, err := telemetry.Attach(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	argonCfg := security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}
	if err := security.ConfigureArgon2(argonCfg); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	app := &Application{cfg: cfg, logger: log}

	var store port.CredentialStore
	var storeChecker routes.DatabaseChecker

	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		client, err := database.NewMongoClient(ctx, cfg.Mongo, log)
		if err != nil {
			return nil, fmt.Errorf("init mongo: %w", err)
		}
		app.mongo = client

		mongoStore := mongorepo.NewStore(client.Database())
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			_ = client.Close(ctx)
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		store = mongoStore
		storeChecker = client
	case config.StoreDriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		app.pool = pool
		store = postgresrepo.NewStore(pool)
		storeChecker = pool
	default:
		log.Warn("no persistent store configured, credentials will not survive restarts")
		store = offlinerepo.NewStore(log)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		app.closeStores(ctx)
		return nil, fmt.Errorf("init redis: %w", err)
	}
	app.redis = redisClient
	tickets := redisrepo.NewTicketStore(redisClient.Client(), cfg.Redis.KeyPrefix)

	var captchaVerifier port.CaptchaVerifier
	if cfg.Captcha.Enabled {
		captchaVerifier = captcha.NewVerifier(cfg.Captcha)
	}

	var mailer port.Mailer
	if cfg.Email.VerificationEnabled {
		mailer = email.NewSMTPMailer(cfg.Email)
	} else {
		mailer = email.NewLogMailer(log)
	}

	validator := security.DefaultPasswordValidator()
	if cfg.Security.PasswordMinScore > 0 {
		validator = security.PasswordValidatorWithStrength(cfg.Security.PasswordMinScore)
	}

	authService, err := usecase.NewAuthService(cfg, store, tickets, captchaVerifier, mailer, validator)
	if err != nil {
		app.closeStores(ctx)
		_ = redisClient.Close()
		return nil, fmt.Errorf("init auth service: %w", err)
	}

	engine, err := routes.Register(routes.Dependencies{
		Config:    cfg,
		Logger:    log,
		Auth:      authService,
		Telemetry: provider,
		Database:  storeChecker,
		Cache:     redisClient,
	})
	if err != nil {
		app.closeStores(ctx)
		_ = redisClient.Close()
		return nil, fmt.Errorf("register routes: %w", err)
	}
	app.engine = engine

	return app, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer a.closeStores(context.Background())
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting auth API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
		zap.String("store", a.cfg.Store.Driver),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}

func (a *Application) closeStores(ctx context.Context) {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.mongo != nil {
		_ = a.mongo.Close(ctx)
	}
}
