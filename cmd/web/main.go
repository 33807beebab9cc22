package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/landmark-estates/landmark-web/config"
	httpapi "github.com/landmark-estates/landmark-web/internal/api/http"
	"github.com/landmark-estates/landmark-web/internal/apiclient"
	"github.com/landmark-estates/landmark-web/internal/bootstrap"
	"github.com/landmark-estates/landmark-web/internal/cache"
	"github.com/landmark-estates/landmark-web/internal/content"
	"github.com/landmark-estates/landmark-web/internal/logging"
	"github.com/landmark-estates/landmark-web/internal/session"
	"github.com/landmark-estates/landmark-web/internal/warmup"
	"github.com/landmark-estates/landmark-web/internal/web"
)

const serviceName = "landmark-web"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting",
		zap.String("service", serviceName),
		zap.String("version", cfg.App.Version),
		zap.String("api", cfg.API.BaseURL),
		zap.String("session_store", cfg.Session.Store),
		zap.String("cache", cfg.Cache.Backend),
	)

	var rdb *redis.Client
	if cfg.UsesRedis() {
		rdb, err = bootstrap.OpenRedis(ctx, &cfg.Redis, bootstrap.DBOptions{})
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
	}

	var db *sql.DB
	var store session.Store
	switch cfg.Session.Store {
	case "redis":
		store = session.NewRedisStore(rdb, cfg.Session.TTL)
	case "postgres":
		db, err = bootstrap.OpenSessionDB(ctx, &cfg.Database, bootstrap.DBOptions{})
		if err != nil {
			logger.Fatal("session database", zap.Error(err))
		}
		defer db.Close()
		store = session.NewPostgresStore(db, cfg.Session.TTL)
	default:
		store = session.NewMemoryStore(cfg.Session.TTL)
	}

	var responses cache.Cache
	switch cfg.Cache.Backend {
	case "redis":
		responses = cache.NewRedis(rdb)
	case "none":
		responses = cache.Nop{}
	default:
		responses = cache.NewMemory()
	}

	client := apiclient.New(apiclient.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		CacheTTL:  cfg.Cache.TTL,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		Cache:     responses,
		Logger:    logger,
	})
	api := apiclient.NewAPI(client)

	site, err := content.Load(cfg.App.ContentFile)
	if err != nil {
		logger.Fatal("content", zap.Error(err))
	}

	gate := session.NewGate(store, api.Auth, logger)
	handler := web.New(api, gate, site, web.Options{
		Cookie: session.CookieOptions{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.TTL,
			Secure: cfg.Session.SecureCookie,
		},
		AdminFetchLimit: cfg.API.AdminFetchLimit,
		LoginPerMinute:  cfg.App.LoginPerMinute,
		LoginBurst:      cfg.App.LoginBurst,
		Logger:          logger,
	})

	health := map[string]httpapi.Pinger{"api": client, "redis": nil, "database": nil}
	if rdb != nil {
		health["redis"] = httpapi.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	if db != nil {
		health["database"] = httpapi.PingFunc(db.PingContext)
	}

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		Logger:         logger,
		Web:            handler,
		Health:         health,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	if err != nil {
		logger.Fatal("router", zap.Error(err))
	}

	scheduler := warmup.NewScheduler(logger, 0)
	if cfg.Cache.Backend != "none" {
		if err := scheduler.Add(cfg.Cache.WarmSchedule, warmup.PublicJobs(api)...); err != nil {
			logger.Fatal("cache warm-up", zap.Error(err))
		}
	}
	if pg, ok := store.(*session.PostgresStore); ok {
		if err := scheduler.Add(cfg.Session.PurgeCron, warmup.SessionPurge(pg, logger)); err != nil {
			logger.Fatal("session purge", zap.Error(err))
		}
	}
	scheduler.Start()
	go scheduler.RunAll(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)
	logger.Info("stopped")
}
