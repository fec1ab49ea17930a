package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/clipnote/clipnote/internal/cache"
	"github.com/clipnote/clipnote/internal/config"
	"github.com/clipnote/clipnote/internal/enrich"
	"github.com/clipnote/clipnote/internal/httpserver"
	"github.com/clipnote/clipnote/internal/httpserver/deps"
	"github.com/clipnote/clipnote/internal/ingest"
	"github.com/clipnote/clipnote/internal/logger"
	"github.com/clipnote/clipnote/internal/notes"
	"github.com/clipnote/clipnote/internal/notify"
	"github.com/clipnote/clipnote/internal/redis"
	"github.com/clipnote/clipnote/internal/store/blob"
	redisstore "github.com/clipnote/clipnote/internal/store/redis"
	"github.com/clipnote/clipnote/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	controller  *ingest.Controller
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}

	blobs, err := blob.NewDiskStore(cfg.MediaDir, cfg.PublicBaseURL)
	if err != nil {
		loggerClient.Errorf("Failed to initialize media storage: %v", err)
		os.Exit(1)
	}

	noteStore := redisstore.NewStore(redisClient)
	noteCache := cache.NewNotes()
	repo := notes.NewRepository(noteStore, blobs, noteCache, loggerClient)

	notifier := notify.NewBroadcaster()
	enricher := enrich.New(cfg.EnrichTimeout, loggerClient)
	controller := ingest.New(repo, enricher, notifier, loggerClient, cfg.PasteQueueSize)

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		RedisClient:     redisClient,
		Repo:            repo,
		Controller:      controller,
		Notifier:        notifier,
		MediaRoot:       blobs.Root(),
		AllowedOrigins:  cfg.AllowedOrigins,
		TrustProxy:      cfg.TrustProxy,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		controller:  controller,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting clipnote %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("clipnote %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the paste pipeline worker.
	a.controller.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.controller.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		}
	}

	a.logger.Info("Shutdown complete")
	_ = a.logger.Sync()
	return nil
}
