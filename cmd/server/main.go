package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/mind-mirror/internal/config"   // Internal config loader
	"github.com/iliyamo/mind-mirror/internal/database" // Pool construction
	"github.com/iliyamo/mind-mirror/internal/handler"
	"github.com/iliyamo/mind-mirror/internal/logger"
	"github.com/iliyamo/mind-mirror/internal/middleware"
	"github.com/iliyamo/mind-mirror/internal/repository"
	"github.com/iliyamo/mind-mirror/internal/router" // Internal router setup
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := database.DefaultPoolOptions()
	target := database.TargetFromConfig(cfg)
	db, err := database.Open(ctx, database.BuildDSN(target, pool.AcquireTimeout), pool)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database connected",
		zap.Bool("connection_string", target.URL != ""),
		zap.Bool("cloud_tls", target.URL != "" && database.IsCloudHost(target.URL)))

	rl := config.LoadRateLimitConfig()
	var rdb *redis.Client
	if rl.Enabled {
		if rdb = config.NewRedisClient(); rdb == nil {
			log.Warn("redis unreachable, rate limiting disabled")
		} else {
			defer rdb.Close()
		}
	}

	repo := repository.NewMirrorRecordRepo(db, pool.AcquireTimeout)
	e := router.New(handler.NewRecordHandler(repo, log), router.Options{
		Origins:   middleware.OriginPolicy{Allowed: cfg.CORSOrigins, Strict: cfg.StrictOriginCheck},
		RateLimit: rl,
		Redis:     rdb,
		Log:       log,
	})

	errc := make(chan error, 1)
	go func() {
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	logStartup(log, cfg)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(sctx)
}

// logStartup prints the listen address, the endpoint list and the CORS
// allow-list.
func logStartup(log *zap.Logger, cfg config.Config) {
	base := "http://localhost:" + cfg.Port
	log.Info("server listening",
		zap.String("addr", cfg.Addr()),
		zap.String("env", cfg.Env),
		zap.String("local", base))
	for _, ep := range router.Endpoints() {
		log.Info("endpoint", zap.String("name", ep.Name), zap.String("url", base+ep.Path))
	}
	log.Info("cors",
		zap.Strings("allowed_origins", cfg.CORSOrigins),
		zap.Bool("strict", cfg.StrictOriginCheck))
}
