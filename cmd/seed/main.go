// Command seed inserts the sample mirror records into the database named by
// DATABASE_URL, or by SUPABASE_URL plus SUPABASE_PASSWORD.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/mind-mirror/internal/config"
	"github.com/iliyamo/mind-mirror/internal/database"
	"github.com/iliyamo/mind-mirror/internal/logger"
	"github.com/iliyamo/mind-mirror/internal/probe"
	"github.com/iliyamo/mind-mirror/internal/repository"
	"github.com/iliyamo/mind-mirror/internal/seed"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		fields := []zap.Field{zap.Error(err)}
		if hint := database.Hint(err); hint != "" {
			fields = append(fields, zap.String("hint", hint))
		}
		log.Error("seeding failed", fields...)
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		password := os.Getenv("SUPABASE_PASSWORD")
		if password == "" {
			return errors.New("set DATABASE_URL, or SUPABASE_URL and SUPABASE_PASSWORD")
		}
		ref := probe.ProjectRef(os.Getenv("SUPABASE_URL"))
		dsn = probe.Candidates(ref, password, os.Getenv("SUPABASE_REGION"))[0].DSN
	}

	opts := database.PoolOptions{MaxOpenConns: 5, IdleTimeout: 30 * time.Second, AcquireTimeout: 10 * time.Second}
	ctx := context.Background()
	db, err := database.Open(ctx, database.BuildDSN(database.Target{URL: dsn}, opts.AcquireTimeout), opts)
	if err != nil {
		return err
	}
	defer db.Close()

	recs := seed.MockRecords()
	log.Info("inserting sample records", zap.Int("count", len(recs)))

	rep, err := seed.Run(ctx, repository.NewMirrorRecordRepo(db, opts.AcquireTimeout), recs, log)
	if err != nil {
		return err
	}
	log.Info("seeding finished",
		zap.Int("succeeded", rep.Succeeded),
		zap.Int("failed", rep.Failed),
		zap.Int64("total_rows", rep.Total))
	return nil
}
