// Command probe checks which connection strings reach the database.  With
// DATABASE_URL set only that string is tried; otherwise the direct and
// pooler strings of the Supabase project are.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/mind-mirror/internal/config"
	"github.com/iliyamo/mind-mirror/internal/database"
	"github.com/iliyamo/mind-mirror/internal/logger"
	"github.com/iliyamo/mind-mirror/internal/probe"
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

	candidates, err := candidatesFrom(cfg)
	if err != nil {
		log.Error("no connection details", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}

	ok := 0
	for _, c := range candidates {
		res := probe.Probe(context.Background(), c)
		if !res.OK() {
			fields := []zap.Field{zap.String("candidate", c.Name), zap.Error(res.Err)}
			if hint := database.Hint(res.Err); hint != "" {
				fields = append(fields, zap.String("hint", hint))
			}
			log.Warn("connection failed", fields...)
			continue
		}
		ok++
		log.Info("connection succeeded",
			zap.String("candidate", c.Name),
			zap.Time("server_time", res.Now),
			zap.String("timezone", res.TimeZone),
			zap.String("version", res.Version),
			zap.Strings("tables", res.Tables),
			zap.Strings("missing_tables", probe.MissingTables(res)))
		// printed plainly so it can be pasted into .env
		fmt.Printf("DATABASE_URL=%s\n", c.DSN)
	}
	if ok == 0 {
		_ = log.Sync()
		os.Exit(1)
	}
}

func candidatesFrom(cfg config.Config) ([]probe.Candidate, error) {
	if cfg.DatabaseURL != "" {
		return []probe.Candidate{{Name: "DATABASE_URL", DSN: cfg.DatabaseURL}}, nil
	}
	password := os.Getenv("SUPABASE_PASSWORD")
	projectURL := os.Getenv("SUPABASE_URL")
	if password == "" || projectURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL, or SUPABASE_URL and SUPABASE_PASSWORD")
	}
	return probe.Candidates(probe.ProjectRef(projectURL), password, os.Getenv("SUPABASE_REGION")), nil
}
