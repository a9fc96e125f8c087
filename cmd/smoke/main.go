// Command smoke calls every API route of a running server and logs what
// came back.  API_BASE overrides the default http://localhost:34567/api.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/mind-mirror/internal/config"
	"github.com/iliyamo/mind-mirror/internal/logger"
	"github.com/iliyamo/mind-mirror/internal/smoke"
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

	client := smoke.Client{
		Base: os.Getenv("API_BASE"),
		HTTP: &http.Client{Timeout: 10 * time.Second},
	}

	failed := 0
	for _, c := range client.Run(context.Background()) {
		fields := []zap.Field{
			zap.String("route", c.Name),
			zap.String("path", c.Path),
			zap.Int("status", c.Status),
		}
		if c.Count >= 0 {
			fields = append(fields, zap.Int("count", c.Count), zap.String("first_id", c.FirstID))
		}
		if !c.OK() {
			failed++
			log.Warn("check failed", append(fields, zap.Error(c.Err))...)
			continue
		}
		log.Info("check passed", fields...)
	}
	if failed > 0 {
		_ = log.Sync()
		os.Exit(1)
	}
}
