// Command migrate applies the embedded database migrations and exits. It is
// intended for deploy pipelines that migrate before rolling the server.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/nkhrm/salary-policy-backend/internal/app"
	"github.com/nkhrm/salary-policy-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := app.Migrate(ctx, cfg.Database.DSN); err != nil {
		logger.Error("migrate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("migrations applied")
}
