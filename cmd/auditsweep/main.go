// Command auditsweep deletes audit log records older than the configured
// retention horizon. It is meant to run from cron, not as an in-process
// goroutine.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/mlevkov/faqpress-backend/internal/adapter/postgres"
	auditrepo "github.com/mlevkov/faqpress-backend/internal/adapter/postgres/audit"
	"github.com/mlevkov/faqpress-backend/internal/app"
	"github.com/mlevkov/faqpress-backend/internal/config"
	auditsvc "github.com/mlevkov/faqpress-backend/internal/service/audit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)
	if err := run(cfg, logger); err != nil {
		logger.Error("retention sweep failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := auditsvc.NewService(logger, auditrepo.New(pool), cfg.Audit.Retention(), cfg.Audit.ExportMaxRows)

	deleted, err := svc.Purge(ctx)
	if err != nil {
		return err
	}

	logger.Info("retention sweep completed",
		slog.Int64("deleted", deleted),
		slog.Int("retention_days", cfg.Audit.RetentionDays),
	)
	return nil
}
