// Package app wires configuration, storage, services and the HTTP server
// into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/mlevkov/faqpress-backend/internal/adapter/postgres"
	auditrepo "github.com/mlevkov/faqpress-backend/internal/adapter/postgres/audit"
	"github.com/mlevkov/faqpress-backend/internal/adapter/postgres/ingestjob"
	topicrepo "github.com/mlevkov/faqpress-backend/internal/adapter/postgres/topic"
	"github.com/mlevkov/faqpress-backend/internal/adapter/revalidate"
	"github.com/mlevkov/faqpress-backend/internal/auth"
	"github.com/mlevkov/faqpress-backend/internal/config"
	"github.com/mlevkov/faqpress-backend/internal/ratelimit"
	auditsvc "github.com/mlevkov/faqpress-backend/internal/service/audit"
	"github.com/mlevkov/faqpress-backend/internal/service/bulk"
	"github.com/mlevkov/faqpress-backend/internal/service/ingest"
	"github.com/mlevkov/faqpress-backend/internal/signature"
	"github.com/mlevkov/faqpress-backend/internal/transport/middleware"
	"github.com/mlevkov/faqpress-backend/internal/transport/rest"
)

// Run is the application entry point: load configuration, connect to the
// database, apply migrations, assemble services and serve HTTP until the
// process is signalled to stop.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	topics := topicrepo.New(pool)
	jobs := ingestjob.New(pool)
	auditRepo := auditrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	invalidator := revalidate.New(revalidate.Config{
		Endpoint:    cfg.Revalidate.Endpoint,
		BearerToken: cfg.Revalidate.Token,
		Timeout:     cfg.Revalidate.Timeout,
		MaxRetries:  cfg.Revalidate.MaxRetries,
	}, logger)

	auditService := auditsvc.NewService(logger, auditRepo, cfg.Audit.Retention(), cfg.Audit.ExportMaxRows)
	ingestService := ingest.NewService(logger, topics, jobs, auditService, txManager, invalidator, cfg.Ingest.Timeout)
	bulkService := bulk.NewService(logger, topics, ingestService, auditService, txManager, invalidator, cfg.Bulk.MaxItems)

	verifier := signature.NewVerifier(cfg.Webhook.Secrets, cfg.Webhook.MaxSkew)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore())
	limiter.StartSweeper(cfg.RateLimit.SweepInterval, cfg.RateLimit.BucketMaxIdle)
	defer limiter.Stop()

	router := rest.NewRouter(rest.RouterDeps{
		Logger:    logger,
		Webhook:   rest.NewWebhookHandler(ingestService, logger),
		Bulk:      rest.NewBulkHandler(bulkService, logger),
		Audit:     rest.NewAuditHandler(auditService, logger),
		Health:    rest.NewHealthHandler(pool, BuildVersion()),
		Signature: middleware.Signature(verifier, auditService, logger),
		Auth:      middleware.Auth(jwtManager),
		CORS:      middleware.CORS(cfg.CORS),
		Limiter:   limiter,
		UploadClass: ratelimit.Class{
			Name:      "upload",
			MaxTokens: cfg.RateLimit.UploadMax,
			Window:    cfg.RateLimit.UploadWindow,
		},
		GeneralClass: ratelimit.Class{
			Name:      "general",
			MaxTokens: cfg.RateLimit.GeneralMax,
			Window:    cfg.RateLimit.GeneralWindow,
		},
		StrictClass: ratelimit.Class{
			Name:      "strict",
			MaxTokens: cfg.RateLimit.StrictMax,
			Window:    cfg.RateLimit.StrictWindow,
		},
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
