package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mlevkov/faqpress-backend/internal/domain"
	"github.com/mlevkov/faqpress-backend/internal/ratelimit"
	"github.com/mlevkov/faqpress-backend/internal/transport/middleware"
)

// RouterDeps carries the handlers and middleware the router wires together.
type RouterDeps struct {
	Logger    *slog.Logger
	Webhook   *WebhookHandler
	Bulk      *BulkHandler
	Audit     *AuditHandler
	Health    *HealthHandler
	Signature middleware.Middleware
	Auth      middleware.Middleware
	CORS      middleware.Middleware
	Limiter   *ratelimit.Limiter

	// Rate classes for the two endpoint groups; zero values fall back to
	// the package defaults.
	UploadClass  ratelimit.Class
	GeneralClass ratelimit.Class
	StrictClass  ratelimit.Class
}

// NewRouter builds the HTTP surface: health probes are open; webhook
// endpoints sit behind signature verification and the upload rate class;
// operator endpoints sit behind bearer auth, role checks and the general
// rate class.
func NewRouter(d RouterDeps) http.Handler {
	if d.UploadClass.Name == "" {
		d.UploadClass = ratelimit.ClassUpload
	}
	if d.GeneralClass.Name == "" {
		d.GeneralClass = ratelimit.ClassGeneral
	}
	if d.StrictClass.Name == "" {
		d.StrictClass = ratelimit.ClassStrict
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recovery(d.Logger))
	if d.CORS != nil {
		r.Use(d.CORS)
	}

	r.Get("/healthz", d.Health.Live)
	r.Get("/readyz", d.Health.Ready)
	r.Get("/health", d.Health.Health)

	r.Group(func(g chi.Router) {
		g.Use(middleware.Chain(
			d.Signature,
			middleware.RateLimit(d.Limiter, d.UploadClass),
		))
		g.Post("/ingest", d.Webhook.Ingest)
		g.Post("/revalidate", d.Webhook.Revalidate)
		g.Delete("/topics/{slug}", d.Webhook.DeleteTopic)
		g.Get("/topics/{slug}", d.Webhook.GetTopic)
		g.Get("/topics/{slug}/jobs", d.Webhook.ListJobs)
	})

	r.Group(func(g chi.Router) {
		g.Use(middleware.Chain(
			d.Auth,
			middleware.RateLimit(d.Limiter, d.GeneralClass),
		))

		editor := middleware.RequireRole(domain.RoleEditor)
		g.With(editor).Post("/bulk-delete", d.Bulk.Delete)
		g.With(editor).Post("/bulk-update", d.Bulk.Update)
		g.With(editor).Post("/import", d.Bulk.Import)

		admin := middleware.RequireRole(domain.RoleAdmin)
		g.With(admin).Get("/audit", d.Audit.List)
		g.With(admin, middleware.RateLimit(d.Limiter, d.StrictClass)).Get("/audit/export", d.Audit.Export)
	})

	return r
}
