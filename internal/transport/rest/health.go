package rest

import (
	"context"
	"net/http"
	"time"
)

const (
	statusUp   = "ok"
	statusDown = "down"

	pingTimeout = 3 * time.Second
)

// dbPinger is the slice of the connection pool the probes need.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	db      dbPinger
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db dbPinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

type probeResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Checks    map[string]checkResult `json:"checks,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

type checkResult struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. It answers 200 as long as the process serves.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, probeResponse{
		Status:    statusUp,
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe: 200 when the database answers, 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	check, up := h.pingDB(r.Context())

	status, code := statusUp, http.StatusOK
	if !up {
		status, code = statusDown, http.StatusServiceUnavailable
	}

	writeJSON(w, code, probeResponse{
		Status:    status,
		Checks:    map[string]checkResult{"database": check},
		Timestamp: time.Now(),
	})
}

// Health is the full report: version plus per-dependency checks with latency.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	check, up := h.pingDB(r.Context())

	status, code := statusUp, http.StatusOK
	if !up {
		status, code = statusDown, http.StatusServiceUnavailable
	}

	writeJSON(w, code, probeResponse{
		Status:    status,
		Version:   h.version,
		Checks:    map[string]checkResult{"database": check},
		Timestamp: time.Now(),
	})
}

func (h *HealthHandler) pingDB(ctx context.Context) (checkResult, bool) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		return checkResult{Status: statusDown}, false
	}
	return checkResult{Status: statusUp, Latency: time.Since(start).String()}, true
}
