package api

import (
	"net/http"

	"github.com/Hammadullah2/StyleSync/internal/audit"
	"github.com/Hammadullah2/StyleSync/internal/chat"
	"github.com/Hammadullah2/StyleSync/internal/metrics"
	"go.uber.org/zap"
)

// Dependencies holds shared state injected into all HTTP handlers.
type Dependencies struct {
	Orchestrator *chat.Orchestrator
	Metrics      *metrics.Registry
	// Stats aggregates the durable event log on demand (file or ClickHouse).
	Stats  func() audit.Stats
	Logger *zap.Logger
	// APIKey guards POST /chat when non-empty.
	APIKey string
}

// NewRouter builds the HTTP mux with all routes wired up.
func NewRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /chat", deps.authMiddleware(deps.handleChat))

	// Pull-based metrics exposition for the monitoring scraper.
	mux.Handle("GET /metrics", deps.Metrics.Handler())

	// Ad-hoc audit queries over the durable event log.
	mux.HandleFunc("GET /api/guardrails/stats", deps.handleStats)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return corsMiddleware(requestLogging(mux, deps.Logger))
}

// handleStats implements GET /api/guardrails/stats.
func (d *Dependencies) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, d.Stats())
}
