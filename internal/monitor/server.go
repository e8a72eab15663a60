// Package monitor exposes the read-only HTTP interface over a live workout
// session: health, live analyzer status, recorded sessions, and a debug
// chart of the recent metric trace.
package monitor

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/repgate/repgate/internal/httputil"
	"github.com/repgate/repgate/internal/monitoring"
	"github.com/repgate/repgate/internal/session"
	"github.com/repgate/repgate/internal/version"
)

// WebServer handles the HTTP interface for monitoring a workout session.
type WebServer struct {
	address string
	manager *session.Manager
	store   *session.Store // nil disables the session-history endpoints
	server  *http.Server
}

// WebServerConfig contains configuration options for the web server.
type WebServerConfig struct {
	Address string
	Manager *session.Manager
	Store   *session.Store
}

// NewWebServer creates a new web server with the provided configuration.
func NewWebServer(config WebServerConfig) *WebServer {
	ws := &WebServer{
		address: config.Address,
		manager: config.Manager,
		store:   config.Store,
	}
	ws.server = &http.Server{
		Addr:    ws.address,
		Handler: ws.setupRoutes(),
	}
	return ws
}

// Start begins the HTTP server in a goroutine and shuts it down gracefully
// when the context is cancelled.
func (ws *WebServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		monitoring.Logf("Starting HTTP server on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	monitoring.Logf("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		monitoring.Logf("HTTP server shutdown error: %v", err)
		if err := ws.server.Close(); err != nil {
			monitoring.Logf("HTTP server force close error: %v", err)
		}
	}
	return nil
}

// setupRoutes configures the HTTP routes and handlers.
func (ws *WebServer) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", ws.handleHealth)
	mux.HandleFunc("/api/status", ws.handleStatus)
	mux.HandleFunc("/api/trace", ws.handleTrace)
	mux.HandleFunc("/api/sessions", ws.handleSessions)
	mux.HandleFunc("/api/sessions/", ws.handleSessionDetail)
	mux.HandleFunc("/debug/trace", ws.handleTraceChart)
	return mux
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]string{"status": "ok", "version": version.Version})
}

// handleStatus serves the live analyzer result for the running session.
func (ws *WebServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if ws.manager == nil {
		httputil.NotFound(w, "no live session manager")
		return
	}
	httputil.WriteJSONOK(w, ws.manager.Status())
}

// handleTrace serves the recent metric trace as JSON.
func (ws *WebServer) handleTrace(w http.ResponseWriter, r *http.Request) {
	if ws.manager == nil {
		httputil.NotFound(w, "no live session manager")
		return
	}
	httputil.WriteJSONOK(w, ws.manager.Trace())
}

// handleSessions lists recorded sessions, newest first. Query param: limit.
func (ws *WebServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	if ws.store == nil {
		httputil.NotFound(w, "session store not configured")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	sessions, err := ws.store.ListSessions(limit)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, sessions)
}

// handleSessionDetail serves /api/sessions/{id}/reps and
// /api/sessions/{id}/summary.
func (ws *WebServer) handleSessionDetail(w http.ResponseWriter, r *http.Request) {
	if ws.store == nil {
		httputil.NotFound(w, "session store not configured")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		httputil.NotFound(w, "expected /api/sessions/{id}/reps or /summary")
		return
	}
	sessionID := parts[0]

	switch parts[1] {
	case "reps":
		events, err := ws.store.ListRepEvents(sessionID)
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}
		httputil.WriteJSONOK(w, events)
	case "summary":
		sum, err := ws.store.Summary(sessionID)
		if err != nil {
			httputil.NotFound(w, err.Error())
			return
		}
		httputil.WriteJSONOK(w, sum)
	default:
		httputil.NotFound(w, "unknown session resource")
	}
}
