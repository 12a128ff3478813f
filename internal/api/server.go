package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shaharia-lab/notificator/internal/service"
)

const (
	errInvalidJSONBody = "invalid JSON body"
	defaultListLimit   = 50
	maxListLimit       = 500
)

// Server holds all dependencies for the REST API handlers.
type Server struct {
	dispatchSvc service.DispatchService
	logger      *slog.Logger
}

// New creates a new API Server backed by the provided service.
func New(dispatchSvc service.DispatchService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		dispatchSvc: dispatchSvc,
		logger:      logger,
	}
}

// Mount registers all API routes under the given router.
func (s *Server) Mount(r chi.Router) {
	// Queued notifications
	r.Post("/notifications", s.handleEnqueueNotification)
	r.Get("/notifications/log", s.handleListNotificationLog)

	// Dispatch runs
	r.Post("/dispatch", s.handleDispatch)
	r.Get("/dispatch/runs", s.handleListRuns)
	r.Get("/dispatch/runs/{id}", s.handleGetRun)

	r.Get("/version", s.handleVersion)
}

// ─── Shared helpers ───────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps typed service errors to HTTP status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, err error, action string) {
	var (
		ve  *service.ValidationError
		nfe *service.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &nfe):
		writeError(w, http.StatusNotFound, nfe.Error())
	default:
		s.logger.Error(action+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

// limitParam parses ?limit=N. Missing or invalid values give the default.
func limitParam(r *http.Request) int {
	limit := defaultListLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit
}
