package api

import (
	"encoding/json"
	"net/http"

	"github.com/shaharia-lab/notificator/internal/notification"
	"github.com/shaharia-lab/notificator/internal/storage"
)

// handleEnqueueNotification queues one notification content for the next
// dispatch run.
func (s *Server) handleEnqueueNotification(w http.ResponseWriter, r *http.Request) {
	var content notification.Content
	if err := json.NewDecoder(r.Body).Decode(&content); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}

	queued, err := s.dispatchSvc.Enqueue(r.Context(), content)
	if err != nil {
		s.writeServiceError(w, err, "queue notification")
		return
	}
	writeJSON(w, http.StatusCreated, queued)
}

// handleListNotificationLog returns recent notification delivery log entries.
// Accepts optional ?limit=N (default 50), ?run_id= and ?status=sent|failed.
func (s *Server) handleListNotificationLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.LogFilter{
		RunID:  q.Get("run_id"),
		Status: q.Get("status"),
		Limit:  limitParam(r),
	}
	switch filter.Status {
	case "", notification.StatusSent, notification.StatusFailed:
	default:
		writeError(w, http.StatusBadRequest, "status must be sent or failed")
		return
	}

	entries, err := s.dispatchSvc.ListLog(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, err, "list notification log")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
