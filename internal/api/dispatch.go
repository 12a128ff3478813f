package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shaharia-lab/notificator/internal/service"
)

// dispatchFailure is returned when a dispatch run aborts. The summary shows
// how far the run got.
type dispatchFailure struct {
	Error   string              `json:"error"`
	Summary *service.RunSummary `json:"summary,omitempty"`
}

// handleDispatch dispatches every queued notification.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	summary, err := s.dispatchSvc.DispatchPending(r.Context(), service.TriggerAPI)
	if err != nil {
		s.logger.Error("dispatch failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, dispatchFailure{
			Error:   "dispatch failed",
			Summary: summary,
		})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleListRuns returns recent dispatch runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.dispatchSvc.ListRuns(r.Context(), limitParam(r))
	if err != nil {
		s.writeServiceError(w, err, "list dispatch runs")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.dispatchSvc.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err, "get dispatch run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}
