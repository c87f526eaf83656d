package api

import (
	"net/http"

	"github.com/notevault/notevault-server/internal/http/response"
)

// handleDashboardStats returns the full dashboard snapshot.
func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.dashboardService.GetStats(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, stats, s.logger)
}

// handleActivityLog returns the raw per-day activity history.
func (s *Server) handleActivityLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	log, err := s.dashboardService.GetActivityLog(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, log, s.logger)
}
