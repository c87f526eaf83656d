package api

import (
	"net/http"
	"strconv"

	"github.com/notevault/notevault-server/internal/http/response"
	"github.com/notevault/notevault-server/internal/service"
)

// handleSearch runs a full-text query over the user's notes.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := service.SearchRequest{
		Query: r.URL.Query().Get("q"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			response.BadRequest(w, "Invalid limit parameter", s.logger)
			return
		}
		req.Limit = limit
	}

	resp, err := s.searchService.Search(ctx, getUserID(ctx), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resp, s.logger)
}
