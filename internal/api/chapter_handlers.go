package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/notevault/notevault-server/internal/http/response"
	"github.com/notevault/notevault-server/internal/service"
)

// handleCreateChapter creates a new chapter in a subject.
func (s *Server) handleCreateChapter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CreateChapterRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	chapter, err := s.chapterService.Create(ctx, getUserID(ctx), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, chapter, s.logger)
}

// handleGetChapter returns one chapter with its note count.
func (s *Server) handleGetChapter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	chapter, err := s.chapterService.Get(ctx, getUserID(ctx), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, chapter, s.logger)
}

// handleUpdateChapter updates a chapter's name or icon.
func (s *Server) handleUpdateChapter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req service.UpdateChapterRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	chapter, err := s.chapterService.Update(ctx, getUserID(ctx), id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, chapter, s.logger)
}

// handleDeleteChapter deletes a chapter and its notes.
func (s *Server) handleDeleteChapter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := s.chapterService.Delete(ctx, getUserID(ctx), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleListNotes returns the notes of a chapter as summaries.
func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	notes, err := s.noteService.ListByChapter(ctx, getUserID(ctx), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, notes, s.logger)
}
