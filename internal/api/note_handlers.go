package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/notevault/notevault-server/internal/http/response"
	"github.com/notevault/notevault-server/internal/service"
)

// handleCreateNote creates a new note in a chapter.
func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CreateNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	note, err := s.noteService.Create(ctx, getUserID(ctx), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, note, s.logger)
}

// handleGetNote returns a full note, content included.
func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	note, err := s.noteService.Get(ctx, getUserID(ctx), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, note, s.logger)
}

// handleUpdateNote updates a note's title, content or tags.
func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req service.UpdateNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	note, err := s.noteService.Update(ctx, getUserID(ctx), id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, note, s.logger)
}

// handleDeleteNote deletes a note.
func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := s.noteService.Delete(ctx, getUserID(ctx), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
