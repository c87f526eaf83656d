package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/notevault/notevault-server/internal/http/response"
	"github.com/notevault/notevault-server/internal/service"
)

// handleCreateSubject creates a new subject.
func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CreateSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	subject, err := s.subjectService.Create(ctx, getUserID(ctx), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, subject, s.logger)
}

// handleListSubjects returns the user's subjects with counts.
func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subjects, err := s.subjectService.List(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, subjects, s.logger)
}

// handleGetSubject returns one subject with its chapters.
func (s *Server) handleGetSubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	detail, err := s.subjectService.Get(ctx, getUserID(ctx), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, detail, s.logger)
}

// handleUpdateSubject updates a subject's name, color or icon.
func (s *Server) handleUpdateSubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req service.UpdateSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	subject, err := s.subjectService.Update(ctx, getUserID(ctx), id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, subject, s.logger)
}

// handleDeleteSubject deletes a subject and everything under it.
func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := s.subjectService.Delete(ctx, getUserID(ctx), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleListChapters returns the chapters of a subject.
func (s *Server) handleListChapters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	chapters, err := s.chapterService.List(ctx, getUserID(ctx), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, chapters, s.logger)
}
