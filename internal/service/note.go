package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/notevault/notevault-server/internal/domain"
	"github.com/notevault/notevault-server/internal/id"
	"github.com/notevault/notevault-server/internal/store"
	"github.com/notevault/notevault-server/internal/textutil"
)

// NoteService manages notes and records daily activity for every
// note-mutating action.
type NoteService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(store *store.Store, logger *slog.Logger) *NoteService {
	return &NoteService{store: store, logger: logger}
}

// CreateNoteRequest contains new note data.
type CreateNoteRequest struct {
	ChapterID string `json:"chapter_id" validate:"required"`
	Title     string `json:"title" validate:"omitempty,max=200"`
	Content   string `json:"content"`
	Tags      string `json:"tags" validate:"omitempty,max=500"`
}

// UpdateNoteRequest contains note fields a user may change.
// Nil pointers mean "leave unchanged".
type UpdateNoteRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=200"`
	Content *string `json:"content"`
	Tags    *string `json:"tags" validate:"omitempty,max=500"`
}

// NoteSummary is a note trimmed for list views: full content replaced
// by a markup-stripped snippet.
type NoteSummary struct {
	ID        string    `json:"id"`
	ChapterID string    `json:"chapter_id"`
	SubjectID string    `json:"subject_id"`
	Title     string    `json:"title"`
	Snippet   string    `json:"snippet"`
	Tags      string    `json:"tags"`
	Modified  string    `json:"modified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func summarize(note *domain.Note) *NoteSummary {
	plain := textutil.StripMarkup(note.Content)
	return &NoteSummary{
		ID:        note.ID,
		ChapterID: note.ChapterID,
		SubjectID: note.SubjectID,
		Title:     note.Title,
		Snippet:   textutil.Snippet(plain, noteSnippetLen),
		Tags:      note.Tags,
		Modified:  note.Modified,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// Create creates a new note in a chapter the user owns.
// A blank title becomes "Untitled".
func (s *NoteService) Create(ctx context.Context, userID string, req CreateNoteRequest) (*domain.Note, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	chapter, err := getOwnedChapter(ctx, s.store, userID, req.ChapterID)
	if err != nil {
		return nil, err
	}

	noteID, err := id.Generate(id.PrefixNote)
	if err != nil {
		return nil, fmt.Errorf("generate note ID: %w", err)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = domain.DefaultNoteTitle
	}

	note := &domain.Note{
		Entity:    domain.Entity{ID: noteID},
		UserID:    userID,
		SubjectID: chapter.SubjectID,
		ChapterID: chapter.ID,
		Title:     title,
		Content:   req.Content,
		Tags:      req.Tags,
	}
	note.InitNoteTimestamps()

	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.recordActivity(ctx, userID)

	if s.logger != nil {
		s.logger.Info("Note created", "note_id", noteID, "chapter_id", chapter.ID)
	}

	return note, nil
}

// Get returns a full note the user owns.
func (s *NoteService) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	return getOwnedNote(ctx, s.store, userID, noteID)
}

// ListByChapter returns the notes of a chapter the user owns, most
// recently updated first, with snippets instead of full content.
func (s *NoteService) ListByChapter(ctx context.Context, userID, chapterID string) ([]*NoteSummary, error) {
	if _, err := getOwnedChapter(ctx, s.store, userID, chapterID); err != nil {
		return nil, err
	}

	notes, err := s.store.ListNotesByChapter(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	summaries := make([]*NoteSummary, 0, len(notes))
	for _, note := range notes {
		summaries = append(summaries, summarize(note))
	}
	return summaries, nil
}

// Update applies changes to a note the user owns and refreshes the
// modified timestamp.
func (s *NoteService) Update(ctx context.Context, userID, noteID string, req UpdateNoteRequest) (*domain.Note, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	note, err := getOwnedNote(ctx, s.store, userID, noteID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			title = domain.DefaultNoteTitle
		}
		note.Title = title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.Tags != nil {
		note.Tags = *req.Tags
	}

	note.TouchModified()
	if err := s.store.UpdateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	s.recordActivity(ctx, userID)

	return note, nil
}

// Delete removes a note the user owns.
func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	if _, err := getOwnedNote(ctx, s.store, userID, noteID); err != nil {
		return err
	}

	if err := s.store.DeleteNote(ctx, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Note deleted", "note_id", noteID, "user_id", userID)
	}
	return nil
}

// recordActivity bumps today's activity counter. Failures are logged,
// not returned: losing one heatmap tick is better than failing a save.
func (s *NoteService) recordActivity(ctx context.Context, userID string) {
	day := domain.FormatDay(time.Now().UTC())
	if err := s.store.IncrementActivity(ctx, userID, day); err != nil && s.logger != nil {
		s.logger.Warn("Failed to record activity", "user_id", userID, "date", day, "error", err)
	}
}
