package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/notevault/notevault-server/internal/domain"
	domainerrors "github.com/notevault/notevault-server/internal/errors"
	"github.com/notevault/notevault-server/internal/id"
	"github.com/notevault/notevault-server/internal/store"
)

// ChapterService manages chapters within subjects.
type ChapterService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewChapterService creates a new chapter service.
func NewChapterService(store *store.Store, logger *slog.Logger) *ChapterService {
	return &ChapterService{store: store, logger: logger}
}

// CreateChapterRequest contains new chapter data.
type CreateChapterRequest struct {
	SubjectID string `json:"subject_id" validate:"required"`
	Name      string `json:"name" validate:"required,min=1,max=100"`
	Icon      string `json:"icon" validate:"omitempty,max=16"`
}

// UpdateChapterRequest contains chapter fields a user may change.
// Nil pointers mean "leave unchanged".
type UpdateChapterRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
	Icon *string `json:"icon" validate:"omitempty,max=16"`
}

// Create creates a new chapter in a subject the user owns.
// Names are unique per subject, compared case-insensitively.
func (s *ChapterService) Create(ctx context.Context, userID string, req CreateChapterRequest) (*domain.Chapter, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := getOwnedSubject(ctx, s.store, userID, req.SubjectID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domainerrors.Validation("chapter name cannot be blank")
	}

	if _, err := s.store.GetChapterByName(ctx, req.SubjectID, name); err == nil {
		return nil, domainerrors.AlreadyExists("a chapter with this name already exists in this subject")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check chapter name: %w", err)
	}

	chapterID, err := id.Generate(id.PrefixChapter)
	if err != nil {
		return nil, fmt.Errorf("generate chapter ID: %w", err)
	}

	chapter := &domain.Chapter{
		Entity:    domain.Entity{ID: chapterID},
		UserID:    userID,
		SubjectID: req.SubjectID,
		Name:      name,
		Icon:      req.Icon,
	}
	if chapter.Icon == "" {
		chapter.Icon = domain.DefaultChapterIcon
	}
	chapter.InitTimestamps()

	if err := s.store.CreateChapter(ctx, chapter); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("a chapter with this name already exists in this subject")
		}
		return nil, fmt.Errorf("create chapter: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Chapter created", "chapter_id", chapterID, "subject_id", req.SubjectID)
	}

	return chapter, nil
}

// List returns the chapters of a subject the user owns, each with its
// note count, sorted by name.
func (s *ChapterService) List(ctx context.Context, userID, subjectID string) ([]*domain.ChapterWithCount, error) {
	if _, err := getOwnedSubject(ctx, s.store, userID, subjectID); err != nil {
		return nil, err
	}

	chapters, err := s.store.ListChapters(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}

	result := make([]*domain.ChapterWithCount, 0, len(chapters))
	for _, chapter := range chapters {
		noteCount, err := s.store.CountNotesByChapter(ctx, chapter.ID)
		if err != nil {
			return nil, fmt.Errorf("count notes: %w", err)
		}
		result = append(result, &domain.ChapterWithCount{
			Chapter:   *chapter,
			NoteCount: noteCount,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

// Get returns a chapter the user owns.
func (s *ChapterService) Get(ctx context.Context, userID, chapterID string) (*domain.ChapterWithCount, error) {
	chapter, err := getOwnedChapter(ctx, s.store, userID, chapterID)
	if err != nil {
		return nil, err
	}

	noteCount, err := s.store.CountNotesByChapter(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}

	return &domain.ChapterWithCount{
		Chapter:   *chapter,
		NoteCount: noteCount,
	}, nil
}

// Update applies changes to a chapter the user owns.
func (s *ChapterService) Update(ctx context.Context, userID, chapterID string, req UpdateChapterRequest) (*domain.Chapter, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	chapter, err := getOwnedChapter(ctx, s.store, userID, chapterID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domainerrors.Validation("chapter name cannot be blank")
		}
		if !strings.EqualFold(name, chapter.Name) {
			if existing, err := s.store.GetChapterByName(ctx, chapter.SubjectID, name); err == nil && existing.ID != chapterID {
				return nil, domainerrors.AlreadyExists("a chapter with this name already exists in this subject")
			} else if err != nil && !errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("check chapter name: %w", err)
			}
		}
		chapter.Name = name
	}
	if req.Icon != nil && *req.Icon != "" {
		chapter.Icon = *req.Icon
	}

	chapter.Touch()
	if err := s.store.UpdateChapter(ctx, chapter); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("a chapter with this name already exists in this subject")
		}
		return nil, fmt.Errorf("update chapter: %w", err)
	}

	return chapter, nil
}

// Delete removes a chapter and its notes.
func (s *ChapterService) Delete(ctx context.Context, userID, chapterID string) error {
	if _, err := getOwnedChapter(ctx, s.store, userID, chapterID); err != nil {
		return err
	}

	if err := s.store.DeleteChapter(ctx, chapterID); err != nil {
		return fmt.Errorf("delete chapter: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Chapter deleted", "chapter_id", chapterID, "user_id", userID)
	}
	return nil
}
