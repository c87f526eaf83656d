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

// SubjectService manages the top level of the note hierarchy.
type SubjectService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(store *store.Store, logger *slog.Logger) *SubjectService {
	return &SubjectService{store: store, logger: logger}
}

// CreateSubjectRequest contains new subject data.
type CreateSubjectRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Icon  string `json:"icon" validate:"omitempty,max=16"`
}

// UpdateSubjectRequest contains subject fields a user may change.
// Nil pointers mean "leave unchanged".
type UpdateSubjectRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
	Icon  *string `json:"icon" validate:"omitempty,max=16"`
}

// Create creates a new subject for the user.
// Names are unique per user, compared case-insensitively.
func (s *SubjectService) Create(ctx context.Context, userID string, req CreateSubjectRequest) (*domain.Subject, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domainerrors.Validation("subject name cannot be blank")
	}

	if _, err := s.store.GetSubjectByName(ctx, userID, name); err == nil {
		return nil, domainerrors.AlreadyExists("a subject with this name already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check subject name: %w", err)
	}

	subjectID, err := id.Generate(id.PrefixSubject)
	if err != nil {
		return nil, fmt.Errorf("generate subject ID: %w", err)
	}

	subject := &domain.Subject{
		Entity: domain.Entity{ID: subjectID},
		UserID: userID,
		Name:   name,
		Color:  req.Color,
		Icon:   req.Icon,
	}
	if subject.Color == "" {
		subject.Color = domain.DefaultSubjectColor
	}
	if subject.Icon == "" {
		subject.Icon = domain.DefaultSubjectIcon
	}
	subject.InitTimestamps()

	if err := s.store.CreateSubject(ctx, subject); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("a subject with this name already exists")
		}
		return nil, fmt.Errorf("create subject: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Subject created", "subject_id", subjectID, "user_id", userID)
	}

	return subject, nil
}

// List returns the user's subjects with chapter and note counts,
// sorted by name.
func (s *SubjectService) List(ctx context.Context, userID string) ([]*domain.SubjectWithCounts, error) {
	subjects, err := s.store.ListSubjects(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	result := make([]*domain.SubjectWithCounts, 0, len(subjects))
	for _, subject := range subjects {
		withCounts, err := s.withCounts(ctx, subject)
		if err != nil {
			return nil, err
		}
		result = append(result, withCounts)
	}

	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

// Get returns a subject with its chapters (each carrying a note count).
func (s *SubjectService) Get(ctx context.Context, userID, subjectID string) (*domain.SubjectDetail, error) {
	subject, err := getOwnedSubject(ctx, s.store, userID, subjectID)
	if err != nil {
		return nil, err
	}

	chapters, err := s.store.ListChapters(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}

	detail := &domain.SubjectDetail{
		Subject:  *subject,
		Chapters: make([]*domain.ChapterWithCount, 0, len(chapters)),
	}
	for _, chapter := range chapters {
		noteCount, err := s.store.CountNotesByChapter(ctx, chapter.ID)
		if err != nil {
			return nil, fmt.Errorf("count notes: %w", err)
		}
		detail.Chapters = append(detail.Chapters, &domain.ChapterWithCount{
			Chapter:   *chapter,
			NoteCount: noteCount,
		})
		detail.NoteCount += noteCount
	}
	detail.ChapterCount = len(chapters)

	sort.Slice(detail.Chapters, func(i, j int) bool {
		return strings.ToLower(detail.Chapters[i].Name) < strings.ToLower(detail.Chapters[j].Name)
	})
	return detail, nil
}

// Update applies changes to a subject the user owns.
func (s *SubjectService) Update(ctx context.Context, userID, subjectID string, req UpdateSubjectRequest) (*domain.Subject, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	subject, err := getOwnedSubject(ctx, s.store, userID, subjectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domainerrors.Validation("subject name cannot be blank")
		}
		if !strings.EqualFold(name, subject.Name) {
			if existing, err := s.store.GetSubjectByName(ctx, userID, name); err == nil && existing.ID != subjectID {
				return nil, domainerrors.AlreadyExists("a subject with this name already exists")
			} else if err != nil && !errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("check subject name: %w", err)
			}
		}
		subject.Name = name
	}
	if req.Color != nil && *req.Color != "" {
		subject.Color = *req.Color
	}
	if req.Icon != nil && *req.Icon != "" {
		subject.Icon = *req.Icon
	}

	subject.Touch()
	if err := s.store.UpdateSubject(ctx, subject); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("a subject with this name already exists")
		}
		return nil, fmt.Errorf("update subject: %w", err)
	}

	return subject, nil
}

// Delete removes a subject and everything under it.
func (s *SubjectService) Delete(ctx context.Context, userID, subjectID string) error {
	if _, err := getOwnedSubject(ctx, s.store, userID, subjectID); err != nil {
		return err
	}

	if err := s.store.DeleteSubject(ctx, subjectID); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Subject deleted", "subject_id", subjectID, "user_id", userID)
	}
	return nil
}

// withCounts annotates a subject with its live child counts.
func (s *SubjectService) withCounts(ctx context.Context, subject *domain.Subject) (*domain.SubjectWithCounts, error) {
	chapterCount, err := s.store.CountChaptersBySubject(ctx, subject.ID)
	if err != nil {
		return nil, fmt.Errorf("count chapters: %w", err)
	}
	noteCount, err := s.store.CountNotesBySubject(ctx, subject.ID)
	if err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}
	return &domain.SubjectWithCounts{
		Subject:      *subject,
		ChapterCount: chapterCount,
		NoteCount:    noteCount,
	}, nil
}
