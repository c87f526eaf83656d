package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/notevault/notevault-server/internal/domain"
	domainerrors "github.com/notevault/notevault-server/internal/errors"
	"github.com/notevault/notevault-server/internal/store"
)

// Ownership checks shared by the hierarchy services. A record owned by
// someone else maps to the same NotFound as a missing record, so a
// response never confirms to a stranger that an ID exists.

func getOwnedSubject(ctx context.Context, s *store.Store, userID, subjectID string) (*domain.Subject, error) {
	subject, err := s.GetSubject(ctx, subjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("subject not found")
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}
	if subject.UserID != userID {
		return nil, domainerrors.NotFound("subject not found")
	}
	return subject, nil
}

func getOwnedChapter(ctx context.Context, s *store.Store, userID, chapterID string) (*domain.Chapter, error) {
	chapter, err := s.GetChapter(ctx, chapterID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("chapter not found")
		}
		return nil, fmt.Errorf("get chapter: %w", err)
	}
	if chapter.UserID != userID {
		return nil, domainerrors.NotFound("chapter not found")
	}
	return chapter, nil
}

func getOwnedNote(ctx context.Context, s *store.Store, userID, noteID string) (*domain.Note, error) {
	note, err := s.GetNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("note not found")
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	if note.UserID != userID {
		return nil, domainerrors.NotFound("note not found")
	}
	return note, nil
}
