package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/notevault/notevault-server/internal/domain"
)

// Key layout:
//
//	subject:{id}                          -> Subject JSON
//	subject:idx:user:{userID}:{id}        -> id
//	subject:idx:name:{userID}:{name}      -> id (name lowercased)
//
// The name index enforces per-user name uniqueness; the user index
// drives ownership listing via prefix scans.

// initSubjects initializes the Subjects entity on the store.
func (s *Store) initSubjects() {
	s.Subjects = NewEntity[domain.Subject](s, "subject:").
		WithIndex("user", func(sub *domain.Subject) []string {
			return []string{sub.UserID + ":" + sub.ID}
		}).
		WithIndex("name", func(sub *domain.Subject) []string {
			return []string{sub.UserID + ":" + strings.ToLower(strings.TrimSpace(sub.Name))}
		})
}

// CreateSubject creates a new subject.
// Returns ErrAlreadyExists if the owner already has a subject with the
// same name (case-insensitive).
func (s *Store) CreateSubject(ctx context.Context, subject *domain.Subject) error {
	return s.Subjects.Create(ctx, subject.ID, subject)
}

// GetSubject retrieves a subject by ID.
func (s *Store) GetSubject(ctx context.Context, id string) (*domain.Subject, error) {
	return s.Subjects.Get(ctx, id)
}

// GetSubjectByName retrieves a user's subject by name (case-insensitive).
func (s *Store) GetSubjectByName(ctx context.Context, userID, name string) (*domain.Subject, error) {
	key := userID + ":" + strings.ToLower(strings.TrimSpace(name))
	return s.Subjects.GetByIndex(ctx, "name", key)
}

// UpdateSubject updates an existing subject, maintaining index keys.
func (s *Store) UpdateSubject(ctx context.Context, subject *domain.Subject) error {
	return s.Subjects.Update(ctx, subject.ID, subject)
}

// ListSubjects returns all subjects owned by a user.
func (s *Store) ListSubjects(ctx context.Context, userID string) ([]*domain.Subject, error) {
	ids, err := s.indexIDs(ctx, "subject:idx:user:"+userID+":")
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}

	subjects := make([]*domain.Subject, 0, len(ids))
	for _, id := range ids {
		subject, err := s.Subjects.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	return subjects, nil
}

// CountSubjects counts subjects owned by a user.
func (s *Store) CountSubjects(ctx context.Context, userID string) (int, error) {
	return s.countKeys(ctx, []byte("subject:idx:user:"+userID+":"))
}

// DeleteSubject deletes a subject and cascades to its chapters and
// notes. Note deletions are propagated to the search indexer.
func (s *Store) DeleteSubject(ctx context.Context, id string) error {
	noteIDs, err := s.indexIDs(ctx, "note:idx:subject:"+id+":")
	if err != nil {
		return fmt.Errorf("failed to collect subject notes: %w", err)
	}
	for _, noteID := range noteIDs {
		if err := s.deleteNoteByID(ctx, noteID); err != nil {
			return err
		}
	}

	chapterIDs, err := s.indexIDs(ctx, "chapter:idx:subject:"+id+":")
	if err != nil {
		return fmt.Errorf("failed to collect subject chapters: %w", err)
	}
	for _, chapterID := range chapterIDs {
		if err := s.Chapters.Delete(ctx, chapterID); err != nil {
			return err
		}
	}

	return s.Subjects.Delete(ctx, id)
}
