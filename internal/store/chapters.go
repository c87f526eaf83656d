package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/notevault/notevault-server/internal/domain"
)

// Key layout:
//
//	chapter:{id}                            -> Chapter JSON
//	chapter:idx:subject:{subjectID}:{id}    -> id
//	chapter:idx:user:{userID}:{id}          -> id
//	chapter:idx:name:{subjectID}:{name}     -> id (name lowercased)

// initChapters initializes the Chapters entity on the store.
func (s *Store) initChapters() {
	s.Chapters = NewEntity[domain.Chapter](s, "chapter:").
		WithIndex("subject", func(c *domain.Chapter) []string {
			return []string{c.SubjectID + ":" + c.ID}
		}).
		WithIndex("user", func(c *domain.Chapter) []string {
			return []string{c.UserID + ":" + c.ID}
		}).
		WithIndex("name", func(c *domain.Chapter) []string {
			return []string{c.SubjectID + ":" + strings.ToLower(strings.TrimSpace(c.Name))}
		})
}

// CreateChapter creates a new chapter.
// Returns ErrAlreadyExists if the subject already has a chapter with
// the same name (case-insensitive).
func (s *Store) CreateChapter(ctx context.Context, chapter *domain.Chapter) error {
	return s.Chapters.Create(ctx, chapter.ID, chapter)
}

// GetChapter retrieves a chapter by ID.
func (s *Store) GetChapter(ctx context.Context, id string) (*domain.Chapter, error) {
	return s.Chapters.Get(ctx, id)
}

// GetChapterByName retrieves a subject's chapter by name (case-insensitive).
func (s *Store) GetChapterByName(ctx context.Context, subjectID, name string) (*domain.Chapter, error) {
	key := subjectID + ":" + strings.ToLower(strings.TrimSpace(name))
	return s.Chapters.GetByIndex(ctx, "name", key)
}

// UpdateChapter updates an existing chapter, maintaining index keys.
func (s *Store) UpdateChapter(ctx context.Context, chapter *domain.Chapter) error {
	return s.Chapters.Update(ctx, chapter.ID, chapter)
}

// ListChapters returns all chapters in a subject.
func (s *Store) ListChapters(ctx context.Context, subjectID string) ([]*domain.Chapter, error) {
	ids, err := s.indexIDs(ctx, "chapter:idx:subject:"+subjectID+":")
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}

	chapters := make([]*domain.Chapter, 0, len(ids))
	for _, id := range ids {
		chapter, err := s.Chapters.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, chapter)
	}
	return chapters, nil
}

// CountChaptersBySubject counts chapters in a subject.
func (s *Store) CountChaptersBySubject(ctx context.Context, subjectID string) (int, error) {
	return s.countKeys(ctx, []byte("chapter:idx:subject:"+subjectID+":"))
}

// CountChaptersByUser counts all chapters owned by a user.
func (s *Store) CountChaptersByUser(ctx context.Context, userID string) (int, error) {
	return s.countKeys(ctx, []byte("chapter:idx:user:"+userID+":"))
}

// DeleteChapter deletes a chapter and cascades to its notes.
// Note deletions are propagated to the search indexer.
func (s *Store) DeleteChapter(ctx context.Context, id string) error {
	noteIDs, err := s.indexIDs(ctx, "note:idx:chapter:"+id+":")
	if err != nil {
		return fmt.Errorf("failed to collect chapter notes: %w", err)
	}
	for _, noteID := range noteIDs {
		if err := s.deleteNoteByID(ctx, noteID); err != nil {
			return err
		}
	}

	return s.Chapters.Delete(ctx, id)
}
