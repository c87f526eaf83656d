package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/notevault/notevault-server/internal/domain"
)

// Key layout:
//
//	note:{id}                             -> Note JSON
//	note:idx:user:{userID}:{id}           -> id
//	note:idx:chapter:{chapterID}:{id}     -> id
//	note:idx:subject:{subjectID}:{id}     -> id
//
// Notes have no uniqueness constraints beyond their ID; the three
// ownership indexes drive listing, counting and cascade deletes.

// initNotes initializes the Notes entity on the store.
func (s *Store) initNotes() {
	s.Notes = NewEntity[domain.Note](s, "note:").
		WithIndex("user", func(n *domain.Note) []string {
			return []string{n.UserID + ":" + n.ID}
		}).
		WithIndex("chapter", func(n *domain.Note) []string {
			return []string{n.ChapterID + ":" + n.ID}
		}).
		WithIndex("subject", func(n *domain.Note) []string {
			return []string{n.SubjectID + ":" + n.ID}
		})
}

// CreateNote creates a new note and indexes it for search.
func (s *Store) CreateNote(ctx context.Context, note *domain.Note) error {
	if err := s.Notes.Create(ctx, note.ID, note); err != nil {
		return err
	}
	s.indexForSearch(ctx, note)
	return nil
}

// GetNote retrieves a note by ID.
func (s *Store) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	return s.Notes.Get(ctx, id)
}

// UpdateNote updates an existing note and reindexes it for search.
func (s *Store) UpdateNote(ctx context.Context, note *domain.Note) error {
	if err := s.Notes.Update(ctx, note.ID, note); err != nil {
		return err
	}
	s.indexForSearch(ctx, note)
	return nil
}

// DeleteNote deletes a note and removes it from the search index.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	return s.deleteNoteByID(ctx, id)
}

// deleteNoteByID is the shared deletion path used by DeleteNote and
// the cascade deletes on chapters and subjects.
func (s *Store) deleteNoteByID(ctx context.Context, id string) error {
	if err := s.Notes.Delete(ctx, id); err != nil {
		return err
	}
	if s.searchIndexer != nil {
		if err := s.searchIndexer.DeleteNote(ctx, id); err != nil && s.logger != nil {
			s.logger.Warn("Failed to remove note from search index", "note_id", id, "error", err)
		}
	}
	return nil
}

// indexForSearch pushes a note into the search index. Index failures
// are logged, not returned: the store write already succeeded and the
// index can be rebuilt.
func (s *Store) indexForSearch(ctx context.Context, note *domain.Note) {
	if s.searchIndexer == nil {
		return
	}
	if err := s.searchIndexer.IndexNote(ctx, note); err != nil && s.logger != nil {
		s.logger.Warn("Failed to index note for search", "note_id", note.ID, "error", err)
	}
}

// ListNotesByChapter returns a chapter's notes, most recently updated first.
func (s *Store) ListNotesByChapter(ctx context.Context, chapterID string) ([]*domain.Note, error) {
	return s.listNotes(ctx, "note:idx:chapter:"+chapterID+":")
}

// ListNotesByUser returns all of a user's notes, most recently updated first.
func (s *Store) ListNotesByUser(ctx context.Context, userID string) ([]*domain.Note, error) {
	return s.listNotes(ctx, "note:idx:user:"+userID+":")
}

func (s *Store) listNotes(ctx context.Context, indexPrefix string) ([]*domain.Note, error) {
	ids, err := s.indexIDs(ctx, indexPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	notes := make([]*domain.Note, 0, len(ids))
	for _, id := range ids {
		note, err := s.Notes.Get(ctx, id)
		if err != nil {
			// Index entry without a record: skip rather than fail the listing.
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		notes = append(notes, note)
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	return notes, nil
}

// ListAllNotes returns every note in the store, across all users.
// Used to repopulate the search index after a rebuild.
func (s *Store) ListAllNotes(ctx context.Context) ([]*domain.Note, error) {
	var notes []*domain.Note
	for note, err := range s.Notes.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("failed to list all notes: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// CountNotesByChapter counts notes in a chapter.
func (s *Store) CountNotesByChapter(ctx context.Context, chapterID string) (int, error) {
	return s.countKeys(ctx, []byte("note:idx:chapter:"+chapterID+":"))
}

// CountNotesBySubject counts notes in a subject.
func (s *Store) CountNotesBySubject(ctx context.Context, subjectID string) (int, error) {
	return s.countKeys(ctx, []byte("note:idx:subject:"+subjectID+":"))
}

// CountNotesByUser counts all notes owned by a user.
func (s *Store) CountNotesByUser(ctx context.Context, userID string) (int, error) {
	return s.countKeys(ctx, []byte("note:idx:user:"+userID+":"))
}
