package service

import (
	"context"
	"log/slog"

	"github.com/notevault/notevault-server/internal/domain"
	"github.com/notevault/notevault-server/internal/search"
)

// SearchSync bridges store mutations into the search index. The store
// calls it after note writes so the index tracks the data without the
// store depending on search internals.
type SearchSync struct {
	index  *search.NoteIndex
	logger *slog.Logger
}

// NewSearchSync creates a search sync adapter for the given index.
func NewSearchSync(index *search.NoteIndex, logger *slog.Logger) *SearchSync {
	return &SearchSync{index: index, logger: logger}
}

// IndexNote converts and indexes a note.
func (s *SearchSync) IndexNote(_ context.Context, note *domain.Note) error {
	return s.index.IndexDocument(search.NoteToDocument(note))
}

// DeleteNote removes a note from the index.
func (s *SearchSync) DeleteNote(_ context.Context, noteID string) error {
	return s.index.DeleteDocument(noteID)
}

// RebuildFromNotes repopulates the index from scratch. Used at startup
// when the index was recreated due to corruption or a mapping change.
func (s *SearchSync) RebuildFromNotes(notes []*domain.Note) error {
	docs := make([]*search.NoteDocument, 0, len(notes))
	for _, note := range notes {
		docs = append(docs, search.NoteToDocument(note))
	}
	if err := s.index.IndexDocuments(docs); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("Search index repopulated", "notes", len(docs))
	}
	return nil
}
