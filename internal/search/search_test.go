package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/notevault/notevault-server/internal/domain"
	"github.com/notevault/notevault-server/internal/search"
)

func setupTestIndex(t *testing.T) *search.NoteIndex {
	t.Helper()

	idx, err := search.NewNoteIndex(search.Options{
		DataPath: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	return idx
}

func testNote(id, userID, title, content, tags string) *domain.Note {
	n := &domain.Note{
		Entity: domain.Entity{
			ID:        id,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		},
		UserID:    userID,
		SubjectID: "subj_1",
		ChapterID: "chap_1",
		Title:     title,
		Content:   content,
		Tags:      tags,
	}
	return n
}

func seedIndex(t *testing.T, idx *search.NoteIndex) {
	t.Helper()

	notes := []*domain.Note{
		testNote("note_1", "user_1", "Quadratic equations", "<p>The quadratic formula solves second degree polynomials.</p>", "maths,algebra"),
		testNote("note_2", "user_1", "Photosynthesis", "<p>Plants convert light into chemical energy.</p>", "biology"),
		testNote("note_3", "user_1", "Cell biology basics", "<p>Organelles and the quadratic growth of colonies.</p>", ""),
		testNote("note_4", "user_2", "Quadratic forms", "<p>A different user's note about quadratics.</p>", "maths"),
	}

	docs := make([]*search.NoteDocument, 0, len(notes))
	for _, n := range notes {
		docs = append(docs, search.NoteToDocument(n))
	}
	require.NoError(t, idx.IndexDocuments(docs))
}

func TestSearch_TitleMatchRanksFirst(t *testing.T) {
	idx := setupTestIndex(t)
	seedIndex(t, idx)

	result, err := idx.Search(context.Background(), search.SearchParams{
		Query:  "quadratic",
		UserID: "user_1",
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(result.Hits), 2)
	// The title hit outranks the content-only hit.
	require.Equal(t, "note_1", result.Hits[0].ID)
}

func TestSearch_ScopedToUser(t *testing.T) {
	idx := setupTestIndex(t)
	seedIndex(t, idx)

	result, err := idx.Search(context.Background(), search.SearchParams{
		Query:  "quadratic",
		UserID: "user_2",
	})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	require.Equal(t, "note_4", result.Hits[0].ID)
}

func TestSearch_ContentIsStripped(t *testing.T) {
	idx := setupTestIndex(t)
	seedIndex(t, idx)

	// Markup never matches: "p" appears in every note as a tag name.
	result, err := idx.Search(context.Background(), search.SearchParams{
		Query:  "chemical energy",
		UserID: "user_1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	require.Equal(t, "note_2", result.Hits[0].ID)
}

func TestSearch_TagMatch(t *testing.T) {
	idx := setupTestIndex(t)
	seedIndex(t, idx)

	result, err := idx.Search(context.Background(), search.SearchParams{
		Query:  "biology",
		UserID: "user_1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)

	ids := make([]string, 0, len(result.Hits))
	for _, h := range result.Hits {
		ids = append(ids, h.ID)
	}
	require.Contains(t, ids, "note_2")
	require.Contains(t, ids, "note_3")
}

func TestSearch_FuzzyToleratesTypos(t *testing.T) {
	idx := setupTestIndex(t)
	seedIndex(t, idx)

	result, err := idx.Search(context.Background(), search.SearchParams{
		Query:  "fotosynthesis",
		UserID: "user_1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	require.Equal(t, "note_2", result.Hits[0].ID)
}

func TestSearch_LimitClamped(t *testing.T) {
	idx := setupTestIndex(t)
	seedIndex(t, idx)

	result, err := idx.Search(context.Background(), search.SearchParams{
		Query:  "quadratic",
		UserID: "user_1",
		Limit:  1,
	})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	require.GreaterOrEqual(t, result.Total, uint64(2))
}

func TestSearch_ClosedIndexReportsUnavailable(t *testing.T) {
	idx := setupTestIndex(t)
	seedIndex(t, idx)

	require.NoError(t, idx.Close())

	_, err := idx.Search(context.Background(), search.SearchParams{
		Query:  "quadratic",
		UserID: "user_1",
	})
	require.ErrorIs(t, err, search.ErrIndexUnavailable)
}

func TestIndex_DeleteDocument(t *testing.T) {
	idx := setupTestIndex(t)
	seedIndex(t, idx)

	require.NoError(t, idx.DeleteDocument("note_2"))

	result, err := idx.Search(context.Background(), search.SearchParams{
		Query:  "photosynthesis",
		UserID: "user_1",
	})
	require.NoError(t, err)
	require.Empty(t, result.Hits)
}

func TestIndex_Rebuild(t *testing.T) {
	idx := setupTestIndex(t)
	seedIndex(t, idx)

	require.NoError(t, idx.Rebuild())

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	require.Equal(t, uint64(0), count)

	// Index accepts documents again after rebuild.
	require.NoError(t, idx.IndexDocument(search.NoteToDocument(
		testNote("note_9", "user_1", "After rebuild", "<p>fresh</p>", ""),
	)))

	count, err = idx.DocumentCount()
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
}
