package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/notevault/notevault-server/internal/domain"
	"github.com/notevault/notevault-server/internal/search"
	"github.com/notevault/notevault-server/internal/store"
	"github.com/notevault/notevault-server/internal/textutil"
)

// SearchService answers note queries, preferring the full-text index
// and degrading to a store scan when the index can't answer.
type SearchService struct {
	store  *store.Store
	index  *search.NoteIndex
	logger *slog.Logger
}

// NewSearchService creates a new search service. A nil index is
// allowed; every query then uses the fallback scan.
func NewSearchService(store *store.Store, index *search.NoteIndex, logger *slog.Logger) *SearchService {
	return &SearchService{
		store:  store,
		index:  index,
		logger: logger,
	}
}

// SearchRequest contains the query parameters. Limit is a hint, not a
// constraint: anything out of range is clamped, never rejected.
type SearchRequest struct {
	Query string `json:"q" validate:"required,min=1,max=200"`
	Limit int    `json:"limit"`
}

// SearchResponse is the hydrated result set.
type SearchResponse struct {
	Query    string          `json:"query"`
	Total    int             `json:"total"`
	Results  []*SearchResult `json:"results"`
	Fallback bool            `json:"fallback"` // True when served by the store scan
}

// SearchResult is one matched note, hydrated from the store with its
// parent display names resolved ("Unknown" for orphaned references).
type SearchResult struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Snippet     string  `json:"snippet"`
	Tags        string  `json:"tags"`
	SubjectID   string  `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	ChapterID   string  `json:"chapter_id"`
	ChapterName string  `json:"chapter_name"`
	Modified    string  `json:"modified"`
	Score       float64 `json:"score,omitempty"`
}

// Search runs a query over the user's notes.
// The Bleve index is the primary strategy. Only an unavailable index
// triggers the store-scan fallback; other index errors propagate,
// since retrying them against a slower path would just mask bugs.
func (s *SearchService) Search(ctx context.Context, userID string, req SearchRequest) (*SearchResponse, error) {
	req.Query = strings.TrimSpace(req.Query)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	if limit > search.MaxLimit {
		limit = search.MaxLimit
	}

	if s.index != nil {
		result, err := s.index.Search(ctx, search.SearchParams{
			Query:  req.Query,
			UserID: userID,
			Limit:  limit,
		})
		if err == nil {
			return s.hydrate(ctx, req.Query, result)
		}
		if !errors.Is(err, search.ErrIndexUnavailable) {
			return nil, fmt.Errorf("search: %w", err)
		}
		if s.logger != nil {
			s.logger.Warn("Search index unavailable, falling back to store scan", "error", err)
		}
	}

	return s.fallbackScan(ctx, userID, req.Query, limit)
}

// hydrate resolves index hits against the store. Hits whose note has
// been deleted since indexing are dropped.
func (s *SearchService) hydrate(ctx context.Context, query string, result *search.SearchResult) (*SearchResponse, error) {
	resp := &SearchResponse{
		Query:   query,
		Results: make([]*SearchResult, 0, len(result.Hits)),
	}

	names := s.newParentResolver()
	for _, hit := range result.Hits {
		note, err := s.store.GetNote(ctx, hit.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get note: %w", err)
		}
		resp.Results = append(resp.Results, names.resolve(ctx, noteToResult(note, hit.Score)))
	}

	resp.Total = len(resp.Results)
	return resp, nil
}

// fallbackScan is the degraded path: case-insensitive substring match
// over the user's notes, most recently updated first.
func (s *SearchService) fallbackScan(ctx context.Context, userID, query string, limit int) (*SearchResponse, error) {
	notes, err := s.store.ListNotesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("scan notes: %w", err)
	}

	needle := strings.ToLower(query)
	resp := &SearchResponse{
		Query:    query,
		Results:  []*SearchResult{},
		Fallback: true,
	}

	names := s.newParentResolver()
	for _, note := range notes {
		if len(resp.Results) == limit {
			break
		}
		if !matchesNote(note, needle) {
			continue
		}
		resp.Results = append(resp.Results, names.resolve(ctx, noteToResult(note, 0)))
	}

	resp.Total = len(resp.Results)
	return resp, nil
}

func matchesNote(note *domain.Note, needle string) bool {
	if strings.Contains(strings.ToLower(note.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(note.Tags), needle) {
		return true
	}
	plain := textutil.StripMarkup(note.Content)
	return strings.Contains(strings.ToLower(plain), needle)
}

func noteToResult(note *domain.Note, score float64) *SearchResult {
	plain := textutil.StripMarkup(note.Content)
	return &SearchResult{
		ID:        note.ID,
		Title:     note.Title,
		Snippet:   textutil.Snippet(plain, searchSnippetLen),
		Tags:      note.Tags,
		SubjectID: note.SubjectID,
		ChapterID: note.ChapterID,
		Modified:  note.Modified,
		Score:     score,
	}
}

// parentResolver fills in subject/chapter display names, memoizing
// lookups across one result set. Orphaned references get "Unknown"
// instead of failing the search.
type parentResolver struct {
	store    *store.Store
	subjects map[string]string
	chapters map[string]string
}

func (s *SearchService) newParentResolver() *parentResolver {
	return &parentResolver{
		store:    s.store,
		subjects: make(map[string]string),
		chapters: make(map[string]string),
	}
}

func (r *parentResolver) resolve(ctx context.Context, result *SearchResult) *SearchResult {
	result.SubjectName = r.subjectName(ctx, result.SubjectID)
	result.ChapterName = r.chapterName(ctx, result.ChapterID)
	return result
}

func (r *parentResolver) subjectName(ctx context.Context, id string) string {
	if name, ok := r.subjects[id]; ok {
		return name
	}
	name := "Unknown"
	if subject, err := r.store.GetSubject(ctx, id); err == nil {
		name = subject.Name
	}
	r.subjects[id] = name
	return name
}

func (r *parentResolver) chapterName(ctx context.Context, id string) string {
	if name, ok := r.chapters[id]; ok {
		return name
	}
	name := "Unknown"
	if chapter, err := r.store.GetChapter(ctx, id); err == nil {
		name = chapter.Name
	}
	r.chapters[id] = name
	return name
}
