package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a note search query.
type SearchParams struct {
	Query  string // User's search query
	UserID string // Owner scope, always required

	// Pagination
	Limit  int
	Offset int
}

// DefaultLimit is the result cap applied when no limit is given.
const DefaultLimit = 20

// MaxLimit is the hard cap on requested result counts.
const MaxLimit = 50

// SearchResult represents the search results.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit is a single matched note. Only identity and ranking data
// come from the index; callers hydrate display fields from the store.
type SearchHit struct {
	ID        string  `json:"id"`
	Score     float64 `json:"score"`
	Title     string  `json:"title"`
	SubjectID string  `json:"subject_id"`
	ChapterID string  `json:"chapter_id"`
}

// Search executes a search query scoped to one user's notes.
// Returns ErrIndexUnavailable (wrapped) when the index cannot answer,
// so callers can fall back to a store scan.
func (s *NoteIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}

	searchQuery := buildSearchQuery(params)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)
	searchRequest.SortBy([]string{"-_score", "-updated_at"})
	searchRequest.Fields = []string{"id", "title", "subject_id", "chapter_id"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		// Only a closed index is "unavailable" and worth a fallback
		// scan; anything else is a real failure and propagates.
		if errors.Is(err, bleve.ErrorIndexClosed) {
			return nil, fmt.Errorf("execute search: %w: %w", ErrIndexUnavailable, err)
		}
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if t, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = t
		}
		if sid, ok := hit.Fields["subject_id"].(string); ok {
			searchHit.SubjectID = sid
		}
		if cid, ok := hit.Fields["chapter_id"].(string); ok {
			searchHit.ChapterID = cid
		}
		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
//
// Text matching is a disjunction across title, content and tags with
// the title boosted, plus fuzzy and prefix variants of the title for
// typo tolerance and as-you-type matching. The whole thing is
// conjoined with an exact user_id term so no query ever crosses user
// boundaries.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if params.Query != "" {
		textQueries := []query.Query{}

		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		contentMatch := bleve.NewMatchQuery(params.Query)
		contentMatch.SetField("content")
		textQueries = append(textQueries, contentMatch)

		tagsMatch := bleve.NewMatchQuery(params.Query)
		tagsMatch.SetField("tags")
		tagsMatch.SetBoost(1.5)
		textQueries = append(textQueries, tagsMatch)

		// Fuzzy matching for typo tolerance on the title
		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for as-you-type matching (minimum 2 chars)
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Ownership scope, always present
	userQuery := bleve.NewTermQuery(params.UserID)
	userQuery.SetField("user_id")
	queries = append(queries, userQuery)

	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}
