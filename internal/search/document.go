// Package search provides full-text note search using Bleve.
// Notes are indexed per user with fuzzy matching and prefix queries;
// the service layer falls back to a store scan when the index is down.
package search

import (
	"github.com/notevault/notevault-server/internal/domain"
	"github.com/notevault/notevault-server/internal/textutil"
	"github.com/notevault/notevault-server/internal/util"
)

// NoteDocument is the document structure for the Bleve index.
//
// Content is indexed as plain text: markup is stripped before indexing
// so queries match what the user reads, not tag names or attributes.
type NoteDocument struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"` // Keyword field, scopes every query
	SubjectID string   `json:"subject_id"`
	ChapterID string   `json:"chapter_id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"` // Markup already stripped
	Tags      []string `json:"tags,omitempty"`
	UpdatedAt int64    `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *NoteDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"user_id":    d.UserID,
		"subject_id": d.SubjectID,
		"chapter_id": d.ChapterID,
		"title":      d.Title,
		"content":    d.Content,
		"updated_at": d.UpdatedAt,
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	return m
}

// NoteToDocument converts a domain Note to a NoteDocument, stripping
// markup from the content. Tags are normalized so searches hit the
// same canonical form the dashboard counts.
func NoteToDocument(note *domain.Note) *NoteDocument {
	var tags []string
	for _, tag := range note.TagList() {
		if normalized := util.NormalizeTag(tag); normalized != "" {
			tags = append(tags, normalized)
		}
	}
	return &NoteDocument{
		ID:        note.ID,
		UserID:    note.UserID,
		SubjectID: note.SubjectID,
		ChapterID: note.ChapterID,
		Title:     note.Title,
		Content:   textutil.StripMarkup(note.Content),
		Tags:      tags,
		UpdatedAt: note.UpdatedAt.UnixMilli(),
	}
}
