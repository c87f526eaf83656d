package domain

import (
	"strings"
	"time"
)

// DefaultNoteTitle is used when a note is created or renamed with a blank title.
const DefaultNoteTitle = "Untitled"

// modifiedLayout is the human-readable timestamp shown in note lists,
// e.g. "02 Jan 2006, 03:04 PM".
const modifiedLayout = "02 Jan 2006, 03:04 PM"

// Note is a rich-text note. It belongs to exactly one chapter and,
// redundantly for query convenience, to that chapter's subject.
type Note struct {
	Entity
	UserID    string `json:"user_id"`
	SubjectID string `json:"subject_id"`
	ChapterID string `json:"chapter_id"`
	Title     string `json:"title"`
	Content   string `json:"content"` // Rich text (HTML)
	Tags      string `json:"tags"`    // Comma-delimited
	Modified  string `json:"modified"`
}

// TouchModified refreshes both the machine timestamp and the
// human-readable modified string. Call on every content mutation.
func (n *Note) TouchModified() {
	n.Touch()
	n.Modified = n.UpdatedAt.Format(modifiedLayout)
}

// InitNoteTimestamps initializes creation timestamps and the modified string.
func (n *Note) InitNoteTimestamps() {
	n.InitTimestamps()
	n.Modified = n.UpdatedAt.Format(modifiedLayout)
}

// TagList parses the comma-delimited tag string into trimmed, non-empty tags.
func (n *Note) TagList() []string {
	if n.Tags == "" {
		return nil
	}
	var tags []string
	for tag := range strings.SplitSeq(n.Tags, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FormatDay renders a time as the canonical activity day key (UTC, YYYY-MM-DD).
func FormatDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
