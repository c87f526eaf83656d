package domain

// DefaultChapterIcon is the glyph assigned to new chapters.
const DefaultChapterIcon = "📑"

// Chapter groups notes inside a subject. The (subject, name) pair is unique.
type Chapter struct {
	Entity
	UserID    string `json:"user_id"`
	SubjectID string `json:"subject_id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
}

// ChapterWithCount is a chapter annotated with its live note count.
type ChapterWithCount struct {
	Chapter
	NoteCount int `json:"note_count"`
}
