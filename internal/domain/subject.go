package domain

// Default display properties for new subjects.
const (
	DefaultSubjectColor = "#6C63FF"
	DefaultSubjectIcon  = "📚"
)

// Subject is a top-level grouping of chapters and notes, owned by one user.
// The (owner, name) pair is unique.
type Subject struct {
	Entity
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Icon   string `json:"icon"`
}

// SubjectWithCounts is a subject annotated with live child counts for
// list views and the dashboard breakdown.
type SubjectWithCounts struct {
	Subject
	ChapterCount int `json:"chapter_count"`
	NoteCount    int `json:"note_count"`
}

// SubjectDetail is a subject expanded with its chapters for the detail view.
type SubjectDetail struct {
	Subject
	Chapters     []*ChapterWithCount `json:"chapters"`
	ChapterCount int                 `json:"chapter_count"`
	NoteCount    int                 `json:"note_count"`
}
