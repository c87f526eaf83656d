package domain

// Totals holds the headline dashboard counters.
type Totals struct {
	TotalSubjects int `json:"total_subjects"`
	TotalChapters int `json:"total_chapters"`
	TotalNotes    int `json:"total_notes"`
	TotalWords    int `json:"total_words"`
}

// RecentNote is a note enriched for the dashboard feed: parent display
// names resolved (with "Unknown" placeholders for orphaned references)
// and a markup-stripped content snippet.
type RecentNote struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	Tags        string `json:"tags"`
	Modified    string `json:"modified"`
	UpdatedAt   string `json:"updated_at"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	ChapterID   string `json:"chapter_id"`
	ChapterName string `json:"chapter_name"`
}

// TagCount is a tag with its occurrence count across a user's notes.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// HeatmapEntry is one calendar day in the activity heatmap.
type HeatmapEntry struct {
	Date  string `json:"date"` // YYYY-MM-DD, UTC
	Count int    `json:"count"`
}

// DashboardStats is the full analytics snapshot for one user.
type DashboardStats struct {
	Stats            Totals               `json:"stats"`
	RecentNotes      []RecentNote         `json:"recent_notes"`
	SubjectBreakdown []*SubjectWithCounts `json:"subject_breakdown"`
	TopTags          []TagCount           `json:"top_tags"`
	Heatmap          []HeatmapEntry       `json:"heatmap"`
	StreakDays       int                  `json:"streak_days"`
	UniqueTags       int                  `json:"unique_tags"`
}

// ActivityLog is the raw per-day activity history, newest first.
type ActivityLog struct {
	Activity  []*ActivityDay `json:"activity"`
	TotalDays int            `json:"total_days"`
}
