package domain

// ActivityDay is a per-user counter of note-mutating actions on one
// UTC calendar day. Unique per (user, date); incremented atomically
// by the store so concurrent saves never lose updates.
type ActivityDay struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"` // YYYY-MM-DD, UTC
	Count  int    `json:"count"`
}
