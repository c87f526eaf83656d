package domain

// DefaultAvatar is the glyph assigned to new accounts.
const DefaultAvatar = "🎓"

// User represents an authenticated user account in the system.
// Email is stored lowercased; username and email are unique store-wide.
type User struct {
	Entity
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	Avatar       string `json:"avatar"`
}

// Sanitized returns a copy safe for API responses, with the password hash removed.
func (u *User) Sanitized() *User {
	clean := *u
	clean.PasswordHash = ""
	return &clean
}
