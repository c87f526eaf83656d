// Package util provides common utility functions.
package util

import "strings"

// NormalizeTag converts a user-entered tag to its canonical form: the
// trimmed, lowercased tag. The canonical form is what tag counting and
// search indexing key on, so "Physics" and "physics" land on the same
// tag while "c++" and "c#" stay distinct.
//
// Returns "" for whitespace-only input; callers skip those.
func NormalizeTag(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
