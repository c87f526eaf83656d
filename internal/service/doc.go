// Package service contains the business logic between the HTTP API and
// the store: authentication, the subject/chapter/note hierarchy,
// dashboard aggregation and search.
package service

import "github.com/notevault/notevault-server/internal/validation"

// validate is the shared request validator for all services.
var validate = validation.New()

// Snippet lengths used when summarizing note content for list views.
const (
	noteSnippetLen   = 120
	searchSnippetLen = 150
)
