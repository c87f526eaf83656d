// Package textutil provides plain-text extraction from rich note content.
// The dashboard and search components share these helpers so snippet and
// word-count semantics never drift apart.
package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup removes HTML tags and returns plain text.
// Handles common HTML entities and collapses whitespace.
func StripMarkup(s string) string {
	if s == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// If parsing fails, fall back to regex stripping
		return stripMarkupFallback(s)
	}

	var buf strings.Builder
	extractText(doc, &buf)

	result := collapseWhitespace(buf.String())
	return strings.TrimSpace(result)
}

// extractText recursively extracts text content from HTML nodes.
func extractText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}

	// Add space around block elements so adjacent text doesn't run together
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "br", "li", "h1", "h2", "h3", "h4", "h5", "h6":
			buf.WriteString(" ")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, buf)
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6":
			buf.WriteString(" ")
		}
	}
}

// stripMarkupFallback uses regex when parsing fails.
var markupTagRegex = regexp.MustCompile(`<[^>]*>`)

func stripMarkupFallback(s string) string {
	s = markupTagRegex.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(collapseWhitespace(s))
}

// collapseWhitespace replaces multiple whitespace with single space.
var whitespaceRegex = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// Snippet returns at most maxLen runes of plain text, appending an
// ellipsis only when the text was actually truncated. The returned
// prefix is always rune-safe.
func Snippet(plain string, maxLen int) string {
	runes := []rune(plain)
	if len(runes) <= maxLen {
		return plain
	}
	return string(runes[:maxLen]) + "…"
}

// CountWords counts whitespace-separated tokens in plain text.
func CountWords(plain string) int {
	return len(strings.Fields(plain))
}
