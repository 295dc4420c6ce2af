// Package retrieve wraps the document-search collaborator and normalizes
// its ranked results into a uniform shape for prompt grounding.
package retrieve

import (
	"regexp"
	"strings"
)

// Result types as stored in the search corpus. An "ANSWER" result carries a
// curated short-answer field preferred over the generic excerpt.
const (
	TypeAnswer   = "ANSWER"
	TypeDocument = "DOCUMENT"
)

// Document is one normalized search hit. Ephemeral: produced per query,
// never persisted.
type Document struct {
	Title   string
	Excerpt string
	URI     string
	Type    string
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// CleanExcerpt collapses repeated whitespace and strips literal ellipsis
// sequences left over from search-result highlighting.
func CleanExcerpt(text string) string {
	cleaned := whitespaceRE.ReplaceAllString(text, " ")
	cleaned = strings.ReplaceAll(cleaned, "...", "")
	return strings.TrimSpace(cleaned)
}

// BestExcerpt picks the short-answer field for answer-type results when one
// is present, the generic excerpt otherwise, and cleans it.
func BestExcerpt(resultType, answerText, excerpt string) string {
	if strings.EqualFold(resultType, TypeAnswer) && strings.TrimSpace(answerText) != "" {
		return CleanExcerpt(answerText)
	}
	return CleanExcerpt(excerpt)
}
