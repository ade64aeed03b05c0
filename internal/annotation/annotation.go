// Package annotation implements the inline edit-note convention used in
// section content:
//
//	{{original text}}【edit note: suggestion】
//
// The colon may be ASCII or full-width. Spans are stripped on export,
// leaving only the original text; a section made of nothing but spans is
// an unresolved revision and is not exported at all.
package annotation

import (
	"fmt"
	"regexp"
	"strings"
)

var spanPattern = regexp.MustCompile(`(?s)\{\{(.+?)\}\}【edit note[:：]\s*(.+?)】`)

// Span is one annotation found in a text.
type Span struct {
	Original string
	Note     string
}

// Format renders original and note as a span.
func Format(original, note string) string {
	return fmt.Sprintf("{{%s}}【edit note: %s】", original, note)
}

// Find returns the spans in text, in order of appearance.
func Find(text string) []Span {
	matches := spanPattern.FindAllStringSubmatch(text, -1)
	spans := make([]Span, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, Span{Original: m[1], Note: m[2]})
	}
	return spans
}

// Only reports whether text consists of nothing but spans and whitespace.
func Only(text string) bool {
	if !spanPattern.MatchString(text) {
		return false
	}
	return strings.TrimSpace(spanPattern.ReplaceAllString(text, "")) == ""
}

// Strip replaces every span with its original text.
func Strip(text string) string {
	return spanPattern.ReplaceAllString(text, "$1")
}
