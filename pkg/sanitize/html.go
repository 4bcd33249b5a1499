package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// StrictPolicy removes every tag. Used for titles, locations and category names.
	StrictPolicy = bluemonday.StrictPolicy()

	// UGCPolicy keeps basic formatting. Used for descriptions and rating comments.
	UGCPolicy = bluemonday.UGCPolicy()
)

// Text strips all HTML and trims surrounding whitespace.
// Entities produced by the policy are decoded so "Rock & Roll" survives as typed.
func Text(input string) string {
	return strings.TrimSpace(html.UnescapeString(StrictPolicy.Sanitize(input)))
}

// HTML keeps safe formatting tags and trims surrounding whitespace.
func HTML(input string) string {
	return strings.TrimSpace(UGCPolicy.Sanitize(input))
}

// OptionalText applies Text to a pointer; empty results become nil.
func OptionalText(input *string) *string {
	if input == nil {
		return nil
	}
	out := Text(*input)
	if out == "" {
		return nil
	}
	return &out
}

// OptionalHTML applies HTML to a pointer; empty results become nil.
func OptionalHTML(input *string) *string {
	if input == nil {
		return nil
	}
	out := HTML(*input)
	if out == "" {
		return nil
	}
	return &out
}
