// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize cleans user-entered text before it is stored.
// Remarks, descriptions, and rejection reasons all pass through here.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var (
	// ugc keeps a safe subset of formatting markup (user-generated content).
	ugc = bluemonday.UGCPolicy()
	// strict strips all markup, leaving plain text.
	strict = bluemonday.StrictPolicy()
)

// Sanitize removes dangerous markup while keeping safe formatting tags.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc.Sanitize(s)
}

// StripTags removes all markup, returning plain text. Used for fields
// that are never rendered as HTML (remarks, rejection reasons).
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strict.Sanitize(s)
}
