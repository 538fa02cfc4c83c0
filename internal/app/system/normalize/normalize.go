// internal/app/system/normalize/normalize.go

// Package normalize provides canonical forms for user-entered identity
// fields so lookups and uniqueness checks behave consistently.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Username lowercases and trims a username for the case-insensitive
// uniqueness index. The display username keeps its original case.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Enrollment trims and uppercases an enrollment number.
func Enrollment(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
