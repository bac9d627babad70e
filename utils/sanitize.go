package utils

import "github.com/microcosm-cc/bluemonday"

// Habit names and descriptions are plain text, so the strict policy strips
// all markup instead of allowing a safe HTML subset.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips HTML from user-supplied text to prevent stored XSS.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
