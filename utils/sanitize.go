package utils

import "github.com/microcosm-cc/bluemonday"

// Post and comment bodies keep the safe UGC markup subset; titles render as
// plain text everywhere, so they get the strict policy.
var (
	bodyPolicy  = bluemonday.UGCPolicy()
	titlePolicy = bluemonday.StrictPolicy()
)

// Sanitize strips unsafe HTML from user supplied body text.
func Sanitize(input string) string {
	return bodyPolicy.Sanitize(input)
}

// SanitizeTitle strips all markup from a title.
func SanitizeTitle(input string) string {
	return titlePolicy.Sanitize(input)
}
