package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// StrictPolicy removes all HTML. Used for titles, names and locations.
	StrictPolicy = bluemonday.StrictPolicy()

	// UGCPolicy keeps basic formatting tags. Used for event descriptions.
	UGCPolicy = bluemonday.UGCPolicy()
)

// Text strips all HTML tags and surrounding whitespace. The result is plain
// text, so entities the policy escapes are decoded again.
func Text(input string) string {
	return strings.TrimSpace(html.UnescapeString(StrictPolicy.Sanitize(input)))
}

// HTML removes scripts, iframes, event handlers and style attributes while
// keeping safe formatting.
func HTML(input string) string {
	return strings.TrimSpace(UGCPolicy.Sanitize(input))
}
