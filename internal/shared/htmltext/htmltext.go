// Package htmltext turns backend-supplied HTML fragments into plain text.
// Ticket bodies arrive from the SOAP and REST desks as HTML; list views need
// a short tag-free projection of them.
package htmltext

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy removes every element and attribute. Policies are safe for
// concurrent use, so a single package-level instance is enough.
var stripPolicy = bluemonday.StrictPolicy()

// Strip removes all HTML tags from s, decodes entities left behind by the
// sanitizer, and trims surrounding whitespace. Deterministic: the same input
// always yields byte-identical output.
func Strip(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// Truncate cuts s to at most limit runes. Cutting on rune boundaries keeps
// multi-byte text intact.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// StripAndTruncate is Strip followed by Truncate; the projection used for
// ticket list views.
func StripAndTruncate(s string, limit int) string {
	return Truncate(Strip(s), limit)
}
