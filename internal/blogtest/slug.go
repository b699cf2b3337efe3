package blogtest

import (
	"regexp"
	"strings"
)

var (
	slugStrip    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugSeparate = regexp.MustCompile(`[-\s]+`)
)

// GenerateSlug derives a URL-friendly slug from a title the way the blog
// server does: lower-case, punctuation removed, runs of spaces and hyphens
// collapsed to a single hyphen.
func GenerateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugSeparate.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
