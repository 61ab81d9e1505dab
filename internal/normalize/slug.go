// Package normalize turns submitted content input into canonical stored
// records (create) or typed partial updates (update).
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/getyourdepa/depa-cms/internal/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid    = regexp.MustCompile(`[^a-z0-9\s\p{Z}-]`)
	slugWhitespace = regexp.MustCompile(`[\s\p{Z}]+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// Slug derives a URL slug from a title: lower-cased, accents removed, only
// [a-z0-9] runs joined by single hyphens. An empty title yields "".
func Slug(title string) string {
	if title == "" {
		return ""
	}

	// transform.Chain keeps state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	s, _, err := transform.String(t, strings.ToLower(title))
	if err != nil {
		s = strings.ToLower(title)
	}

	s = slugInvalid.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ZoneSlug returns the site path of a zone page.
func ZoneSlug(title string) string {
	return domain.ZoneSlugPrefix + Slug(title)
}
