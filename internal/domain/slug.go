package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength caps generated slugs so they stay usable in URLs and indexes.
const MaxSlugLength = 120

// Slugify derives a URL-safe identifier from a display name: lowercase,
// diacritics folded, anything outside [a-z0-9 -] dropped, whitespace and
// hyphen runs collapsed to a single hyphen, capped at MaxSlugLength.
// The result may be empty; callers fall back to FallbackSlug.
func Slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	decomposed := norm.NFD.String(lower)

	var b strings.Builder
	b.Grow(len(decomposed))
	lastHyphen := false
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark left over from NFD, e.g. the accent of "é"
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	return slug
}

// FallbackSlug names businesses whose display name slugifies to nothing.
func FallbackSlug(now time.Time) string {
	return fmt.Sprintf("business-%d", now.UnixMilli())
}

// SuffixedSlug appends the collision counter used when probing for a free slug.
func SuffixedSlug(base string, attempt int) string {
	return fmt.Sprintf("%s-%d", base, attempt)
}
