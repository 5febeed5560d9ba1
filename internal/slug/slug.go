// Package slug derives the URL-safe identifiers used for heading ids and
// section titles.
package slug

import (
	"strings"
	"unicode"

	goslug "github.com/goliatone/go-slug"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackHeadingID is used when a heading has no sluggable text.
const FallbackHeadingID = "heading"

// Slugify converts text into a lowercase ASCII identifier. Apostrophes are
// dropped without leaving a separator, every other run of characters outside
// [a-z0-9] collapses into a single hyphen, and the result never starts or
// ends with a hyphen. The result may be empty.
func Slugify(text string) string {
	folded := fold(text)

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		switch {
		case isApostrophe(r):
			continue
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r + ('a' - 'A'))
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// HeadingID returns the id assigned to a heading with the given text.
func HeadingID(text string) string {
	if id := Slugify(text); id != "" {
		return id
	}
	return FallbackHeadingID
}

// IsValidID reports whether an author supplied id can be used verbatim.
func IsValidID(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	return goslug.IsValid(id)
}

// fold decomposes accented letters and strips the combining marks so "café"
// becomes "cafe". On transform failure the input is returned untouched and
// non-ASCII runes are treated as separators.
func fold(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return folded
}

func isApostrophe(r rune) bool {
	switch r {
	case '\'', '’', '‘', 'ʼ':
		return true
	}
	return false
}
