package store

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases and strips combining marks so that searches match
// regardless of case or diacritics. Catalog data is routinely entered
// with Vietnamese diacritics while queries often come without them.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// foldContains reports whether haystack contains needle under folding.
func foldContains(haystack, needle string) bool {
	return strings.Contains(fold(haystack), fold(needle))
}
