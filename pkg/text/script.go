package text

import (
	"unicode"

	"golang.org/x/text/language"
)

// DetectScript reports the Unicode script name a rune belongs to (e.g.
// "Latin", "Hebrew", "Han"), falling back to "Common" for script-neutral
// runes such as punctuation and digits.
func DetectScript(r rune) string {
	for name, table := range unicode.Scripts {
		if unicode.Is(table, r) {
			return name
		}
	}
	return "Common"
}

// DominantScript picks the first non-Common script found in s, defaulting
// to "Latin" for purely script-neutral text. Used to tag a shaped run with
// a single script for fallback-chain lookup.
func DominantScript(s string) string {
	for _, r := range s {
		if sc := DetectScript(r); sc != "Common" {
			return sc
		}
	}
	return "Latin"
}

// ParseLanguageTag parses a BCP 47 language tag (e.g. "en-US", "he") using
// golang.org/x/text/language, falling back to the undetermined tag on a
// malformed value rather than erroring the whole pipeline over it.
func ParseLanguageTag(tag string) language.Tag {
	t, err := language.Parse(tag)
	if err != nil {
		return language.Und
	}
	return t
}
