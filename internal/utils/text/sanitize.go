package text

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Placeholder replaces text fields that are empty after sanitizing.
const Placeholder = "No disponible"

// unsafe matches runes the stores cannot hold or should not receive:
// invalid UTF-8 (decoded as RuneError), surrogates and control characters
// other than tab, newline and carriage return.
var unsafe = runes.Predicate(func(r rune) bool {
	switch r {
	case '\t', '\n', '\r':
		return false
	case utf8.RuneError:
		return true
	}
	return unicode.Is(unicode.Cs, r) || unicode.IsControl(r)
})

// SanitizeText strips unsafe characters from value, truncates the result to
// maxLen runes when maxLen > 0 and returns Placeholder when nothing is left.
// SanitizeText(SanitizeText(x, n), n) == SanitizeText(x, n).
func SanitizeText(value string, maxLen int) string {
	clean := TruncateRunes(StripUnsafe(value), maxLen)
	if clean == "" {
		return TruncateRunes(Placeholder, maxLen)
	}
	return clean
}

// StripUnsafe removes unsafe characters from value.
// Unlike SanitizeText it returns "" rather than Placeholder.
func StripUnsafe(value string) string {
	clean, _, err := transform.String(runes.Remove(unsafe), value)
	if err != nil {
		return ""
	}
	return clean
}
