// Package text provides the normalization applied to harvested Dublin Core values
// before they are stored: rune truncation, text sanitizing and date coercion.
package text

// TruncateRunes returns at most n runes of text. A non-positive n leaves text untouched.
func TruncateRunes(text string, n int) string {
	if n <= 0 {
		return text
	}
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}
