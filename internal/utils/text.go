package utils

import (
	"strings"
	"unicode"
)

// TruncateAtWord cuts text to at most limit runes. When the cut splits a word,
// that partial word and the whitespace before it are dropped as well.
// Text without whitespace is returned cut at the limit.
func TruncateAtWord(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if unicode.IsSpace(runes[limit]) {
		// the cut already ends on a whole word
		return strings.TrimRightFunc(cut, unicode.IsSpace)
	}
	i := strings.LastIndexFunc(cut, unicode.IsSpace)
	if i < 0 {
		return cut
	}
	return strings.TrimRightFunc(cut[:i], unicode.IsSpace)
}
