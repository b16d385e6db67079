package textutil

import (
	"strings"
	"unicode"
)

// MaxFileNameRunes bounds the length of a sanitized file name stem.
const MaxFileNameRunes = 120

const forbiddenFileNameChars = `<>:"/\|?*`

// SanitizeFileName turns a title into a file name stem. Characters that are
// reserved on common filesystems and ASCII control characters are removed,
// double spaces are collapsed once, and the result is cut to
// MaxFileNameRunes. The stem never starts with whitespace and never ends
// with a dot or whitespace, including after truncation. The result may be
// empty; callers supply their own fallback.
func SanitizeFileName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(forbiddenFileNameChars, r) {
			return -1
		}
		return r
	}, name)
	cleaned = strings.ReplaceAll(strings.TrimSpace(cleaned), "  ", " ")
	if runes := []rune(cleaned); len(runes) > MaxFileNameRunes {
		cleaned = string(runes[:MaxFileNameRunes])
	}
	return strings.TrimRightFunc(cleaned, func(r rune) bool {
		return r == '.' || unicode.IsSpace(r)
	})
}
