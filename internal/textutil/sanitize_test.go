package textutil

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Intro", "Intro"},
		{"forbidden", `a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"control", "tab\there\x00\x1f", "tabhere"},
		{"trailing dots", "  Chapter 1...  ", "Chapter 1"},
		{"double spaces", "a  b", "a b"},
		{"dot before trailing space", "abc. .", "abc"},
		{"dot exposed by trim", "Part 2 .", "Part 2"},
		{"only forbidden", `<>?*`, ""},
		{"unicode kept", "Café – Ünïcode", "Café – Ünïcode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.in); got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileNameTruncates(t *testing.T) {
	long := strings.Repeat("é", 200)
	got := SanitizeFileName(long)
	if n := utf8.RuneCountInString(got); n != MaxFileNameRunes {
		t.Fatalf("expected %d runes, got %d", MaxFileNameRunes, n)
	}

	spaced := strings.Repeat("a", MaxFileNameRunes-1) + " tail"
	if got := SanitizeFileName(spaced); strings.HasSuffix(got, " ") {
		t.Fatalf("expected trailing space trimmed after truncation, got %q", got)
	}

	dotted := strings.Repeat("a", MaxFileNameRunes-1) + ".tail"
	if got := SanitizeFileName(dotted); strings.HasSuffix(got, ".") {
		t.Fatalf("expected trailing dot trimmed after truncation, got %q", got)
	}
}
