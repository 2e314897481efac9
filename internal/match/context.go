package match

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ExtractContext cuts text around the span [position, position+matchLength)
// and returns up to wordsBefore whole words before it, the span itself and up
// to wordsAfter whole words after it, each trimmed. Arguments outside the text
// are clamped.
func ExtractContext(text string, position, matchLength, wordsBefore, wordsAfter int) (before, found, after string) {
	start := clampOffset(text, position)
	if matchLength < 0 {
		matchLength = 0
	}
	end := clampOffset(text, start+matchLength)
	from := wordsBack(text, start, wordsBefore)
	to := wordsForward(text, end, wordsAfter)
	return strings.TrimSpace(text[from:start]), strings.TrimSpace(text[start:end]), strings.TrimSpace(text[end:to])
}

// clampOffset bounds off to text and moves it back onto a rune boundary.
func clampOffset(text string, off int) int {
	if off <= 0 {
		return 0
	}
	if off >= len(text) {
		return len(text)
	}
	for off > 0 && !utf8.RuneStart(text[off]) {
		off--
	}
	return off
}

func wordsBack(text string, pos, n int) int {
	i := pos
	for count := 0; count < n && i > 0; count++ {
		for i > 0 {
			r, w := utf8.DecodeLastRuneInString(text[:i])
			if !unicode.IsSpace(r) {
				break
			}
			i -= w
		}
		for i > 0 {
			r, w := utf8.DecodeLastRuneInString(text[:i])
			if unicode.IsSpace(r) {
				break
			}
			i -= w
		}
	}
	return i
}

func wordsForward(text string, pos, n int) int {
	i := pos
	for count := 0; count < n && i < len(text); count++ {
		for i < len(text) {
			r, w := utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(r) {
				break
			}
			i += w
		}
		for i < len(text) {
			r, w := utf8.DecodeRuneInString(text[i:])
			if unicode.IsSpace(r) {
				break
			}
			i += w
		}
	}
	return i
}
