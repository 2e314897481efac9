package match

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// probeTokens is how many leading needle tokens a window must reproduce
	// before it is accepted as the start of a cleaned-substring match.
	probeTokens = 3
	// probeSlackWords bounds how far a window may grow while probing.
	probeSlackWords = 8
)

// LocateWord returns the byte offset and byte length of the first
// case-insensitive literal occurrence of word in original.
func LocateWord(original, word string) (pos, length int, ok bool) {
	pos, length = indexFold(original, word, 0)
	return pos, length, pos >= 0
}

// LocateSpan maps a matched token chain back onto original. The span starts
// at the first occurrence of the first word and ends after the first
// occurrence of the last word that follows it, if that lies close enough.
// This is an approximation: normalization is lossy and the first literal
// occurrence may sit inside an unrelated longer word.
func LocateSpan(original string, words []string) (pos, length int, ok bool) {
	if len(words) == 0 {
		return -1, 0, false
	}
	pos, n := indexFold(original, words[0], 0)
	if pos < 0 {
		return -1, 0, false
	}
	end := pos + n
	if len(words) > 1 {
		limit := end + 3*len(strings.Join(words, " ")) + 64
		if p, m := indexFold(original, words[len(words)-1], end); p >= 0 && p+m <= limit {
			end = p + m
		}
	}
	return pos, end - pos, true
}

type span struct{ start, end int }

// LocateCleaned finds where a cleaned needle starts in original by
// normalizing successive word windows at level and taking the first window
// whose tokens open with the needle's leading tokens. The window is then
// widened until it covers every needle token. When no window qualifies the
// first needle token is located literally instead.
func LocateCleaned(original string, needle []string, level Level) (pos, length int, ok bool) {
	if len(needle) == 0 {
		return -1, 0, false
	}
	probe := needle
	if len(probe) > probeTokens {
		probe = probe[:probeTokens]
	}
	words := wordSpans(original)
	for i := range words {
		j := i
		toks := windowTokens(original, words, i, j, level)
		for len(toks) < len(probe) || unclosedBracket(original[words[i].start:words[j].end]) {
			if j+1 >= len(words) || j-i >= len(probe)+probeSlackWords {
				break
			}
			j++
			toks = windowTokens(original, words, i, j, level)
		}
		if !hasTokenPrefix(toks, probe) {
			continue
		}
		for len(toks) < len(needle) && j+1 < len(words) {
			j++
			toks = windowTokens(original, words, i, j, level)
		}
		// leading words that clean away entirely ("id42:", "—") are not part
		// of the match
		s := i
		for s < j && len(windowTokens(original, words, s, s, level)) == 0 {
			s++
		}
		return words[s].start, words[j].end - words[s].start, true
	}
	return LocateWord(original, needle[0])
}

func windowTokens(original string, words []span, i, j int, level Level) []string {
	return Tokens(NormalizeLevel(original[words[i].start:words[j].end], level))
}

func unclosedBracket(s string) bool {
	return strings.LastIndexByte(s, '[') > strings.LastIndexByte(s, ']')
}

func hasTokenPrefix(toks, prefix []string) bool {
	if len(toks) < len(prefix) {
		return false
	}
	for k, p := range prefix {
		if toks[k] != p {
			return false
		}
	}
	return true
}

// wordSpans returns the byte spans of whitespace-delimited words.
func wordSpans(s string) []span {
	var out []span
	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				out = append(out, span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, span{start, len(s)})
	}
	return out
}

// indexFold is a case-insensitive strings.Index starting at byte offset from.
// It returns the offset and the byte length of the match in s, which may
// differ from len(sub) when folded runes have different widths.
func indexFold(s, sub string, from int) (int, int) {
	if sub == "" || from < 0 {
		return -1, 0
	}
	for i := from; i < len(s); {
		if n, ok := prefixFold(s[i:], sub); ok {
			return i, n
		}
		_, w := utf8.DecodeRuneInString(s[i:])
		i += w
	}
	return -1, 0
}

func prefixFold(s, prefix string) (int, bool) {
	n := 0
	for _, pr := range prefix {
		if n >= len(s) {
			return 0, false
		}
		r, w := utf8.DecodeRuneInString(s[n:])
		if !equalFoldRune(r, pr) {
			return 0, false
		}
		n += w
	}
	return n, true
}

func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
