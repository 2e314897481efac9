package match

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// [id123|Label], [club456|Label]
	taggedMentionRe = regexp.MustCompile(`\[(?:id|club)\d+\|([^\[\]]*)\]`)
	bracketSpanRe   = regexp.MustCompile(`\[[^\]]*\]`)
)

// Normalize cleans text for fuzzy comparison: tagged mentions keep only their
// label, other bracketed spans and punctuation become spaces, digits are
// optionally stripped together with the short fragments they leave behind,
// and whitespace is collapsed. The result is never longer than text and
// normalizing it again is a no-op.
func Normalize(text string, stripDigits bool) string {
	if text == "" {
		return ""
	}
	s := taggedMentionRe.ReplaceAllString(text, "$1")
	s = bracketSpanRe.ReplaceAllString(s, " ")
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
	fields := strings.Fields(s)
	if stripDigits {
		fields = stripDigitTokens(fields)
	}
	return strings.Join(fields, " ")
}

// NormalizeLevel applies Normalize as selected by level. Raw returns text
// unchanged.
func NormalizeLevel(text string, level Level) string {
	switch level {
	case CleanedWithDigits:
		return Normalize(text, false)
	case CleanedNoDigits:
		return Normalize(text, true)
	}
	return text
}

// Tokens splits normalized text into words.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}

// stripDigitTokens removes digits from every token. Tokens of at most two
// runes that are left over from a digit-bearing token (the "id" of "id123")
// are dropped along with tokens that become empty.
func stripDigitTokens(fields []string) []string {
	var withDigits []string
	for _, f := range fields {
		if strings.IndexFunc(f, unicode.IsDigit) >= 0 {
			withDigits = append(withDigits, f)
		}
	}
	if len(withDigits) == 0 {
		return fields
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		stripped := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return -1
			}
			return r
		}, f)
		if stripped == "" {
			continue
		}
		if utf8.RuneCountInString(stripped) <= 2 && isFragmentOf(stripped, withDigits) {
			continue
		}
		out = append(out, stripped)
	}
	return out
}

func isFragmentOf(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.HasPrefix(t, s) || strings.HasSuffix(t, s) {
			return true
		}
	}
	return false
}
