package match

import (
	"strings"
	"unicode/utf8"
)

// fuzzyLevels are tried in order after the exact search fails; each is more
// tolerant than the one before.
var fuzzyLevels = []Level{CleanedWithDigits, CleanedNoDigits}

// Classifier runs the exact and fuzzy checks for one lookup at a time. The
// zero Reporter is allowed.
type Classifier struct {
	Config   Config
	Reporter Reporter
}

// Classify is a convenience wrapper for a lookup without upstream error.
func Classify(haystack, needle string, cfg Config) Result {
	return Classifier{Config: cfg}.Classify(Lookup{Haystack: haystack, Needle: needle})
}

// Classify returns the first successful classification: exact substring,
// then cleaned substring and gapped sequence with digits kept, then the same
// two checks with digits stripped.
func (c Classifier) Classify(l Lookup) Result {
	if l.Err != nil {
		msg := l.Err.Error()
		if msg == "" {
			msg = "unknown error"
		}
		return Result{Outcome: NotFound, ErrorMessage: msg}
	}

	if pos, ok := FindExact(l.Haystack, l.Needle); ok {
		needle := strings.TrimSpace(l.Needle)
		words := strings.Fields(needle)
		c.report(Event{Stage: "exact", Level: Raw, Outcome: Exact, Ratio: 1, Words: len(words)})
		ctx := c.context(l.Haystack, pos, len(needle))
		ctx.FoundWords = words
		ctx.MatchRatio = 1
		ctx.Level = Raw
		ctx.Method = MethodExact
		return Result{Outcome: Exact, Context: ctx}
	}

	for _, level := range fuzzyLevels {
		if res, done := c.classifyAt(l, level); done {
			return res
		}
	}
	return Result{Outcome: NotFound}
}

// classifyAt runs the cleaned checks at one level. done is true when the
// result is final, either a match or a needle too short for fuzzy matching.
func (c Classifier) classifyAt(l Lookup, level Level) (Result, bool) {
	cfg := c.Config
	needle := NormalizeLevel(l.Needle, level)
	if utf8.RuneCountInString(needle) <= cfg.MinFuzzyTextLength {
		c.report(Event{Stage: "skip-short", Level: level, Outcome: NotFound})
		return Result{Outcome: NotFound}, true
	}
	haystack := NormalizeLevel(l.Haystack, level)
	needleTokens := Tokens(needle)

	if strings.Contains(haystack, needle) {
		c.report(Event{Stage: "substring", Level: level, Outcome: Fuzzy, Ratio: 1, Words: len(needleTokens)})
		pos, n, ok := LocateCleaned(l.Haystack, needleTokens, level)
		ctx := c.mapped(l.Haystack, pos, n, ok)
		ctx.FoundWords = needleTokens
		ctx.MatchRatio = 1
		ctx.Level = level
		ctx.Method = MethodCleanedSubstring
		return Result{Outcome: Fuzzy, Context: ctx}, true
	}

	if len(needleTokens) < 2 {
		return Result{}, false
	}
	m := matchSequence(needleTokens, Tokens(haystack), cfg.MaxWordsBetween, cfg.RetainBestPrefix)
	accepted := m.Accept(cfg.MinMatchRatio, cfg.MinWordsInSequence)
	outcome := NotFound
	if accepted {
		outcome = Fuzzy
	}
	c.report(Event{Stage: "sequence", Level: level, Outcome: outcome, Ratio: m.Ratio, Words: len(m.FoundWords)})
	if !accepted {
		return Result{}, false
	}
	pos, n, ok := LocateSpan(l.Haystack, m.FoundWords)
	ctx := c.mapped(l.Haystack, pos, n, ok)
	ctx.FoundWords = m.FoundWords
	ctx.MissingWords = missingWords(needleTokens, m.FoundWords)
	ctx.MatchRatio = m.Ratio
	ctx.Level = level
	ctx.Method = MethodSequence
	return Result{Outcome: Fuzzy, Context: ctx}, true
}

// mapped builds the excerpt for a position found by the mapper. An unmapped
// match keeps its diagnostics but carries no excerpt.
func (c Classifier) mapped(original string, pos, n int, ok bool) *Context {
	if !ok {
		return &Context{Position: -1}
	}
	return c.context(original, pos, n)
}

func (c Classifier) context(original string, pos, n int) *Context {
	before, found, after := ExtractContext(original, pos, n, c.Config.ContextWordsBefore, c.Config.ContextWordsAfter)
	return &Context{Before: before, Found: found, After: after, Position: pos}
}

func (c Classifier) report(e Event) {
	if c.Reporter != nil {
		c.Reporter.Report(e)
	}
}
