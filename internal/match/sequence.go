package match

import "strings"

// FindExact returns the byte offset of the trimmed needle inside the
// untouched haystack. A needle that is blank after trimming never matches.
func FindExact(haystack, needle string) (int, bool) {
	n := strings.TrimSpace(needle)
	if n == "" {
		return -1, false
	}
	i := strings.Index(haystack, n)
	return i, i >= 0
}

// SequenceMatch is the chain of needle words found in order in a haystack.
type SequenceMatch struct {
	FoundWords []string
	Ratio      float64
	// Start is the haystack token index of the first matched word, -1 when
	// nothing matched.
	Start int
}

// Accept reports whether the chain clears both the ratio and the absolute
// word-count floor. The floor keeps two-word needles from scoring 1.0 on
// incidental hits.
func (m SequenceMatch) Accept(minRatio float64, minWords int) bool {
	n := len(m.FoundWords)
	return n > 0 && n >= minWords && m.Ratio >= minRatio
}

// MatchSequence scans haystack left to right looking for the needle words in
// order, tolerating up to maxGap unmatched haystack words between two matched
// needle words. When the gap overflows the chain is discarded and scanning
// restarts from the first needle word at the current haystack word. The scan
// ends when either sequence is exhausted; the chain held at that point is the
// result.
func MatchSequence(needle, haystack []string, maxGap int) SequenceMatch {
	return matchSequence(needle, haystack, maxGap, false)
}

func matchSequence(needle, haystack []string, maxGap int, retainBest bool) SequenceMatch {
	if len(needle) == 0 {
		return SequenceMatch{Start: -1}
	}
	var (
		found     []string
		start     = -1
		best      []string
		bestStart = -1
		ni, gap   int
	)
	for hi := 0; hi < len(haystack) && ni < len(needle); hi++ {
		word := haystack[hi]
		if word == needle[ni] {
			if ni == 0 {
				start = hi
			}
			found = append(found, word)
			ni++
			gap = 0
			continue
		}
		gap++
		if gap <= maxGap {
			continue
		}
		gap = 0
		if ni == 0 {
			continue
		}
		if retainBest && len(found) > len(best) {
			best, bestStart = found, start
		}
		found, start, ni = nil, -1, 0
		// the word that broke the chain may open a new one
		if word == needle[0] {
			found = append(found, word)
			start, ni = hi, 1
		}
	}
	if retainBest && len(best) > len(found) {
		found, start = best, bestStart
	}
	return SequenceMatch{
		FoundWords: found,
		Ratio:      float64(len(found)) / float64(len(needle)),
		Start:      start,
	}
}

// missingWords lists needle words that never appear in found, once each, in
// needle order.
func missingWords(needle, found []string) []string {
	have := make(map[string]struct{}, len(found))
	for _, w := range found {
		have[w] = struct{}{}
	}
	var out []string
	for _, w := range needle {
		if _, ok := have[w]; ok {
			continue
		}
		have[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
