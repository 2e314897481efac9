package match

import (
	"reflect"
	"strings"
	"testing"
)

func words(s string) []string { return strings.Fields(s) }

func TestFindExact(t *testing.T) {
	pos, ok := FindExact("Welcome to our annual spring sale event", "  spring sale event\n")
	if !ok || pos != 22 {
		t.Fatalf("FindExact = %d,%v want 22,true", pos, ok)
	}
	if _, ok := FindExact("anything", "   "); ok {
		t.Fatalf("blank needle must not match")
	}
	if _, ok := FindExact("Spring Sale", "spring sale"); ok {
		t.Fatalf("exact search is case-sensitive")
	}
}

func TestMatchSequence_GapsOfOne(t *testing.T) {
	m := MatchSequence(words("a c e"), words("a b c d e"), 1)
	if !reflect.DeepEqual(m.FoundWords, []string{"a", "c", "e"}) {
		t.Fatalf("found %v", m.FoundWords)
	}
	if m.Ratio != 1 || m.Start != 0 {
		t.Fatalf("ratio=%v start=%d", m.Ratio, m.Start)
	}
	if !m.Accept(DefaultMinMatchRatio, DefaultMinWordsInSequence) {
		t.Fatalf("three of three words should be accepted")
	}
}

func TestMatchSequence_OverflowDiscardsChain(t *testing.T) {
	// a b matched, then two unmatched words break the chain for good
	m := MatchSequence(words("a b c d"), words("a b x y c d"), 1)
	if len(m.FoundWords) != 0 || m.Ratio != 0 {
		t.Fatalf("expected discarded chain, got %v (%v)", m.FoundWords, m.Ratio)
	}
	if m.Start != -1 {
		t.Fatalf("start = %d, want -1", m.Start)
	}
}

func TestMatchSequence_RestartAtBreakingWord(t *testing.T) {
	m := MatchSequence(words("a b c"), words("a x y a b c"), 1)
	if !reflect.DeepEqual(m.FoundWords, []string{"a", "b", "c"}) {
		t.Fatalf("found %v", m.FoundWords)
	}
	if m.Start != 3 {
		t.Fatalf("start = %d, want 3", m.Start)
	}
}

func TestMatchSequence_PartialChainAtEnd(t *testing.T) {
	m := MatchSequence(words("w1 w2 w3 w4"), words("intro w1 w2 w3"), 1)
	if len(m.FoundWords) != 3 || m.Ratio != 0.75 || m.Start != 1 {
		t.Fatalf("got %+v", m)
	}
}

func TestMatchSequence_EmptyNeedle(t *testing.T) {
	m := MatchSequence(nil, words("a b"), 1)
	if m.Ratio != 0 || len(m.FoundWords) != 0 || m.Start != -1 {
		t.Fatalf("got %+v", m)
	}
	if m.Accept(0, 0) {
		t.Fatalf("empty chain must never be accepted")
	}
}

func TestMatchSequence_FirstChainWins(t *testing.T) {
	m := MatchSequence(words("a b"), words("a b a b"), 1)
	if m.Start != 0 {
		t.Fatalf("start = %d, want first chain", m.Start)
	}
}

func TestMatchSequence_MaxGapMonotonic(t *testing.T) {
	cases := []struct{ needle, haystack string }{
		{"a b c d", "a x x b c d"},
		{"a b c d", "a b x y z c d"},
		{"one two three four five", "one q two q q three four q q q five"},
		{"a c e", "a b c d e"},
		{"p q r", "z z z"},
	}
	for _, tc := range cases {
		prev := -1.0
		for gap := 0; gap <= 4; gap++ {
			r := MatchSequence(words(tc.needle), words(tc.haystack), gap).Ratio
			if r < prev {
				t.Fatalf("%q in %q: ratio dropped from %v to %v at gap %d", tc.needle, tc.haystack, prev, r, gap)
			}
			prev = r
		}
	}
}

func TestMatchSequence_RetainBestPrefix(t *testing.T) {
	needle := words("a b c d")
	hay := words("a b c x y z d")
	if m := matchSequence(needle, hay, 1, false); len(m.FoundWords) != 0 {
		t.Fatalf("default discards the chain, got %v", m.FoundWords)
	}
	m := matchSequence(needle, hay, 1, true)
	if !reflect.DeepEqual(m.FoundWords, []string{"a", "b", "c"}) || m.Start != 0 {
		t.Fatalf("best prefix not retained: %+v", m)
	}
}

func TestAccept_Floor(t *testing.T) {
	m := SequenceMatch{FoundWords: []string{"a", "b"}, Ratio: 1}
	if m.Accept(0.7, 3) {
		t.Fatalf("two words are below the floor of three")
	}
	m = SequenceMatch{FoundWords: []string{"a", "b", "c"}, Ratio: 0.6}
	if m.Accept(0.7, 3) {
		t.Fatalf("ratio below minimum must fail")
	}
}

func TestMissingWords(t *testing.T) {
	got := missingWords(words("a b c b d"), words("a c"))
	if !reflect.DeepEqual(got, []string{"b", "d"}) {
		t.Fatalf("got %v", got)
	}
}
