package match

import (
	"testing"
	"unicode/utf8"
)

func TestNormalize_TaggedMentionKeepsLabel(t *testing.T) {
	got := Normalize("Welcome, [club123|Our Team] announces: big—sale!!", false)
	want := "Welcome Our Team announces big sale"
	if got != want {
		t.Fatalf("Normalize = %q, want %q", got, want)
	}
	if got := Normalize("hi [id7|Anna] there", false); got != "hi Anna there" {
		t.Fatalf("id mention: got %q", got)
	}
}

func TestNormalize_DropsOtherBracketSpans(t *testing.T) {
	got := Normalize("before [photo attached] after", false)
	if got != "before after" {
		t.Fatalf("got %q, want %q", got, "before after")
	}
}

func TestNormalize_PunctuationAndWhitespace(t *testing.T) {
	got := Normalize("  Hello,\tworld!!\n(again)…  ", false)
	if got != "Hello world again" {
		t.Fatalf("got %q", got)
	}
	if got := Normalize("snake_case", false); got != "snake case" {
		t.Fatalf("underscore should split: got %q", got)
	}
}

func TestNormalize_KeepsDigitsWhenNotStripping(t *testing.T) {
	got := Normalize("Order #42 ships id42 today", false)
	if got != "Order 42 ships id42 today" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalize_StripDigitsDropsShortFragments(t *testing.T) {
	got := Normalize("id42 Product Launch", true)
	if got != "Product Launch" {
		t.Fatalf("got %q, want %q", got, "Product Launch")
	}
	// meaningful words survive when only their trailing digits go
	if got := Normalize("Текст123 и ru2024 версия", true); got != "Текст и версия" {
		t.Fatalf("got %q", got)
	}
	if got := Normalize("2024 year", true); got != "year" {
		t.Fatalf("pure numbers should vanish: got %q", got)
	}
}

func TestNormalize_Empty(t *testing.T) {
	if got := Normalize("", true); got != "" {
		t.Fatalf("got %q", got)
	}
	if got := Normalize(" ,.;[x] ", false); got != "" {
		t.Fatalf("punctuation only: got %q", got)
	}
}

func TestNormalize_IdempotentAndNeverLonger(t *testing.T) {
	inputs := []string{
		"Welcome, [club123|Our Team] announces: big—sale!!",
		"id42 Product Launch 2024-05-01",
		"Текст123 — [id9|Имя Фамилия] пишет: «привет»",
		"nested [a [b] c] brackets]",
		"a1b2c3 x9 9x ab12cd",
		"\xff\xfe broken utf8 \xc3",
		"été café",
		"",
	}
	for _, in := range inputs {
		for _, d := range []bool{false, true} {
			once := Normalize(in, d)
			twice := Normalize(once, d)
			if once != twice {
				t.Fatalf("not idempotent for %q (strip=%v): %q then %q", in, d, once, twice)
			}
			if len(once) > len(in) {
				t.Fatalf("normalized longer than input for %q: %d > %d", in, len(once), len(in))
			}
			if utf8.RuneCountInString(once) > utf8.RuneCountInString(in) {
				t.Fatalf("normalized has more runes than input for %q", in)
			}
		}
	}
}

func TestNormalizeLevel(t *testing.T) {
	in := "id42, Launch!"
	if got := NormalizeLevel(in, Raw); got != in {
		t.Fatalf("raw should be untouched, got %q", got)
	}
	if got := NormalizeLevel(in, CleanedWithDigits); got != "id42 Launch" {
		t.Fatalf("cleaned: got %q", got)
	}
	if got := NormalizeLevel(in, CleanedNoDigits); got != "Launch" {
		t.Fatalf("no digits: got %q", got)
	}
}
