package match

import "testing"

func TestLocateWord_CaseInsensitiveFirstOccurrence(t *testing.T) {
	text := "Intro. SALE starts; the sale ends"
	pos, n, ok := LocateWord(text, "sale")
	if !ok || pos != 7 || n != 4 {
		t.Fatalf("LocateWord = %d,%d,%v", pos, n, ok)
	}
	if _, _, ok := LocateWord(text, "missing"); ok {
		t.Fatalf("expected not found")
	}
}

func TestLocateWord_Cyrillic(t *testing.T) {
	text := "Привет, МИР и мир"
	pos, n, ok := LocateWord(text, "мир")
	if !ok || text[pos:pos+n] != "МИР" {
		t.Fatalf("got %d,%d,%v", pos, n, ok)
	}
}

func TestLocateWord_KnownLimitationMatchesInsideWords(t *testing.T) {
	// first literal occurrence wins even inside a longer word
	text := "start art"
	pos, _, ok := LocateWord(text, "art")
	if !ok || pos != 2 {
		t.Fatalf("pos = %d, want 2", pos)
	}
}

func TestLocateSpan(t *testing.T) {
	text := "Intro: a b c d e. Footer"
	pos, n, ok := LocateSpan(text, []string{"a", "c", "e"})
	if !ok {
		t.Fatalf("not located")
	}
	if got := text[pos : pos+n]; got != "a b c d e" {
		t.Fatalf("span = %q", got)
	}
}

func TestLocateSpan_FarLastWordIgnored(t *testing.T) {
	filler := ""
	for i := 0; i < 100; i++ {
		filler += "filler "
	}
	text := "alpha beta " + filler + "omega"
	pos, n, ok := LocateSpan(text, []string{"alpha", "omega"})
	if !ok || text[pos:pos+n] != "alpha" {
		t.Fatalf("span = %q", text[pos:pos+n])
	}
}

func TestLocateCleaned_BracketedMention(t *testing.T) {
	text := "Welcome, [club123|Our Team] announces: big—sale!! Thanks"
	needle := Tokens(Normalize("Our Team announces big sale", false))
	pos, n, ok := LocateCleaned(text, needle, CleanedWithDigits)
	if !ok {
		t.Fatalf("not located")
	}
	if got := text[pos : pos+n]; got != "[club123|Our Team] announces: big—sale!!" {
		t.Fatalf("span = %q", got)
	}
}

func TestLocateCleaned_SkipsFalseStarts(t *testing.T) {
	text := "big deal. Big, sale now! big sale today"
	needle := []string{"big", "sale", "today"}
	pos, n, ok := LocateCleaned(text, needle, CleanedWithDigits)
	if !ok {
		t.Fatalf("not located")
	}
	if got := text[pos : pos+n]; got != "big sale today" {
		t.Fatalf("span = %q", got)
	}
}

func TestLocateCleaned_NoDigitsLevel(t *testing.T) {
	text := "See id42: Product-Launch 2024 now"
	needle := Tokens(Normalize("Product Launch now", true))
	pos, n, ok := LocateCleaned(text, needle, CleanedNoDigits)
	if !ok {
		t.Fatalf("not located")
	}
	if got := text[pos : pos+n]; got != "Product-Launch 2024 now" {
		t.Fatalf("span = %q", got)
	}
}

func TestLocateCleaned_FallsBackToFirstWord(t *testing.T) {
	// the window never reproduces the needle; the literal first word is used
	text := "xx Thing yy"
	pos, n, ok := LocateCleaned(text, []string{"thing", "zz"}, CleanedWithDigits)
	if !ok || text[pos:pos+n] != "Thing" {
		t.Fatalf("got %d,%d,%v", pos, n, ok)
	}
}
