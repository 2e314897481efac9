package extract

import (
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestDecodeBody_ContentTypeCharset(t *testing.T) {
	raw, err := charmap.Windows1251.NewEncoder().String("<p>Привет мир</p>")
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeBody([]byte(raw), "text/html; charset=windows-1251", "")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "<p>Привет мир</p>" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeBody_MetaCharset(t *testing.T) {
	raw, _ := charmap.KOI8R.NewEncoder().String(`<html><head><meta charset="koi8-r"></head><body>Скидки</body></html>`)
	text, err := PageText([]byte(raw), "text/html", "")
	if err != nil {
		t.Fatalf("page text: %v", err)
	}
	if text != "Скидки" {
		t.Fatalf("text = %q", text)
	}
}

func TestDecodeBody_ExplicitOverride(t *testing.T) {
	raw, _ := charmap.Windows1251.NewEncoder().String("Новости")
	// the header lies; the override wins
	got, err := DecodeBody([]byte(raw), "text/plain; charset=utf-8", "windows-1251")
	if err != nil || got != "Новости" {
		t.Fatalf("got %q err=%v", got, err)
	}
	if _, err := DecodeBody([]byte("x"), "", "no-such-charset"); err == nil {
		t.Fatalf("expected unknown encoding error")
	}
}

func TestPageText_PlainAndUTF8(t *testing.T) {
	text, err := PageText([]byte("  line one\nline two  \n"), "text/plain; charset=utf-8", "")
	if err != nil || text != "line one\nline two" {
		t.Fatalf("plain = %q err=%v", text, err)
	}
	text, err = PageText([]byte("<body><p>Весенняя</p><p>распродажа</p></body>"), "", "")
	if err != nil || text != "Весенняя распродажа" {
		t.Fatalf("utf8 html = %q err=%v", text, err)
	}
}

func TestPageTextWith_Readable(t *testing.T) {
	text, err := PageTextWith(MainContent{}, []byte("<body><nav>menu</nav><main><p>core</p></main></body>"), "text/html", "")
	if err != nil || text != "core" {
		t.Fatalf("text = %q err=%v", text, err)
	}
}
