package fetch

import "testing"

func TestCanonicalURL(t *testing.T) {
	cases := map[string]string{
		"https://Example.COM/post?utm_source=x&id=7#comments": "https://example.com/post?id=7",
		"  HTTPS://example.com/a?fbclid=1 ":                   "https://example.com/a",
		"https://example.com/Path/Case":                       "https://example.com/Path/Case",
		"not a url":                                           "not a url",
	}
	for in, want := range cases {
		if got := CanonicalURL(in); got != want {
			t.Errorf("CanonicalURL(%q) = %q, want %q", in, got, want)
		}
	}
	if CanonicalURL("https://a.example/x#1") != CanonicalURL("https://a.example/x#2") {
		t.Fatal("fragments should not split pages")
	}
}
