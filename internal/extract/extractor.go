package extract

import "strings"

// Extractor converts raw HTML bytes into a Document.
type Extractor interface {
	Extract(input []byte) Document
}

// FullText uses FromHTML.
type FullText struct{}

func (FullText) Extract(input []byte) Document { return FromHTML(input) }

// MainContent uses Readable.
type MainContent struct{}

func (MainContent) Extract(input []byte) Document { return Readable(input) }

// ForMode returns the extractor for a configured mode name: "full" (default)
// or "readable".
func ForMode(mode string) (Extractor, bool) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "full":
		return FullText{}, true
	case "readable", "main":
		return MainContent{}, true
	}
	return nil, false
}
