package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
)

// DecodeBody converts body to UTF-8. A non-empty encoding name (any WHATWG
// label such as "windows-1251") overrides detection; otherwise the charset
// comes from contentType, a BOM or a <meta> declaration, then UTF-8 validity.
func DecodeBody(body []byte, contentType, encoding string) (string, error) {
	if name := strings.TrimSpace(encoding); name != "" {
		enc, err := htmlindex.Get(name)
		if err != nil {
			return "", fmt.Errorf("encoding %q: %w", name, err)
		}
		out, err := enc.NewDecoder().Bytes(body)
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", name, err)
		}
		return string(out), nil
	}
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", fmt.Errorf("charset: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(out), nil
}

// PageText decodes body and returns its searchable text using FromHTML.
func PageText(body []byte, contentType, encoding string) (string, error) {
	return PageTextWith(FullText{}, body, contentType, encoding)
}

// PageTextWith is PageText with a chosen extractor. Plain text bodies are
// returned as decoded, trimmed.
func PageTextWith(ex Extractor, body []byte, contentType, encoding string) (string, error) {
	text, err := DecodeBody(body, contentType, encoding)
	if err != nil {
		return "", err
	}
	if isPlainText(contentType) {
		return strings.TrimSpace(text), nil
	}
	if ex == nil {
		ex = FullText{}
	}
	return ex.Extract([]byte(text)).Text, nil
}

func isPlainText(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "text/plain")
}
