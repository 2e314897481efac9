package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Readable extracts the main content only, preferring <main> or <article>
// and falling back to <body>. Navigation, footers, asides and cookie banners
// are dropped. Blocks are separated by newlines and whitespace is collapsed.
func Readable(input []byte) Document {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return Document{}
	}
	content := findFirst(node, "main")
	if content == nil {
		content = findFirst(node, "article")
	}
	if content == nil {
		content = findFirst(node, "body")
	}
	var b strings.Builder
	if content != nil {
		collectBlocks(&b, content)
	}
	return Document{Title: strings.TrimSpace(findTitle(node)), Text: tidyLines(b.String())}
}

func collectBlocks(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		if isBanner(n) {
			return
		}
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "template", "nav", "footer", "aside", "iframe":
			return
		case "br", "hr", "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "ul", "ol", "div", "tr":
			b.WriteString("\n")
		case "td", "th":
			b.WriteString(" ")
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectBlocks(b, c)
	}
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "div", "tr", "pre":
			b.WriteString("\n")
		}
	}
}

// isBanner reports whether the element looks like a cookie or consent banner.
func isBanner(n *html.Node) bool {
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if key != "id" && key != "class" && key != "role" && key != "aria-label" && !strings.HasPrefix(key, "data-") {
			continue
		}
		val := strings.ToLower(attr.Val)
		for _, marker := range []string{"cookie", "consent", "gdpr"} {
			if strings.Contains(val, marker) {
				return true
			}
		}
	}
	return false
}

// tidyLines collapses whitespace inside lines and drops blank lines.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if f := strings.Fields(line); len(f) > 0 {
			out = append(out, strings.Join(f, " "))
		}
	}
	return strings.Join(out, "\n")
}
