package textproc

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup removes HTML remnants that crawlers sometimes leave in raw
// text. Text without a '<' is returned unchanged. Block-level elements become
// line breaks; script and style content is dropped.
func StripMarkup(text string) string {
	if !strings.ContainsRune(text, '<') {
		return text
	}

	var buf strings.Builder
	z := html.NewTokenizer(strings.NewReader(text))
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return strings.TrimSpace(buf.String())
			}
			// Unparseable input: keep what we had.
			return text

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" || tag == "noscript" {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if isBlockTag(tag) {
				buf.WriteString("\n")
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" || tag == "noscript" {
				if skip > 0 {
					skip--
				}
				continue
			}
			if isBlockTag(tag) {
				buf.WriteString("\n")
			}

		case html.TextToken:
			if skip > 0 {
				continue
			}
			buf.Write(z.Text())
		}
	}
}

func isBlockTag(tag string) bool {
	switch tag {
	case "p", "br", "div", "li", "ul", "ol", "h1", "h2", "h3", "h4", "h5", "h6", "tr", "blockquote", "section", "article":
		return true
	}
	return false
}
