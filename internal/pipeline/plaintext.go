package pipeline

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText returns the visible text of inline markdown, with whitespace
// collapsed. It is what a reader sees, so it is what text measurement
// wraps.
func PlainText(src string) string {
	out, err := defaultMarkdown.Inline(src)
	if err != nil {
		return src
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(out))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.SelfClosingTagToken, html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				b.WriteByte(' ')
			}
		}
	}
}

var defaultMarkdown = NewMarkdown()
