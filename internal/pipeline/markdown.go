package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates markdown conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// ChromaStyle is the highlighting theme whose CSS is embedded in pages.
const ChromaStyle = "github"

// Markdown converts authored markdown to HTML fragments.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a converter with GFM and class-based highlighting.
// Raw HTML in the source is dropped.
func NewMarkdown() *Markdown {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(ChromaStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	return &Markdown{md: md}
}

// Block converts block markdown.
func (m *Markdown) Block(src string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(preprocess(src)), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return convertMarkPlaceholders(buf.String()), nil
}

// Inline converts a single paragraph and drops the wrapping <p>.
func (m *Markdown) Inline(src string) (string, error) {
	out, err := m.Block(src)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = out[len("<p>") : len(out)-len("</p>")]
	}
	return out, nil
}

// Code highlights source in the given language. Unknown languages fall
// back to plain preformatted text.
func (m *Markdown) Code(language, src string) (string, error) {
	fence := "```"
	for strings.Contains(src, fence) {
		fence += "`"
	}
	return m.Block(fence + language + "\n" + strings.TrimRight(src, "\n") + "\n" + fence + "\n")
}
