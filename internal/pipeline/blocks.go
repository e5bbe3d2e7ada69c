package pipeline

import (
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"
	"sync"

	"github.com/alnah/go-report2pdf/internal/diagram"
	"github.com/alnah/go-report2pdf/internal/document"
	"github.com/alnah/go-report2pdf/internal/media"
)

// Measurement kinds reported to the browser measurer.
const (
	KindText   = "text"   // breaks at line boxes
	KindRows   = "rows"   // breaks between table or grid rows
	KindAtomic = "atomic" // never split
	KindBreak  = "break"  // forced page break
)

// BlockRenderer renders document blocks to HTML fragments.
type BlockRenderer struct {
	md *Markdown
	// BaseDir resolves relative images inside markdown blocks.
	BaseDir string
	// LoadImage reads image files; nil uses media.Load. Results are cached.
	LoadImage func(path string) (*media.Image, error)

	mu     sync.Mutex
	images map[string]*media.Image
}

// NewBlockRenderer creates a BlockRenderer.
func NewBlockRenderer() *BlockRenderer {
	return &BlockRenderer{md: NewMarkdown(), images: make(map[string]*media.Image)}
}

// Kind classifies how a block may be split across pages.
func Kind(t document.BlockType) string {
	switch t {
	case document.BlockTable, document.BlockGrid:
		return KindRows
	case document.BlockDiagram, document.BlockImage, document.BlockSpacer:
		return KindAtomic
	case document.BlockPageBreak:
		return KindBreak
	default:
		return KindText
	}
}

// Class returns the extra CSS classes of the block wrapper.
func Class(b *document.Block) string {
	var parts []string
	if b.Class != "" {
		parts = append(parts, b.Class)
	}
	if b.Align != "" {
		parts = append(parts, "align-"+b.Align)
	}
	if b.Type == document.BlockHeading {
		parts = append(parts, "level-"+strconv.Itoa(b.Level))
	}
	return strings.Join(parts, " ")
}

// Render returns the inner HTML of a block laid out at width points.
func (r *BlockRenderer) Render(b *document.Block, width float64) (template.HTML, error) {
	var (
		out string
		err error
	)
	switch b.Type {
	case document.BlockHeading:
		var inner string
		inner, err = r.md.Inline(b.Text)
		out = fmt.Sprintf("<h%d>%s</h%d>", b.Level, inner, b.Level)
	case document.BlockParagraph:
		var inner string
		inner, err = r.md.Inline(b.Text)
		out = "<p>" + inner + "</p>"
	case document.BlockMarkdown:
		out, err = r.md.Block(b.Text)
		if err == nil {
			out, err = inlineImages(out, r.BaseDir, r.image)
		}
	case document.BlockList:
		out, err = r.list(b)
	case document.BlockTable:
		out, err = r.table(b)
	case document.BlockGrid:
		out, err = r.grid(b)
	case document.BlockCode:
		out, err = r.md.Code(b.Language, b.Text)
	case document.BlockDiagram:
		out, err = r.diagram(b)
	case document.BlockImage:
		out, err = r.imageFigure(b, width)
	case document.BlockSpacer:
		out = fmt.Sprintf(`<div class="spacer" style="height:%s"></div>`, pt(b.Height))
	case document.BlockPageBreak:
		out = `<div class="page-break"></div>`
	default:
		err = fmt.Errorf("%w: unknown type %q", document.ErrInvalidBlock, b.Type)
	}
	if err != nil {
		return "", fmt.Errorf("rendering %s block: %w", b.Type, err)
	}
	return template.HTML(out), nil // #nosec G203 -- built from escaped markdown and escaped text
}

func (r *BlockRenderer) list(b *document.Block) (string, error) {
	tag := "ul"
	if b.Ordered {
		tag = "ol"
	}
	var sb strings.Builder
	sb.WriteString("<" + tag + ">")
	for _, item := range b.Items {
		inner, err := r.md.Inline(item)
		if err != nil {
			return "", err
		}
		sb.WriteString("<li>" + inner + "</li>")
	}
	sb.WriteString("</" + tag + ">")
	return sb.String(), nil
}

func (r *BlockRenderer) table(b *document.Block) (string, error) {
	var sb strings.Builder
	sb.WriteString(`<table class="report-table`)
	if b.Class != "" {
		sb.WriteString(" " + html.EscapeString(b.Class))
	}
	sb.WriteString(`"><colgroup>`)
	for _, w := range b.ColumnWidths() {
		fmt.Fprintf(&sb, `<col style="width:%s%%">`, strconv.FormatFloat(w*100, 'f', -1, 64))
	}
	sb.WriteString("</colgroup><thead><tr>")
	for _, c := range b.Columns {
		inner, err := r.md.Inline(c)
		if err != nil {
			return "", err
		}
		sb.WriteString("<th>" + inner + "</th>")
	}
	sb.WriteString("</tr></thead><tbody>")
	for _, row := range b.Rows {
		sb.WriteString("<tr>")
		for _, c := range row {
			inner, err := r.md.Inline(c)
			if err != nil {
				return "", err
			}
			sb.WriteString("<td>" + inner + "</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table>")
	return sb.String(), nil
}

func (r *BlockRenderer) grid(b *document.Block) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="grid" style="grid-template-columns:repeat(%d,minmax(0,1fr))">`, max(b.Span, 1))
	for _, c := range b.Cells {
		sb.WriteString(`<div class="cell">`)
		if c.Title != "" {
			inner, err := r.md.Inline(c.Title)
			if err != nil {
				return "", err
			}
			sb.WriteString(`<span class="cell-title">` + inner + `</span>`)
		}
		inner, err := r.md.Inline(c.Text)
		if err != nil {
			return "", err
		}
		sb.WriteString(`<span class="cell-text">` + inner + `</span></div>`)
	}
	sb.WriteString("</div>")
	return sb.String(), nil
}

func (r *BlockRenderer) diagram(b *document.Block) (string, error) {
	d, err := diagram.Lookup(b.Name)
	if err != nil {
		return "", err
	}
	svg, err := d.SVG()
	if err != nil {
		return "", err
	}
	return `<figure class="diagram">` + svg + r.caption(b.Caption) + `</figure>`, nil
}

func (r *BlockRenderer) imageFigure(b *document.Block, width float64) (string, error) {
	img, err := r.image(b.Path)
	if err != nil {
		return "", err
	}
	w, h := img.DisplaySize(b.Width, width)
	alt := b.Caption
	return fmt.Sprintf(`<figure class="image"><img src="%s" alt="%s" style="width:%s;height:%s">%s</figure>`,
		img.DataURI(), html.EscapeString(alt), pt(w), pt(h), r.caption(b.Caption)), nil
}

func (r *BlockRenderer) caption(text string) string {
	if text == "" {
		return ""
	}
	inner, err := r.md.Inline(text)
	if err != nil {
		inner = html.EscapeString(text)
	}
	return "<figcaption>" + inner + "</figcaption>"
}

func (r *BlockRenderer) image(path string) (*media.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if img, ok := r.images[path]; ok {
		return img, nil
	}
	load := r.LoadImage
	if load == nil {
		load = media.Load
	}
	img, err := load(path)
	if err != nil {
		return nil, err
	}
	if r.images == nil {
		r.images = make(map[string]*media.Image)
	}
	r.images[path] = img
	return img, nil
}
