package layout

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-report2pdf/internal/diagram"
	"github.com/alnah/go-report2pdf/internal/document"
	"github.com/alnah/go-report2pdf/internal/fonts"
	"github.com/alnah/go-report2pdf/internal/media"
)

// Measure is the vertical extent of one block at a given content width.
type Measure struct {
	// Height includes the gap below the block.
	Height float64
	// Breaks are ascending offsets inside the block where it may be split,
	// one per line or row boundary.
	Breaks []float64
	// KeepWithNext asks the paginator not to leave the block last on a page.
	KeepWithNext bool
	// ForceBreak starts a new page; the block itself has no extent.
	ForceBreak bool
}

// Measurer measures blocks laid out at width points.
type Measurer interface {
	Measure(ctx context.Context, blocks []document.Block, width float64) ([]Measure, error)
}

// FontMeasurer measures blocks with the Go font metrics and greedy word wrap.
// It needs no browser and mirrors the CSS produced from the same Styles.
type FontMeasurer struct {
	Styles Styles
	// Plain reduces inline markdown to the visible text. Nil uses a small
	// built-in stripper.
	Plain func(string) string
	// ImageSize returns the displayed size of an image block in points. Nil
	// loads the file with the media package.
	ImageSize func(path string, width, maxWidth float64) (w, h float64, err error)
}

// NewFontMeasurer returns a measurer using DefaultStyles.
func NewFontMeasurer() *FontMeasurer {
	return &FontMeasurer{Styles: DefaultStyles()}
}

// Measure implements Measurer.
func (m *FontMeasurer) Measure(ctx context.Context, blocks []document.Block, width float64) ([]Measure, error) {
	out := make([]Measure, len(blocks))
	for i := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ms, err := m.measure(&blocks[i], width)
		if err != nil {
			return nil, fmt.Errorf("measuring block %d (%s): %w", i+1, blocks[i].Type, err)
		}
		out[i] = ms
	}
	return out, nil
}

func (m *FontMeasurer) measure(b *document.Block, width float64) (Measure, error) {
	st := &m.Styles
	switch b.Type {
	case document.BlockHeading:
		hs := st.Heading(b.Level)
		n, err := m.lines(b.Text, hs, width)
		if err != nil {
			return Measure{}, err
		}
		return Measure{Height: float64(n)*hs.Leading + hs.SpaceAfter, KeepWithNext: true}, nil

	case document.BlockParagraph:
		n, err := m.lines(b.Text, st.Body, width)
		if err != nil {
			return Measure{}, err
		}
		return textMeasure([]int{n}, st.Body, 0), nil

	case document.BlockMarkdown:
		return m.measureMarkdown(b.Text, width)

	case document.BlockList:
		counts := make([]int, len(b.Items))
		for i, item := range b.Items {
			n, err := m.lines(item, st.Body, width-st.ListIndent)
			if err != nil {
				return Measure{}, err
			}
			counts[i] = n
		}
		return textMeasure([]int{sum(counts)}, st.Body, 0), nil

	case document.BlockTable:
		return m.measureTable(b, width)

	case document.BlockGrid:
		return m.measureGrid(b, width)

	case document.BlockCode:
		lines := strings.Split(strings.TrimRight(b.Text, "\n"), "\n")
		ms := Measure{Height: 2*st.CodePadding + float64(len(lines))*st.Code.Leading + st.Code.SpaceAfter}
		for i := 1; i < len(lines); i++ {
			ms.Breaks = append(ms.Breaks, st.CodePadding+float64(i)*st.Code.Leading)
		}
		return ms, nil

	case document.BlockDiagram:
		d, err := diagram.Lookup(b.Name)
		if err != nil {
			return Measure{}, err
		}
		_, h := FitWidth(d.Width, d.Height, width)
		return m.figure(h, b.Caption, width)

	case document.BlockImage:
		size := m.ImageSize
		if size == nil {
			size = loadImageSize
		}
		_, h, err := size(b.Path, b.Width, width)
		if err != nil {
			return Measure{}, err
		}
		return m.figure(h, b.Caption, width)

	case document.BlockSpacer:
		return Measure{Height: b.Height}, nil

	case document.BlockPageBreak:
		return Measure{ForceBreak: true}, nil
	}
	return Measure{}, fmt.Errorf("%w: unknown type %q", document.ErrInvalidBlock, b.Type)
}

// FitWidth scales a w x h box down to at most maxWidth, keeping its ratio.
func FitWidth(w, h, maxWidth float64) (float64, float64) {
	if w <= maxWidth || w <= 0 {
		return w, h
	}
	return maxWidth, h * maxWidth / w
}

func loadImageSize(path string, width, maxWidth float64) (float64, float64, error) {
	img, err := media.Load(path)
	if err != nil {
		return 0, 0, err
	}
	w, h := img.DisplaySize(width, maxWidth)
	return w, h, nil
}

// figure measures an atomic drawing followed by an optional caption.
func (m *FontMeasurer) figure(drawing float64, caption string, width float64) (Measure, error) {
	cs := m.Styles.Caption
	h := drawing + cs.SpaceAfter
	if caption != "" {
		n, err := m.lines(caption, cs, width)
		if err != nil {
			return Measure{}, err
		}
		h += float64(n) * cs.Leading
	}
	return Measure{Height: h}, nil
}

func (m *FontMeasurer) measureMarkdown(text string, width float64) (Measure, error) {
	st := &m.Styles
	var counts []int
	for _, para := range splitParagraphs(text) {
		n := 0
		for _, line := range para {
			w := width
			if line.item {
				w -= st.ListIndent
			}
			c, err := m.lines(line.text, st.Body, w)
			if err != nil {
				return Measure{}, err
			}
			n += c
		}
		counts = append(counts, n)
	}
	return textMeasure(counts, st.Body, st.Body.SpaceAfter), nil
}

// textMeasure lays out paragraphs of counts[i] lines separated by gap and
// returns a break after every line but the last of the block.
func textMeasure(counts []int, st TextStyle, gap float64) Measure {
	var ms Measure
	y := 0.0
	for p, n := range counts {
		if p > 0 {
			y += gap
		}
		for l := 0; l < n; l++ {
			y += st.Leading
			ms.Breaks = append(ms.Breaks, y)
		}
	}
	if len(ms.Breaks) > 0 {
		ms.Breaks = ms.Breaks[:len(ms.Breaks)-1]
	}
	ms.Height = y + st.SpaceAfter
	return ms
}

func (m *FontMeasurer) measureTable(b *document.Block, width float64) (Measure, error) {
	st := &m.Styles
	widths := b.ColumnWidths()
	rowHeight := func(cells []string, style TextStyle) (float64, error) {
		maxLines := 1
		for i, c := range cells {
			n, err := m.lines(c, style, widths[i]*width-2*st.CellPadding)
			if err != nil {
				return 0, err
			}
			maxLines = max(maxLines, n)
		}
		return float64(maxLines)*style.Leading + 2*st.CellPadding + RuleWidth, nil
	}

	head := st.Cell
	head.Font = fonts.Bold
	y, err := rowHeight(b.Columns, head)
	if err != nil {
		return Measure{}, err
	}
	y += RuleWidth // top rule

	var ms Measure
	for i, row := range b.Rows {
		h, err := rowHeight(row, st.Cell)
		if err != nil {
			return Measure{}, err
		}
		y += h
		if i < len(b.Rows)-1 {
			ms.Breaks = append(ms.Breaks, y)
		}
	}
	ms.Height = y + st.Body.SpaceAfter
	return ms, nil
}

func (m *FontMeasurer) measureGrid(b *document.Block, width float64) (Measure, error) {
	st := &m.Styles
	span := max(b.Span, 1)
	cellWidth := (width-float64(span-1)*st.GridGap)/float64(span) - 2*st.CellPadding
	title := st.Cell
	title.Font = fonts.Bold

	var ms Measure
	y := 0.0
	for start := 0; start < len(b.Cells); start += span {
		if start > 0 {
			ms.Breaks = append(ms.Breaks, y)
			y += st.GridGap
		}
		rowH := 0.0
		for _, c := range b.Cells[start:min(start+span, len(b.Cells))] {
			h := 2 * st.CellPadding
			if c.Title != "" {
				n, err := m.lines(c.Title, title, cellWidth)
				if err != nil {
					return Measure{}, err
				}
				h += float64(n) * title.Leading
			}
			n, err := m.lines(c.Text, st.Cell, cellWidth)
			if err != nil {
				return Measure{}, err
			}
			h += float64(n) * st.Cell.Leading
			rowH = max(rowH, h)
		}
		y += rowH
	}
	ms.Height = y + st.Body.SpaceAfter
	return ms, nil
}

// RuleWidth is the thickness of table rules in points.
const RuleWidth = 0.75

func (m *FontMeasurer) lines(text string, st TextStyle, width float64) (int, error) {
	plain := m.Plain
	if plain == nil {
		plain = StripInline
	}
	return WrapCount(plain(text), st.Font, st.Size, width)
}

// WrapCount returns how many lines greedy word wrap produces for text at
// width points. Empty text still occupies one line. Words wider than the
// line get a line of their own.
func WrapCount(text string, style fonts.Style, size, width float64) (int, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 1, nil
	}
	space, err := fonts.Width(style, size, " ")
	if err != nil {
		return 0, err
	}

	lines, cur := 1, 0.0
	for _, w := range words {
		ww, err := fonts.Width(style, size, w)
		if err != nil {
			return 0, err
		}
		switch {
		case cur == 0:
			cur = ww
		case cur+space+ww <= width:
			cur += space + ww
		default:
			lines++
			cur = ww
		}
	}
	return lines, nil
}

var (
	linkPattern    = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	inlineReplacer = strings.NewReplacer("**", "", "__", "", "*", "", "`", "", `\`, "")
	listPattern    = regexp.MustCompile(`^\s*([-*+]|\d+[.)])\s+`)
)

// StripInline removes common inline markdown markers, keeping link text.
func StripInline(s string) string {
	return inlineReplacer.Replace(linkPattern.ReplaceAllString(s, "$1"))
}

// mdLine is one wrapped unit of a markdown paragraph.
type mdLine struct {
	text string
	item bool
}

// splitParagraphs groups markdown lines into blank-line separated
// paragraphs. List items stay separate entries; other lines are joined.
func splitParagraphs(text string) [][]mdLine {
	var (
		out  [][]mdLine
		para []mdLine
	)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(para) > 0 {
				out = append(out, para)
				para = nil
			}
			continue
		}
		if listPattern.MatchString(line) {
			para = append(para, mdLine{text: listPattern.ReplaceAllString(line, ""), item: true})
			continue
		}
		trimmed = strings.TrimLeft(trimmed, "#> ")
		if n := len(para); n > 0 {
			para[n-1].text += " " + trimmed
			continue
		}
		para = append(para, mdLine{text: trimmed})
	}
	if len(para) > 0 {
		out = append(out, para)
	}
	return out
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}
