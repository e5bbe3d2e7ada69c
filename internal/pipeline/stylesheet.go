package pipeline

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-report2pdf/internal/fonts"
	"github.com/alnah/go-report2pdf/internal/layout"
)

// Typography returns the CSS that fixes every metric the layout engine
// measures: embedded Go fonts, sizes, line heights, spacing and rules.
// Decorative styles are layered on top of it and must not change metrics.
func Typography(st layout.Styles) string {
	var b strings.Builder

	b.WriteString(fontFaces())

	body := st.Body
	fmt.Fprintf(&b, "body{margin:0;font-family:%q,sans-serif;font-size:%s;line-height:%s;font-kerning:normal;-webkit-print-color-adjust:exact;print-color-adjust:exact}\n",
		fonts.Family, pt(body.Size), pt(body.Leading))
	b.WriteString(".block{display:flow-root}\n")
	b.WriteString(".align-left{text-align:left}.align-center{text-align:center}.align-right{text-align:right}.align-justify{text-align:justify}\n")

	for i, h := range st.Headings {
		fmt.Fprintf(&b, "h%d{margin:0 0 %s;font-size:%s;line-height:%s;font-weight:%s}\n",
			i+1, pt(h.SpaceAfter), pt(h.Size), pt(h.Leading), weight(h.Font))
	}

	fmt.Fprintf(&b, "p{margin:0 0 %s}\n", pt(body.SpaceAfter))
	fmt.Fprintf(&b, "ul,ol{margin:0 0 %s;padding-left:%s}\n", pt(body.SpaceAfter), pt(st.ListIndent))
	b.WriteString("li p{margin:0}\n")
	fmt.Fprintf(&b, "strong,b,th,.cell-title{font-weight:700}\n")

	cell := st.Cell
	fmt.Fprintf(&b, "table.report-table{width:100%%;table-layout:fixed;border-collapse:separate;border-spacing:0;margin:0 0 %s;border-top:%s solid}\n",
		pt(body.SpaceAfter), pt(layout.RuleWidth))
	fmt.Fprintf(&b, "table.report-table th,table.report-table td{padding:%s;border-bottom:%s solid;font-size:%s;line-height:%s;vertical-align:top;overflow-wrap:normal}\n",
		pt(st.CellPadding), pt(layout.RuleWidth), pt(cell.Size), pt(cell.Leading))

	fmt.Fprintf(&b, ".grid{display:grid;gap:%s;margin:0 0 %s}\n", pt(st.GridGap), pt(body.SpaceAfter))
	fmt.Fprintf(&b, ".grid .cell{padding:%s;font-size:%s;line-height:%s}\n", pt(st.CellPadding), pt(cell.Size), pt(cell.Leading))
	b.WriteString(".grid .cell-title,.grid .cell-text{display:block}\n")

	code := st.Code
	fmt.Fprintf(&b, "pre{margin:0 0 %s;padding:%s;font-family:%q,monospace;font-size:%s;line-height:%s;white-space:pre;overflow:hidden}\n",
		pt(code.SpaceAfter), pt(st.CodePadding), fonts.MonoFamily, pt(code.Size), pt(code.Leading))
	fmt.Fprintf(&b, "code{font-family:%q,monospace}\n", fonts.MonoFamily)

	caption := st.Caption
	fmt.Fprintf(&b, "figure{margin:0 0 %s}\n", pt(caption.SpaceAfter))
	fmt.Fprintf(&b, "figcaption{font-size:%s;line-height:%s}\n", pt(caption.Size), pt(caption.Leading))
	b.WriteString("figure svg,figure img{display:block;max-width:100%;height:auto;margin:0 auto}\n")

	band := st.Band
	fmt.Fprintf(&b, ".band{font-size:%s;line-height:%s}\n", pt(band.Size), pt(band.Leading))
	b.WriteString(".page-break{break-after:page}\n")

	b.WriteString(chromaCSS())
	return b.String()
}

// pt formats a length in points.
func pt(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "pt"
}

func weight(s fonts.Style) string {
	if s == fonts.Bold {
		return "700"
	}
	return "400"
}

var fontFaces = sync.OnceValue(func() string {
	var b strings.Builder
	face := func(family, weight string, ttf []byte) {
		fmt.Fprintf(&b, "@font-face{font-family:%q;font-weight:%s;font-style:normal;src:url(data:font/ttf;base64,%s) format(\"truetype\")}\n",
			family, weight, base64.StdEncoding.EncodeToString(ttf))
	}
	face(fonts.Family, "400", fonts.TTF(fonts.Regular))
	face(fonts.Family, "700", fonts.TTF(fonts.Bold))
	face(fonts.MonoFamily, "400", fonts.TTF(fonts.Mono))
	return b.String()
})

var chromaCSS = sync.OnceValue(func() string {
	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, styles.Get(ChromaStyle)); err != nil {
		return ""
	}
	return b.String()
})
