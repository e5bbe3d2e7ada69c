package report2pdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alnah/go-report2pdf/internal/layout"
)

// bandRule is the width of the line under the header and over the footer:
// one CSS pixel.
const bandRule = 0.75

// pt formats a length in points.
func pt(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "pt"
}

// buildPagedCSS positions every element of a fixed page. Each .page box is
// exactly one printed page, so Chrome prints with zero margins and the CSS
// page size.
func buildPagedCSS(g layout.Geometry) string {
	var buf strings.Builder
	m := g.Margins

	fmt.Fprintf(&buf, "@page{size:%s %s;margin:0}\n", pt(g.Width), pt(g.Height))
	fmt.Fprintf(&buf, ".page{position:relative;box-sizing:border-box;width:%s;height:%s;overflow:hidden;break-after:page}\n",
		pt(g.Width), pt(g.Height))
	buf.WriteString(".page:last-child{break-after:auto}\n")
	fmt.Fprintf(&buf, ".page .content{position:absolute;top:%s;left:%s;width:%s;height:%s;overflow:hidden}\n",
		pt(m.Top), pt(m.Left), pt(g.ContentWidth()), pt(g.ContentHeight()))
	buf.WriteString(".slice{overflow:hidden}\n")
	fmt.Fprintf(&buf, ".band{position:absolute;box-sizing:border-box;left:%s;width:%s;height:%s;display:flex;justify-content:space-between;align-items:center;white-space:nowrap;overflow:hidden}\n",
		pt(m.Left), pt(g.ContentWidth()), pt(g.BandHeight))
	fmt.Fprintf(&buf, ".band-header{top:%s;border-bottom:%s solid}\n", pt(g.HeaderOffset), pt(bandRule))
	fmt.Fprintf(&buf, ".band-footer{bottom:%s;border-top:%s solid}\n", pt(g.FooterOffset), pt(bandRule))
	buf.WriteString(".band-right{margin-left:auto;padding-left:1em;text-overflow:ellipsis;overflow:hidden}\n")
	return buf.String()
}

// buildWebCSS adds the print rules of the web preview: the CSS page box,
// page-break hints at section boundaries, and orphan/widow control. The
// browser paginates this path itself, so no bands are drawn.
func buildWebCSS(g layout.Geometry, rules layout.Rules) string {
	var buf strings.Builder
	m := g.Margins

	fmt.Fprintf(&buf, "@page{size:%s %s;margin:%s %s %s %s}\n",
		pt(g.Width), pt(g.Height), pt(m.Top), pt(m.Right), pt(m.Bottom), pt(m.Left))
	buf.WriteString(`
/* Page breaks: keep headings with what follows */
h1, h2, h3, h4 {
  break-after: avoid;
  break-inside: avoid;
}

figure, .grid .cell, tr {
  break-inside: avoid;
}
`)
	fmt.Fprintf(&buf, `
/* Page breaks: orphan/widow control */
p, li, pre {
  orphans: %d;
  widows: %d;
}
`, rules.Orphans, rules.Widows)
	buf.WriteString(`
@media print {
  .section.break-before {
    break-before: page;
  }
}
`)
	return buf.String()
}
