package diagram

import (
	"fmt"
	"math"
	"strconv"

	"github.com/beevik/etree"

	"github.com/alnah/go-report2pdf/internal/fonts"
)

// SVG renders the diagram as a standalone <svg> element suitable for
// inlining into HTML.
func (d *Diagram) SVG() (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("width", num(d.Width))
	svg.CreateAttr("height", num(d.Height))
	svg.CreateAttr("viewBox", fmt.Sprintf("0 0 %s %s", num(d.Width), num(d.Height)))
	svg.CreateAttr("class", "diagram")
	if d.Title != "" {
		svg.CreateAttr("role", "img")
		svg.CreateElement("title").SetText(d.Title)
	}

	for _, b := range d.Boxes {
		g := svg.CreateElement("g")
		g.CreateAttr("class", "box")

		shadow := g.CreateElement("rect")
		setRect(shadow, b.X+ShadowOffset, b.Y+ShadowOffset, b.Width, b.Height)
		shadow.CreateAttr("fill", ShadowColor)
		shadow.CreateAttr("fill-opacity", num(ShadowOpacity))

		rect := g.CreateElement("rect")
		setRect(rect, b.X, b.Y, b.Width, b.Height)
		rect.CreateAttr("fill", b.Fill)
		rect.CreateAttr("stroke", StrokeColor)
		rect.CreateAttr("stroke-width", "1")

		lines, ys := labelLines(b)
		cx := b.Center().X
		for i, line := range lines {
			text := g.CreateElement("text")
			text.CreateAttr("x", num(cx))
			text.CreateAttr("y", num(ys[i]))
			text.CreateAttr("text-anchor", "middle")
			text.CreateAttr("dominant-baseline", "central")
			text.CreateAttr("font-family", fonts.Family+", sans-serif")
			text.CreateAttr("font-size", num(LabelSize))
			text.CreateAttr("fill", LabelColor)
			text.SetText(line)
		}
	}

	for _, c := range d.Connectors {
		g := svg.CreateElement("g")
		g.CreateAttr("class", "connector")

		line := g.CreateElement("line")
		line.CreateAttr("x1", num(c.X1))
		line.CreateAttr("y1", num(c.Y1))
		line.CreateAttr("x2", num(c.X2))
		line.CreateAttr("y2", num(c.Y2))
		line.CreateAttr("stroke", StrokeColor)
		line.CreateAttr("stroke-width", "1.5")

		l, r := Arrowhead(c, ArrowOffset, ArrowDelta)
		head := g.CreateElement("polygon")
		head.CreateAttr("points", fmt.Sprintf("%s,%s %s,%s %s,%s",
			num(c.X2), num(c.Y2), num(l.X), num(l.Y), num(r.X), num(r.Y)))
		head.CreateAttr("fill", StrokeColor)
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("writing svg: %w", err)
	}
	return out, nil
}

func setRect(el *etree.Element, x, y, w, h float64) {
	el.CreateAttr("x", num(x))
	el.CreateAttr("y", num(y))
	el.CreateAttr("width", num(w))
	el.CreateAttr("height", num(h))
	el.CreateAttr("rx", num(CornerRadius))
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
